package analyzer

import (
	"sync"
	"time"
)

// DefaultFallbackDailyLimit is how many times per UTC day the secondary
// provider may be used. Sized for a free-tier secondary quota.
const DefaultFallbackDailyLimit = 10

// FallbackQuota is an atomic daily counter gating secondary provider use.
//
// Acquire reserves a slot before the secondary call and Release returns
// it if the call fails, so the counter only ever reflects successful
// fallbacks. The reserve-then-release shape means the counter can never
// exceed the limit even under concurrent sessions. The counter resets
// lazily when the UTC day changes.
type FallbackQuota struct {
	// mu guards used and day.
	mu sync.Mutex

	// limit is the daily ceiling.
	limit int

	// used is the count of reserved slots for the current day.
	used int

	// day is the UTC date string the counter belongs to.
	day string

	// now returns the current time. Injectable for tests.
	now func() time.Time
}

// QuotaOption configures a FallbackQuota.
type QuotaOption func(*FallbackQuota)

// WithQuotaLimit overrides the daily ceiling.
func WithQuotaLimit(limit int) QuotaOption {
	return func(q *FallbackQuota) {
		q.limit = limit
	}
}

// WithQuotaClock injects a clock. Used by tests to cross day boundaries.
func WithQuotaClock(now func() time.Time) QuotaOption {
	return func(q *FallbackQuota) {
		q.now = now
	}
}

// NewFallbackQuota creates a quota with the default daily limit.
func NewFallbackQuota(opts ...QuotaOption) *FallbackQuota {
	q := &FallbackQuota{
		limit: DefaultFallbackDailyLimit,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(q)
	}

	return q
}

// TryAcquire reserves one fallback slot for today. It reports false when
// the daily ceiling is already reached.
func (q *FallbackQuota) TryAcquire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollDayLocked()

	if q.used >= q.limit {
		return false
	}
	q.used++
	return true
}

// Release returns a reserved slot after a failed secondary call.
func (q *FallbackQuota) Release() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollDayLocked()

	if q.used > 0 {
		q.used--
	}
}

// Used returns today's reserved slot count.
func (q *FallbackQuota) Used() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rollDayLocked()

	return q.used
}

// rollDayLocked resets the counter when the UTC day has changed.
// Callers must hold mu.
func (q *FallbackQuota) rollDayLocked() {
	today := q.now().UTC().Format("2006-01-02")
	if today != q.day {
		q.day = today
		q.used = 0
	}
}
