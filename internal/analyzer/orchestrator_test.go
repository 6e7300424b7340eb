package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/legalscan/legalscan/internal/model"
)

// stubProvider is a scriptable Provider for orchestrator tests.
type stubProvider struct {
	name       string
	configured bool
	result     *Result
	err        error
	calls      int
}

func (s *stubProvider) Name() string     { return s.name }
func (s *stubProvider) Configured() bool { return s.configured }

func (s *stubProvider) Analyze(_ context.Context, _, _ string, _ model.DocumentType) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func okResult() *Result {
	return &Result{
		SummaryLong:   "A long summary.",
		SummaryShort:  "A short summary.",
		WordFrequency: map[string]int{},
	}
}

// TestOrchestratorPrimarySuccess tests that a healthy primary never
// triggers fallback.
func TestOrchestratorPrimarySuccess(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "gemini", configured: true, result: okResult()}
	secondary := &stubProvider{name: "groq", configured: true, result: okResult()}
	quota := NewFallbackQuota()

	o := NewOrchestrator(primary, secondary, quota)

	analysis, err := o.Analyze(context.Background(), "text", "https://example.com/privacy", model.DocTypePrivacy)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Provider != "gemini" {
		t.Errorf("expected primary label, got %s", analysis.Provider)
	}
	if secondary.calls != 0 {
		t.Error("secondary must not be called on primary success")
	}
	if quota.Used() != 0 {
		t.Errorf("quota must be untouched, got %d", quota.Used())
	}
}

// TestOrchestratorFallback tests eligible-failure fallback.
func TestOrchestratorFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		class Classification
	}{
		{"rate limited", ClassRateLimited},
		{"unavailable", ClassUnavailable},
		{"timeout", ClassTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			primary := &stubProvider{
				name:       "gemini",
				configured: true,
				err:        &ProviderError{Provider: "gemini", Class: tt.class},
			}
			secondary := &stubProvider{name: "groq", configured: true, result: okResult()}
			quota := NewFallbackQuota()

			o := NewOrchestrator(primary, secondary, quota)

			analysis, err := o.Analyze(context.Background(), "text", "https://example.com/privacy", model.DocTypePrivacy)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if analysis.Provider != "groq" {
				t.Errorf("expected secondary label, got %s", analysis.Provider)
			}
			if quota.Used() != 1 {
				t.Errorf("expected quota incremented, got %d", quota.Used())
			}
		})
	}
}

// TestOrchestratorIneligibleFailure tests that non-transient primary
// failures never fall back.
func TestOrchestratorIneligibleFailure(t *testing.T) {
	t.Parallel()

	primaryErr := &ProviderError{Provider: "gemini", Class: ClassOther, StatusCode: 401}
	primary := &stubProvider{name: "gemini", configured: true, err: primaryErr}
	secondary := &stubProvider{name: "groq", configured: true, result: okResult()}
	quota := NewFallbackQuota()

	o := NewOrchestrator(primary, secondary, quota)

	_, err := o.Analyze(context.Background(), "text", "https://example.com/privacy", model.DocTypePrivacy)
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected original primary error, got %v", err)
	}
	if secondary.calls != 0 {
		t.Error("secondary must not be called for ineligible failures")
	}
	if quota.Used() != 0 {
		t.Errorf("quota must be untouched, got %d", quota.Used())
	}
}

// TestOrchestratorSecondaryUnconfigured tests the configuration gate.
func TestOrchestratorSecondaryUnconfigured(t *testing.T) {
	t.Parallel()

	primaryErr := &ProviderError{Provider: "gemini", Class: ClassRateLimited, StatusCode: 429}
	primary := &stubProvider{name: "gemini", configured: true, err: primaryErr}
	secondary := &stubProvider{name: "groq", configured: false}
	quota := NewFallbackQuota()

	o := NewOrchestrator(primary, secondary, quota)

	_, err := o.Analyze(context.Background(), "text", "https://example.com/privacy", model.DocTypePrivacy)
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected original primary error, got %v", err)
	}
	if secondary.calls != 0 {
		t.Error("unconfigured secondary must not be called")
	}
	if quota.Used() != 0 {
		t.Errorf("quota must be untouched, got %d", quota.Used())
	}
}

// TestOrchestratorQuotaExhausted tests the quota gate.
func TestOrchestratorQuotaExhausted(t *testing.T) {
	t.Parallel()

	primaryErr := &ProviderError{Provider: "gemini", Class: ClassUnavailable, StatusCode: 503}
	primary := &stubProvider{name: "gemini", configured: true, err: primaryErr}
	secondary := &stubProvider{name: "groq", configured: true, result: okResult()}
	quota := NewFallbackQuota(WithQuotaLimit(0))

	o := NewOrchestrator(primary, secondary, quota)

	_, err := o.Analyze(context.Background(), "text", "https://example.com/privacy", model.DocTypePrivacy)
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected original primary error, got %v", err)
	}
	if secondary.calls != 0 {
		t.Error("secondary must not be called past the quota")
	}
}

// TestOrchestratorSecondaryFailure tests slot release and error
// propagation when both providers fail.
func TestOrchestratorSecondaryFailure(t *testing.T) {
	t.Parallel()

	primaryErr := &ProviderError{Provider: "gemini", Class: ClassTimeout}
	primary := &stubProvider{name: "gemini", configured: true, err: primaryErr}
	secondary := &stubProvider{
		name:       "groq",
		configured: true,
		err:        &ProviderError{Provider: "groq", Class: ClassRateLimited, StatusCode: 429},
	}
	quota := NewFallbackQuota(WithQuotaLimit(5))

	o := NewOrchestrator(primary, secondary, quota)

	_, err := o.Analyze(context.Background(), "text", "https://example.com/privacy", model.DocTypePrivacy)
	if !errors.Is(err, primaryErr) {
		t.Fatalf("expected the PRIMARY error when both fail, got %v", err)
	}
	if secondary.calls != 1 {
		t.Errorf("expected one secondary attempt, got %d", secondary.calls)
	}
	if quota.Used() != 0 {
		t.Errorf("failed fallback must release its slot, got %d used", quota.Used())
	}
}
