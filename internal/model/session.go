package model

import "time"

// SessionStatus tracks the lifecycle of a crawl session.
// Transitions are PENDING -> PROCESSING -> COMPLETED | FAILED;
// COMPLETED and FAILED are terminal.
type SessionStatus string

const (
	// SessionPending means the session record exists but the crawl has not
	// started yet.
	SessionPending SessionStatus = "pending"

	// SessionProcessing means the crawl is running.
	SessionProcessing SessionStatus = "processing"

	// SessionCompleted means the crawl finished. Individual documents may
	// still lack analyses; per-document failures never fail the session.
	SessionCompleted SessionStatus = "completed"

	// SessionFailed means the entry page could not be fetched or parsed.
	// Only that initial failure is fatal to a session.
	SessionFailed SessionStatus = "failed"
)

// IsValid reports whether s is a known session status.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionPending, SessionProcessing, SessionCompleted, SessionFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is final.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionFailed
}

// MaxErrorMessageLength bounds the error string stored on a failed session.
// Network errors can embed entire response bodies; truncation keeps the
// session row small while preserving enough context to diagnose.
const MaxErrorMessageLength = 500

// TruncateError shortens an error message to MaxErrorMessageLength runes.
func TruncateError(msg string) string {
	runes := []rune(msg)
	if len(runes) <= MaxErrorMessageLength {
		return msg
	}
	return string(runes[:MaxErrorMessageLength])
}

// CrawlSession is one crawl request made by one user.
// Sessions record their terminal status and result counts; the documents
// and analyses themselves live in the per-requester copy tables.
type CrawlSession struct {
	// ID is the session identifier (UUID string).
	ID string `json:"id"`

	// UserID identifies the requester that owns this session.
	UserID string `json:"user_id"`

	// URL is the normalized entry URL the crawl started from.
	URL string `json:"url"`

	// Status is the current lifecycle state.
	Status SessionStatus `json:"status"`

	// DocumentCount is the number of documents found, set on completion.
	DocumentCount int `json:"document_count"`

	// AnalyzedCount is the number of documents with an analysis, set on
	// completion. AnalyzedCount <= DocumentCount always holds.
	AnalyzedCount int `json:"analyzed_count"`

	// ErrorMessage is the truncated failure reason for FAILED sessions.
	ErrorMessage string `json:"error_message,omitempty"`

	// CreatedAt is when the session was requested.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the session last changed state.
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is a per-requester copy of a cached document, frozen at the
// time of the request. It exists so each requester keeps an immutable
// personal record independent of later shared-cache mutations, and it is
// deleted when the owning session is deleted.
type Document struct {
	// ID is the database row identifier.
	ID int64 `json:"id"`

	// SessionID is the owning crawl session.
	SessionID string `json:"session_id"`

	// UserID identifies the requester that owns this copy.
	UserID string `json:"user_id"`

	// URL is the document URL at the time of the crawl.
	URL string `json:"url"`

	// DocumentType is the classified kind of legal document.
	DocumentType DocumentType `json:"document_type"`

	// Title is the extracted page title, if any.
	Title string `json:"title,omitempty"`

	// RawText is the document text at the time of the crawl.
	RawText string `json:"raw_text"`

	// TextHash fingerprints RawText.
	TextHash string `json:"text_hash"`

	// WordCount is the word count of RawText.
	WordCount int `json:"word_count"`

	// CreatedAt is when the copy was made.
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisResult is a per-requester copy of an analysis, bound to a
// per-requester Document copy. Deleted with its document's session.
type AnalysisResult struct {
	// ID is the database row identifier.
	ID int64 `json:"id"`

	// DocumentID is the per-requester Document this result belongs to.
	DocumentID int64 `json:"document_id"`

	// UserID identifies the requester that owns this copy.
	UserID string `json:"user_id"`

	// SummaryShort is the one-sentence summary.
	SummaryShort string `json:"summary_short"`

	// SummaryLong is the ~100-word summary.
	SummaryLong string `json:"summary_long"`

	// WordFrequency maps the top words to occurrence counts.
	WordFrequency map[string]int `json:"word_frequency"`

	// Measurements holds the ten named text-mining metrics.
	Measurements Measurements `json:"measurements"`

	// Provider names the LLM provider that produced the analysis.
	Provider string `json:"provider"`

	// CreatedAt is when the copy was made.
	CreatedAt time.Time `json:"created_at"`
}
