package analyzer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/legalscan/legalscan/internal/model"
)

// Classification is the failure category of a provider call. The
// orchestrator keys its fallback decision on this value alone, never on
// error message text.
type Classification string

const (
	// ClassRateLimited means the provider rejected the call for quota
	// or rate reasons (HTTP 429).
	ClassRateLimited Classification = "rate_limited"

	// ClassUnavailable means the provider reported a transient server
	// failure (HTTP 500, 502, 503).
	ClassUnavailable Classification = "unavailable"

	// ClassTimeout means the call did not complete in time, either at
	// the transport or via a timeout status (HTTP 504, 408).
	ClassTimeout Classification = "timeout"

	// ClassOther covers everything else: authentication failures, bad
	// requests, malformed payloads. Not eligible for fallback, because
	// the secondary would almost certainly fail the same way or mask a
	// configuration bug.
	ClassOther Classification = "other"
)

// ProviderError is a failed provider call with its failure category.
type ProviderError struct {
	// Provider names the provider that failed.
	Provider string

	// Class categorizes the failure.
	Class Classification

	// StatusCode is the HTTP status, when the failure had one.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider failed (%s, status %d)", e.Provider, e.Class, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s provider failed (%s): %v", e.Provider, e.Class, e.Err)
	}
	return fmt.Sprintf("%s provider failed (%s)", e.Provider, e.Class)
}

// Unwrap returns the underlying error, if any.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Eligible reports whether this failure class permits trying the
// secondary provider.
func (e *ProviderError) Eligible() bool {
	switch e.Class {
	case ClassRateLimited, ClassUnavailable, ClassTimeout:
		return true
	default:
		return false
	}
}

// Result is one parsed provider analysis.
type Result struct {
	// SummaryLong is the roughly 100-word summary.
	SummaryLong string

	// SummaryShort is the one-sentence summary.
	SummaryShort string

	// WordFrequency maps top words to occurrence counts, capped at
	// model.MaxWordFrequencyEntries.
	WordFrequency map[string]int

	// Measurements holds the ten text-mining metrics.
	Measurements model.Measurements

	// Degraded is true when the provider output could not be parsed as
	// JSON and the regex extraction path filled the result instead.
	Degraded bool
}

// Provider is one LLM backend able to analyze a document.
type Provider interface {
	// Name identifies the provider in logs and stored analyses.
	Name() string

	// Configured reports whether the provider has credentials and can
	// be called.
	Configured() bool

	// Analyze produces an analysis of the document text. Failures are
	// returned as *ProviderError.
	Analyze(ctx context.Context, text, documentURL string, docType model.DocumentType) (*Result, error)
}

// classifyStatus maps an HTTP status code to a failure class.
func classifyStatus(status int) Classification {
	switch status {
	case http.StatusTooManyRequests:
		return ClassRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return ClassUnavailable
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ClassTimeout
	default:
		return ClassOther
	}
}

// classifyTransportErr maps a transport-level error to a failure class.
// Timeouts (including context deadline expiry) fall back; everything
// else is treated as unavailable since the request never reached a
// provider decision.
func classifyTransportErr(err error) Classification {
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}
	return ClassUnavailable
}
