package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. Using errors.New() here rather than fmt.Errorf()
// because we don't need to include dynamic values in these messages.
var (
	// ErrNoTarget is returned when no target site URL is specified.
	ErrNoTarget = errors.New("no target specified: provide a site URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate connection failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the fetch concurrency is negative.
	// Use 0 to fall back to the default.
	ErrInvalidConcurrency = errors.New("invalid fetch concurrency: must be non-negative")

	// ErrInvalidMaxPerType is returned when the per-type document limit is
	// negative. Use 0 to fall back to the default.
	ErrInvalidMaxPerType = errors.New("invalid max documents per type: must be non-negative")

	// ErrInvalidFallbackLimit is returned when the fallback daily limit is
	// negative. Use 0 to disable the fallback provider entirely.
	ErrInvalidFallbackLimit = errors.New("invalid fallback daily limit: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
