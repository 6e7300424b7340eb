package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values reflect typical clearnet latency and the rate limits of the
// free tiers of the supported LLM providers.
const (
	// DefaultTimeout is the connection timeout for each HTTP request.
	// Legal document pages are ordinary clearnet pages, so 30 seconds is
	// generous. Slow corporate sites occasionally need most of it.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPerType is the maximum number of candidate documents fetched
	// per document type. Sites rarely have more than a couple of pages per
	// legal document type. Fetching more mostly finds duplicates.
	DefaultMaxPerType = 5

	// DefaultFetchConcurrency is the number of candidate pages fetched in
	// parallel during a crawl session. Higher values speed up large sites
	// but risk tripping rate limits on smaller ones.
	DefaultFetchConcurrency = 5

	// DefaultSessionTimeout bounds an entire crawl session including LLM
	// analysis. Sessions run in the background, so a generous bound only
	// protects against hung providers.
	DefaultSessionTimeout = 5 * time.Minute

	// DefaultFallbackDailyLimit is the number of secondary-provider analyses
	// allowed per UTC day. The secondary provider's free tier is small, so
	// fallbacks are rationed rather than unlimited.
	DefaultFallbackDailyLimit = 10

	// AppName is the application name used for XDG directory paths.
	AppName = "legalscan"

	// DefaultUserAgent identifies legalscan in HTTP requests.
	// Using a descriptive User-Agent is good practice and allows operators
	// to identify crawler traffic in their logs.
	DefaultUserAgent = "legalscan/1.0 (+https://github.com/legalscan/legalscan)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for most HTML pages while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Environment variable names for LLM provider credentials.
// Keys are read from the environment rather than the config file so that
// the config file can be committed without leaking secrets.
const (
	// EnvGeminiAPIKey is the environment variable holding the Google AI key.
	EnvGeminiAPIKey = "GEMINI_API_KEY"

	// EnvGroqAPIKey is the environment variable holding the Groq key.
	EnvGroqAPIKey = "GROQ_API_KEY"
)

// Config holds all configuration options for legalscan.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
// If the configuration grows significantly, consider refactoring into sub-structs.
type Config struct {
	// Timeout is the connection timeout for each HTTP request.
	// This applies to individual page fetches, not the overall session.
	Timeout time.Duration

	// MaxPerType is the maximum number of candidate documents fetched per
	// document type. A value of 0 means use the default.
	MaxPerType int

	// FetchConcurrency is the number of candidate pages fetched in parallel.
	// A value of 0 means use the default.
	FetchConcurrency int

	// SessionTimeout bounds an entire crawl session including LLM analysis.
	SessionTimeout time.Duration

	// FallbackDailyLimit is the number of secondary-provider analyses
	// allowed per UTC day.
	FallbackDailyLimit int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .legalscan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	// This is populated by LoadConfigFile and used during crawling.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of Markdown.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables explicit Markdown report output.
	// Markdown is already the default; the flag exists for symmetry.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Targets is the list of site URLs to crawl.
	// Must contain at least one URL.
	Targets []string

	// DocumentTypes restricts the crawl to the named document types.
	// Empty means all known types.
	DocumentTypes []string

	// UserID identifies the requester that owns the crawl session.
	UserID string

	// ForceRefresh bypasses both the document cache and the analysis cache.
	// Restricted to privileged users.
	ForceRefresh bool

	// DBDir is the directory path for storing the SQLite database.
	// Defaults to the XDG data directory (~/.local/share/legalscan on Linux).
	DBDir string

	// GeminiAPIKey is the Google AI API key for the primary provider.
	// Populated from the GEMINI_API_KEY environment variable.
	GeminiAPIKey string

	// GroqAPIKey is the Groq API key for the fallback provider.
	// Populated from the GROQ_API_KEY environment variable.
	GroqAPIKey string

	// UserAgent is the User-Agent header sent with HTTP requests.
	// A descriptive User-Agent helps site operators identify crawler traffic.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use cases.
// Users can override specific values after creation. Provider API keys are
// read from the environment.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, limits).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:            DefaultTimeout,
		MaxPerType:         DefaultMaxPerType,
		FetchConcurrency:   DefaultFetchConcurrency,
		SessionTimeout:     DefaultSessionTimeout,
		FallbackDailyLimit: DefaultFallbackDailyLimit,
		UserAgent:          DefaultUserAgent,
		MaxBodySize:        DefaultMaxBodySize,
		DBDir:              XDGDataDir(),
		GeminiAPIKey:       os.Getenv(EnvGeminiAPIKey),
		GroqAPIKey:         os.Getenv(EnvGroqAPIKey),
	}
}

// XDGDataDir returns the XDG data directory for legalscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/legalscan
// On macOS: ~/Library/Application Support/legalscan
// On Windows: %LOCALAPPDATA%\legalscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for legalscan.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/legalscan
// On macOS: ~/Library/Application Support/legalscan
// On Windows: %APPDATA%\legalscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target site to crawl
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// FetchConcurrency must be non-negative; 0 falls back to the default
	if c.FetchConcurrency < 0 {
		return ErrInvalidConcurrency
	}

	// MaxPerType must be non-negative; 0 falls back to the default
	if c.MaxPerType < 0 {
		return ErrInvalidMaxPerType
	}

	// FallbackDailyLimit must be non-negative; 0 disables fallback
	if c.FallbackDailyLimit < 0 {
		return ErrInvalidFallbackLimit
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// MaxBodySize must be non-negative if set
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
