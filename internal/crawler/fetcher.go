package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultMaxBodySize limits the response body read for any single page.
// 5MB covers every realistic legal-document page while preventing memory
// exhaustion from unexpectedly large responses.
const DefaultMaxBodySize = 5 * 1024 * 1024

// FetchError describes a failed page retrieval. It carries the HTTP
// status when the server responded, so callers can distinguish transport
// failures (StatusCode == 0) from HTTP-level errors.
type FetchError struct {
	// URL is the page that failed to fetch.
	URL string

	// StatusCode is the HTTP status, or 0 for transport errors.
	StatusCode int

	// Err is the underlying error for transport failures.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Page is one fetched HTML page.
type Page struct {
	// URL is the URL the page was fetched from.
	URL string

	// StatusCode is the HTTP response status.
	StatusCode int

	// ContentType is the response Content-Type header.
	ContentType string

	// HTML is the raw response body, truncated at the body size limit.
	HTML string
}

// Fetcher retrieves pages over HTTP.
//
// Design decision: We require an external *http.Client rather than
// constructing one because:
//  1. The client carries the per-request timeout policy, owned by config
//  2. Tests substitute an httptest-backed client trivially
//  3. One client means one shared connection pool across a session
type Fetcher struct {
	// client performs the HTTP requests.
	client *http.Client

	// userAgent is sent on every request.
	userAgent string

	// maxBodySize limits how much of a response body is read.
	maxBodySize int64

	// headers are extra headers sent on every request, for sites that
	// gate their legal pages behind consent or language negotiation.
	headers map[string]string

	// cookie is an optional Cookie header value sent on every request.
	cookie string

	// logger receives per-fetch debug logging.
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithRequestHeaders sets extra headers sent on every request.
func WithRequestHeaders(headers map[string]string) FetcherOption {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithCookie sets a Cookie header sent on every request.
// Format: "name=value" or "name1=value1; name2=value2"
func WithCookie(cookie string) FetcherOption {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithFetcherLogger sets a custom logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   "Mozilla/5.0 (compatible; legalscan/1.0)",
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Fetch retrieves one page. Any HTTP status >= 400 is a *FetchError with
// that status; transport problems (DNS, refused connection, timeout) are
// a *FetchError wrapping the underlying error.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("fetch failed", "url", pageURL, "error", err)
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		f.logger.Debug("fetch returned error status",
			"url", pageURL,
			"status", resp.StatusCode,
		)
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	f.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return &Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		HTML:        string(body),
	}, nil
}

// IsHTML reports whether the page's content type is HTML. Pages without
// a Content-Type header are assumed to be HTML, since many small sites
// omit it.
func (p *Page) IsHTML() bool {
	if p.ContentType == "" {
		return true
	}
	return strings.Contains(p.ContentType, "text/html") ||
		strings.Contains(p.ContentType, "application/xhtml")
}
