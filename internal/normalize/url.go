package normalize

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// URL normalization errors.
var (
	// ErrEmptyURL is returned when the input URL is empty or whitespace.
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrInvalidURL is returned when the input cannot be parsed as a URL
	// or lacks a host after normalization.
	ErrInvalidURL = errors.New("invalid url")
)

// URL canonicalizes a user-entered URL for consistent cache storage and
// lookup. It applies the following rules:
//
//   - empty input fails with ErrEmptyURL
//   - a missing scheme defaults to https
//   - http is forced to https (the cache keys on one preferred scheme)
//   - the host is lowercased and a leading "www." is stripped
//   - the trailing path separator is stripped
//   - query and fragment are dropped; they never identify a distinct
//     legal document and would fragment the cache
//
// URL is idempotent: URL(URL(u)) == URL(u) for every input it accepts.
func URL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}

	path := strings.TrimRight(u.Path, "/")

	return "https://" + host + path, nil
}

// BaseURL reduces a URL to its normalized scheme+host identity. It is the
// grouping key for all documents discovered during one site's crawl.
func BaseURL(raw string) (string, error) {
	normalized, err := URL(raw)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}

	return "https://" + u.Host, nil
}
