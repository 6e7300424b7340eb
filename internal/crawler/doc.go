// Package crawler provides fetching, parsing, and link classification for
// legal-document discovery.
//
// # Components
//
//   - Fetcher: retrieves one page over HTTP with timeouts and body limits
//   - Parser: extracts the title and outbound links from HTML
//   - Classifier: scores outbound links against known legal-document
//     URL patterns and keyword tables
//   - ExtractText: produces readable plain text from document HTML
//
// The crawl here is deliberately shallow: one entry page plus the
// candidate document links discovered on it. There is no recursive
// spidering, no queue, and no politeness delay machinery; bounded fan-out
// over the candidates is handled by the session runner.
//
// # Classification
//
// Classification is a heuristic, not a guarantee. A link's score comes
// from the first matching strategy: URL-path pattern (high confidence),
// anchor-text keywords (medium), title-attribute keywords (low). False
// positives and negatives are expected; what matters is that ties break
// deterministically so the same page always yields the same candidates.
package crawler
