// Package session runs crawl sessions: the orchestration of URL
// normalization, cache consultation, site crawling, document analysis,
// and per-requester result copies.
//
// Sessions run fire-and-forget: Submit returns a pending session
// immediately and the crawl proceeds in a background goroutine. Wait
// blocks until a session finishes, which callers use when they need the
// terminal state.
package session
