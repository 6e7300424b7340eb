// Package database provides SQLite-based storage for the shared document
// cache, the shared analysis cache, and per-requester crawl sessions.
//
// The document and analysis caches are global: entries are keyed by
// document URL and shared across all requesters. Session tables hold
// per-requester frozen copies that survive later cache mutations.
package database
