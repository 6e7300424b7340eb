// Package model defines the core data structures shared across legalscan.
//
// This package contains the following main types:
//
//   - CachedDocument: a legal document in the shared document cache
//   - Analysis: the LLM-derived analysis bound to one document's content
//   - CrawlSession: one crawl request and its lifecycle status
//   - Document / AnalysisResult: per-requester copies of cache entries
//
// Design decision: Models are plain structs with no behavior beyond
// validation and formatting helpers. Persistence lives in the database
// package and orchestration in the session package, which keeps models
// importable from any layer without cycles.
package model
