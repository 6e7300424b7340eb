// Package normalize provides URL canonicalization and text fingerprinting.
//
// Every URL stored in or looked up from the caches passes through
// NormalizeURL first, so cache keys never diverge on scheme, case, a
// leading "www.", or a trailing slash. NormalizeURL is a projection:
// applying it twice yields the same result as applying it once.
//
// Text fingerprints are SHA-256 digests of the UTF-8 text and are the
// sole criterion for "document unchanged" across re-fetches.
package normalize
