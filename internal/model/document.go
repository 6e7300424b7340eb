package model

import "time"

// DocumentType identifies the kind of legal document a URL points to.
//
// Design decision: We use string-backed constants rather than iota because
// the values are persisted in SQLite and exchanged with the LLM prompt;
// a stable wire representation matters more than comparison speed here.
type DocumentType string

const (
	// DocTypePrivacy is a privacy policy, privacy statement, or privacy notice.
	DocTypePrivacy DocumentType = "privacy"

	// DocTypeTOS is a terms-of-service or user/service agreement.
	DocTypeTOS DocumentType = "tos"

	// DocTypeTermsAndConditions is a general terms-and-conditions document.
	DocTypeTermsAndConditions DocumentType = "terms_and_conditions"

	// DocTypeTermsOfUse is a terms-of-use or usage-terms document.
	DocTypeTermsOfUse DocumentType = "terms_of_use"
)

// AllDocumentTypes returns every known document type in a fixed order.
// The order is used when no type filter is supplied by the caller.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocTypePrivacy,
		DocTypeTOS,
		DocTypeTermsAndConditions,
		DocTypeTermsOfUse,
	}
}

// IsValid reports whether t is one of the known document types.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocTypePrivacy, DocTypeTOS, DocTypeTermsAndConditions, DocTypeTermsOfUse:
		return true
	default:
		return false
	}
}

// String returns the persisted representation of the document type.
func (t DocumentType) String() string {
	return string(t)
}

// DisplayName returns a human-readable label for reports and logs.
func (t DocumentType) DisplayName() string {
	switch t {
	case DocTypePrivacy:
		return "Privacy Policy"
	case DocTypeTOS:
		return "Terms of Service"
	case DocTypeTermsAndConditions:
		return "Terms and Conditions"
	case DocTypeTermsOfUse:
		return "Terms of Use"
	default:
		return string(t)
	}
}

// DocumentStatus is the cache validity status of a CachedDocument.
// It is a freshness claim about the cache entry, not a statement about
// the correctness of the document content.
type DocumentStatus string

const (
	// DocumentFresh marks an entry stored by a successful fetch and still
	// considered reusable within the cache validity window.
	DocumentFresh DocumentStatus = "fresh"

	// DocumentStale marks an entry that an external process flagged as
	// outdated. Stale entries are never returned by cache lookups but are
	// kept so that version history survives until a re-fetch replaces them.
	DocumentStale DocumentStatus = "stale"

	// DocumentFailed marks an entry whose most recent re-fetch attempt
	// did not complete.
	DocumentFailed DocumentStatus = "failed"
)

// IsValid reports whether s is a known document status.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentFresh, DocumentStale, DocumentFailed:
		return true
	default:
		return false
	}
}

// CachedDocument is one fetched legal document in the shared cache.
// Entries are shared across all requesters: a crawl by one user can be
// served from a document another user's crawl stored.
//
// Invariant: at most one CachedDocument exists per DocumentURL, and
// Version increases exactly when TextHash changes on a re-fetch.
type CachedDocument struct {
	// ID is the database row identifier.
	ID int64 `json:"id"`

	// BaseURL is the normalized scheme+host identity of the site that was
	// crawled when this document was discovered. Documents linked across
	// subdomains group under the entry-page origin, not their own host.
	BaseURL string `json:"base_url"`

	// DocumentURL is the canonical full URL of the document itself.
	// It is the unique cache key.
	DocumentURL string `json:"document_url"`

	// DocumentType is the classified kind of legal document.
	DocumentType DocumentType `json:"document_type"`

	// Title is the page title if one was extracted. May be empty.
	Title string `json:"title,omitempty"`

	// RawText is the extracted plain text of the document.
	RawText string `json:"raw_text"`

	// TextHash is the SHA-256 fingerprint of RawText. It is the sole
	// criterion for "document unchanged" on re-fetch.
	TextHash string `json:"text_hash"`

	// WordCount is the number of words in RawText.
	WordCount int `json:"word_count"`

	// Version starts at 1 and increments each time TextHash changes.
	Version int `json:"version"`

	// Status is the cache validity status.
	Status DocumentStatus `json:"status"`

	// LastFetched is when the document content was last retrieved or
	// confirmed unchanged.
	LastFetched time.Time `json:"last_fetched"`

	// CreatedAt is when the cache entry was first stored.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when any field of the entry last changed.
	UpdatedAt time.Time `json:"updated_at"`
}
