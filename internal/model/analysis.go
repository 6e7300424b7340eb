package model

import "time"

// Measurements is the fixed set of ten text-mining metrics computed for
// every analyzed document. The field set and JSON names form the contract
// with the LLM providers: the prompt asks for exactly these fields and the
// response parser validates against them.
type Measurements struct {
	// WordCount is the number of words in the document text.
	WordCount float64 `json:"word_count"`

	// SentenceCount is the number of sentences in the document text.
	SentenceCount float64 `json:"sentence_count"`

	// AverageWordsPerSentence is WordCount divided by SentenceCount.
	AverageWordsPerSentence float64 `json:"average_words_per_sentence"`

	// FleschReadingEase is the Flesch reading-ease score.
	FleschReadingEase float64 `json:"flesch_reading_ease"`

	// FleschKincaidGrade is the Flesch-Kincaid grade level.
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade"`

	// AutomatedReadabilityIndex is the ARI readability score.
	AutomatedReadabilityIndex float64 `json:"automated_readability_index"`

	// SentimentScore ranges from -1 (negative) to 1 (positive).
	SentimentScore float64 `json:"sentiment_score"`

	// KeywordDensity is the density of legal keywords as a percentage.
	KeywordDensity float64 `json:"keyword_density"`

	// LegalClauseCount is the number of distinct legal clauses identified.
	LegalClauseCount float64 `json:"legal_clause_count"`

	// RiskIndicatorScore ranges from 0 (benign) to 100 (high risk).
	RiskIndicatorScore float64 `json:"risk_indicator_score"`
}

// Analysis is the LLM-derived analysis of exactly one CachedDocument's
// current content.
//
// Invariant: at most one Analysis exists per DocumentURL, and it is valid
// for consultation only while its TextHash equals the document's current
// TextHash. A mismatch means the document changed and the analysis must be
// recomputed and replaced in place, never duplicated.
type Analysis struct {
	// ID is the database row identifier.
	ID int64 `json:"id"`

	// DocumentID is the CachedDocument this analysis was computed for.
	DocumentID int64 `json:"document_id"`

	// DocumentURL mirrors the document's URL and is the unique key.
	DocumentURL string `json:"document_url"`

	// TextHash is the fingerprint of the document text the analysis was
	// computed from.
	TextHash string `json:"text_hash"`

	// SummaryShort is a one-sentence summary of the document.
	SummaryShort string `json:"summary_short"`

	// SummaryLong is a roughly 100-word summary of the document.
	SummaryLong string `json:"summary_long"`

	// WordFrequency maps the top 50 words to their occurrence counts.
	WordFrequency map[string]int `json:"word_frequency"`

	// Measurements holds the ten named text-mining metrics.
	Measurements Measurements `json:"measurements"`

	// Provider names the LLM provider that produced this analysis.
	Provider string `json:"provider"`

	// CreatedAt is when the analysis was first stored.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the analysis was last replaced or confirmed.
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxWordFrequencyEntries caps the stored word-frequency mapping.
// The prompt asks providers for the top 50 words, but provider output is
// untrusted, so the cap is enforced locally before caching.
const MaxWordFrequencyEntries = 50
