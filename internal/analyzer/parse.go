package analyzer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/legalscan/legalscan/internal/model"
)

// MaxPromptTextChars caps how much document text is sent to a provider.
// Fits comfortably inside both providers' context windows.
const MaxPromptTextChars = 50000

// buildPrompt renders the shared analysis prompt. Both providers receive
// the same prompt so their results are interchangeable in the cache.
func buildPrompt(text, documentURL string, docType model.DocumentType) string {
	if len(text) > MaxPromptTextChars {
		text = text[:MaxPromptTextChars]
	}

	return fmt.Sprintf(`Please analyze the following %s document and provide a comprehensive analysis in JSON format.

Document URL: %s
Document Type: %s

IMPORTANT: Respond with ONLY a JSON object (no markdown, no code blocks, no explanations) with the following structure:
{
    "summary_100_words": "A concise 100-word summary of the key points...",
    "summary_one_sentence": "A one-sentence summary of the entire document.",
    "word_frequency": {
        "word1": count1,
        "word2": count2
    },
    "measurements": {
        "word_count": <number>,
        "sentence_count": <number>,
        "average_words_per_sentence": <number>,
        "flesch_reading_ease": <number>,
        "flesch_kincaid_grade": <number>,
        "automated_readability_index": <number>,
        "sentiment_score": <number between -1 and 1>,
        "keyword_density": <percentage>,
        "legal_clause_count": <number>,
        "risk_indicator_score": <number between 0 and 100>
    }
}

Document Text:
%s`, docType.DisplayName(), documentURL, docType, text)
}

// providerPayload mirrors the JSON structure the prompt asks for.
type providerPayload struct {
	Summary100Words    string              `json:"summary_100_words"`
	SummaryOneSentence string              `json:"summary_one_sentence"`
	WordFrequency      map[string]int      `json:"word_frequency"`
	Measurements       *model.Measurements `json:"measurements"`
}

// summaryRegex pulls a summary-looking quoted string out of non-JSON
// provider output.
var summaryRegex = regexp.MustCompile(`(?i)summary[:\s]*["']([^"']{100,500})["']`)

// oneSentenceRegex pulls a one-sentence summary out of non-JSON output.
var oneSentenceRegex = regexp.MustCompile(`(?i)one.sentence[:\s]*["']([^"']{20,300})["']`)

// ParseResponse turns raw provider output into a Result.
//
// The strict path strips markdown code fences and decodes JSON; missing
// fields get computed defaults so a partial response still produces a
// complete Result. When the output is not JSON at all, the degraded path
// extracts what it can by regex and computes the basic text statistics
// locally, zero-filling the metrics that need a model to estimate.
// Degraded results are still successes: they are cached and returned.
func ParseResponse(raw, documentText string) *Result {
	cleaned := stripCodeFences(raw)

	var payload providerPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return degradedResult(raw, documentText)
	}

	result := &Result{
		SummaryLong:   payload.Summary100Words,
		SummaryShort:  payload.SummaryOneSentence,
		WordFrequency: clampWordFrequency(payload.WordFrequency),
	}
	if payload.Measurements != nil {
		result.Measurements = *payload.Measurements
	}

	if result.SummaryLong == "" {
		result.SummaryLong = "Analysis pending..."
	}
	if result.SummaryShort == "" {
		result.SummaryShort = "Analysis pending..."
	}
	if result.WordFrequency == nil {
		result.WordFrequency = map[string]int{}
	}

	fillComputedStats(&result.Measurements, documentText)

	return result
}

// stripCodeFences removes a surrounding markdown code block, with or
// without the json language tag. Providers add these despite being told
// not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// degradedResult is the regex extraction path for non-JSON output.
func degradedResult(raw, documentText string) *Result {
	result := &Result{
		SummaryLong:   "Summary extracted from analysis.",
		SummaryShort:  "Document analysis completed.",
		WordFrequency: map[string]int{},
		Degraded:      true,
	}

	if m := summaryRegex.FindStringSubmatch(raw); m != nil {
		result.SummaryLong = m[1]
	}
	if m := oneSentenceRegex.FindStringSubmatch(raw); m != nil {
		result.SummaryShort = m[1]
	}

	fillComputedStats(&result.Measurements, documentText)
	result.Measurements.RiskIndicatorScore = 50

	return result
}

// fillComputedStats fills the locally computable measurements when the
// provider left them zero: word count, sentence count, and their ratio.
func fillComputedStats(m *model.Measurements, documentText string) {
	wordCount := float64(len(strings.Fields(documentText)))
	sentenceCount := float64(len(sentenceEndRegex.FindAllString(documentText, -1)))

	if m.WordCount == 0 {
		m.WordCount = wordCount
	}
	if m.SentenceCount == 0 {
		m.SentenceCount = sentenceCount
	}
	if m.AverageWordsPerSentence == 0 {
		m.AverageWordsPerSentence = math.Round(wordCount/math.Max(sentenceCount, 1)*100) / 100
	}
}

// sentenceEndRegex counts sentence-terminating punctuation runs.
var sentenceEndRegex = regexp.MustCompile(`[.!?]+`)

// clampWordFrequency keeps at most model.MaxWordFrequencyEntries entries,
// preferring the highest counts. Provider output is untrusted; a model
// asked for 50 words may return 500.
func clampWordFrequency(freq map[string]int) map[string]int {
	if len(freq) <= model.MaxWordFrequencyEntries {
		return freq
	}

	type entry struct {
		word  string
		count int
	}
	entries := make([]entry, 0, len(freq))
	for w, c := range freq {
		entries = append(entries, entry{w, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].word < entries[j].word
	})

	clamped := make(map[string]int, model.MaxWordFrequencyEntries)
	for _, e := range entries[:model.MaxWordFrequencyEntries] {
		clamped[e.word] = e.count
	}
	return clamped
}
