package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/legalscan/legalscan/internal/model"
)

const sampleDocument = "We collect data. We share data with partners. You consent to this!"

// TestParseResponseStrictJSON tests the happy path.
func TestParseResponseStrictJSON(t *testing.T) {
	t.Parallel()

	raw := `{
		"summary_100_words": "This policy explains what data is collected, how it is shared with partners, and the consent the user grants by using the service.",
		"summary_one_sentence": "The policy covers data collection, sharing, and consent.",
		"word_frequency": {"data": 3, "consent": 1},
		"measurements": {
			"word_count": 13,
			"sentence_count": 3,
			"average_words_per_sentence": 4.33,
			"flesch_reading_ease": 65.2,
			"flesch_kincaid_grade": 6.1,
			"automated_readability_index": 5.8,
			"sentiment_score": -0.2,
			"keyword_density": 12.5,
			"legal_clause_count": 4,
			"risk_indicator_score": 61
		}
	}`

	result := ParseResponse(raw, sampleDocument)

	if result.Degraded {
		t.Error("valid JSON must not be degraded")
	}
	if result.SummaryShort != "The policy covers data collection, sharing, and consent." {
		t.Errorf("unexpected short summary: %q", result.SummaryShort)
	}
	if result.WordFrequency["data"] != 3 {
		t.Errorf("unexpected word frequency: %v", result.WordFrequency)
	}
	if result.Measurements.RiskIndicatorScore != 61 {
		t.Errorf("unexpected risk score: %v", result.Measurements.RiskIndicatorScore)
	}
}

// TestParseResponseCodeFences tests markdown fence stripping.
func TestParseResponseCodeFences(t *testing.T) {
	t.Parallel()

	inner := `{"summary_100_words": "Long summary.", "summary_one_sentence": "Short.", "word_frequency": {}, "measurements": {}}`

	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n" + inner + "\n```"},
		{"bare fence", "```\n" + inner + "\n```"},
		{"surrounding whitespace", "\n\n  ```json\n" + inner + "\n```  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := ParseResponse(tt.raw, sampleDocument)
			if result.Degraded {
				t.Fatal("fenced JSON must parse on the strict path")
			}
			if result.SummaryShort != "Short." {
				t.Errorf("unexpected short summary: %q", result.SummaryShort)
			}
		})
	}
}

// TestParseResponseComputedDefaults tests that missing measurements are
// filled from the document text.
func TestParseResponseComputedDefaults(t *testing.T) {
	t.Parallel()

	raw := `{"summary_100_words": "Long.", "summary_one_sentence": "Short.", "word_frequency": {}, "measurements": {"risk_indicator_score": 40}}`

	result := ParseResponse(raw, sampleDocument)

	// sampleDocument has 12 words and 3 sentence terminators.
	if result.Measurements.WordCount != 12 {
		t.Errorf("expected computed word count 12, got %v", result.Measurements.WordCount)
	}
	if result.Measurements.SentenceCount != 3 {
		t.Errorf("expected computed sentence count 3, got %v", result.Measurements.SentenceCount)
	}
	if result.Measurements.AverageWordsPerSentence != 4 {
		t.Errorf("expected computed average 4, got %v", result.Measurements.AverageWordsPerSentence)
	}
	if result.Measurements.RiskIndicatorScore != 40 {
		t.Errorf("provider-supplied risk score must be kept, got %v", result.Measurements.RiskIndicatorScore)
	}
}

// TestParseResponseDegraded tests the regex extraction path.
func TestParseResponseDegraded(t *testing.T) {
	t.Parallel()

	longSummary := strings.Repeat("The policy describes data practices. ", 4)
	raw := fmt.Sprintf(`Here is my analysis.
Summary: "%s"
One-sentence: "The policy covers data collection and sharing."
Hope this helps!`, longSummary)

	result := ParseResponse(raw, sampleDocument)

	if !result.Degraded {
		t.Fatal("non-JSON output must take the degraded path")
	}
	if !strings.Contains(result.SummaryLong, "The policy describes data practices.") {
		t.Errorf("expected extracted summary, got %q", result.SummaryLong)
	}
	if result.SummaryShort != "The policy covers data collection and sharing." {
		t.Errorf("expected extracted one-sentence summary, got %q", result.SummaryShort)
	}
	if result.Measurements.WordCount != 12 {
		t.Errorf("expected computed word count, got %v", result.Measurements.WordCount)
	}
	if result.Measurements.RiskIndicatorScore != 50 {
		t.Errorf("degraded path must default risk score to 50, got %v", result.Measurements.RiskIndicatorScore)
	}
	if result.Measurements.FleschReadingEase != 0 {
		t.Errorf("model-only metrics must be zero-filled, got %v", result.Measurements.FleschReadingEase)
	}
	if len(result.WordFrequency) != 0 {
		t.Errorf("degraded path must not invent frequencies, got %v", result.WordFrequency)
	}
}

// TestParseResponseDegradedNoMatches tests degraded output with nothing
// extractable.
func TestParseResponseDegradedNoMatches(t *testing.T) {
	t.Parallel()

	result := ParseResponse("I cannot analyze this document.", sampleDocument)

	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
	if result.SummaryLong == "" || result.SummaryShort == "" {
		t.Error("degraded result must carry placeholder summaries")
	}
}

// TestClampWordFrequency tests the top-N truncation of untrusted
// provider frequency maps.
func TestClampWordFrequency(t *testing.T) {
	t.Parallel()

	freq := make(map[string]int, 120)
	for i := 0; i < 120; i++ {
		freq[fmt.Sprintf("word%03d", i)] = i
	}

	clamped := clampWordFrequency(freq)
	if len(clamped) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(clamped))
	}
	// The highest counts must survive.
	if _, ok := clamped["word119"]; !ok {
		t.Error("expected highest-count word kept")
	}
	if _, ok := clamped["word000"]; ok {
		t.Error("expected lowest-count word dropped")
	}

	small := map[string]int{"data": 2}
	if got := clampWordFrequency(small); len(got) != 1 {
		t.Errorf("small maps must pass through, got %v", got)
	}
}

// TestBuildPromptClampsText tests the prompt text cap.
func TestBuildPromptClampsText(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", MaxPromptTextChars+1000)
	prompt := buildPrompt(text, "https://example.com/privacy", model.DocTypePrivacy)

	if len(prompt) >= len(text) {
		t.Error("expected prompt text to be clamped")
	}
	if !strings.Contains(prompt, "https://example.com/privacy") {
		t.Error("expected document URL in prompt")
	}
}
