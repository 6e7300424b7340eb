package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/legalscan/legalscan/internal/model"
)

func sampleReport() *SessionReport {
	return &SessionReport{
		Session: &model.CrawlSession{
			ID:            "4d5e7f18-2b9a-4c3d-8e1f-6a7b8c9d0e1f",
			UserID:        "user-1",
			URL:           "https://example.com",
			Status:        model.SessionCompleted,
			DocumentCount: 2,
			AnalyzedCount: 1,
			CreatedAt:     time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		},
		Documents: []DocumentReport{
			{
				Document: model.Document{
					URL:          "https://example.com/privacy",
					DocumentType: model.DocTypePrivacy,
					Title:        "Privacy Policy",
					WordCount:    1200,
				},
				Analysis: &model.AnalysisResult{
					SummaryShort:  "The policy covers data collection.",
					SummaryLong:   "A longer summary of the privacy policy.",
					WordFrequency: map[string]int{"data": 9, "privacy": 12},
					Measurements:  model.Measurements{WordCount: 1200, RiskIndicatorScore: 45},
					Provider:      "gemini",
				},
			},
			{
				Document: model.Document{
					URL:          "https://example.com/terms",
					DocumentType: model.DocTypeTOS,
					WordCount:    2400,
				},
			},
		},
	}
}

// TestMarkdownWriter tests the Markdown rendering.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	n, err := w.Write(sampleReport())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n == 0 {
		t.Error("expected non-zero bytes written")
	}

	out := buf.String()
	for _, want := range []string{
		"# Legal Document Report",
		"https://example.com",
		"## Privacy Policy",
		"The policy covers data collection.",
		"Risk indicator score",
		"privacy", // frequency table
		"No analysis available",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}

	// Untitled documents fall back to the type display name.
	if !strings.Contains(out, "## Terms of Service") {
		t.Error("expected type display name for untitled document")
	}
}

// TestJSONWriter tests the JSON rendering round trip.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf, WithPrettyPrint())

	if _, err := w.Write(sampleReport()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded SessionReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Session.ID != "4d5e7f18-2b9a-4c3d-8e1f-6a7b8c9d0e1f" {
		t.Errorf("unexpected session ID: %s", decoded.Session.ID)
	}
	if len(decoded.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(decoded.Documents))
	}
	if decoded.Documents[0].Analysis == nil {
		t.Error("expected first document analysis present")
	}
	if decoded.Documents[1].Analysis != nil {
		t.Error("expected second document analysis omitted")
	}
}
