package crawler

import (
	"strings"
	"testing"
)

// TestParserParse tests link extraction and URL resolution against the
// page base URL.
func TestParserParse(t *testing.T) {
	t.Parallel()

	const page = `<!DOCTYPE html>
<html>
<head><title>Example Corp</title></head>
<body>
  <nav>
    <a href="/about">About us</a>
    <a href="/privacy" title="Privacy Policy">Privacy</a>
  </nav>
  <footer>
    <a href="https://other.example.org/terms">Terms of Service</a>
    <a href="legal/conditions"><span>General</span> <b>Conditions</b></a>
    <a href="#top">Back to top</a>
    <a href="mailto:info@example.com">Contact</a>
    <a href="javascript:void(0)">Menu</a>
    <a>No href here</a>
  </footer>
</body>
</html>`

	parser, err := NewParser("https://example.com/")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	result, err := parser.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if result.Title != "Example Corp" {
		t.Errorf("expected title %q, got %q", "Example Corp", result.Title)
	}

	want := []Link{
		{URL: "https://example.com/about", Text: "About us"},
		{URL: "https://example.com/privacy", Text: "Privacy", Title: "Privacy Policy"},
		{URL: "https://other.example.org/terms", Text: "Terms of Service"},
		{URL: "https://example.com/legal/conditions", Text: "General Conditions"},
	}

	if len(result.Links) != len(want) {
		t.Fatalf("expected %d links, got %d: %+v", len(want), len(result.Links), result.Links)
	}
	for i, w := range want {
		got := result.Links[i]
		if got.URL != w.URL || got.Text != w.Text || got.Title != w.Title {
			t.Errorf("link %d: expected %+v, got %+v", i, w, got)
		}
	}
}

// TestParserParseEmptyDocument tests that a page without anchors still
// parses cleanly.
func TestParserParseEmptyDocument(t *testing.T) {
	t.Parallel()

	parser, err := NewParser("https://example.com")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	result, err := parser.Parse(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(result.Links) != 0 {
		t.Errorf("expected no links, got %+v", result.Links)
	}
	if result.Title != "" {
		t.Errorf("expected empty title, got %q", result.Title)
	}
}

// TestNewParserInvalidBase tests base URL validation.
func TestNewParserInvalidBase(t *testing.T) {
	t.Parallel()

	if _, err := NewParser("://not a url"); err == nil {
		t.Error("expected error for invalid base URL")
	}
}
