package crawler

import (
	"strings"
	"testing"
)

// TestExtractText tests extraction from an article-shaped page.
func TestExtractText(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("We collect personal information when you use our services. ", 20)
	page := `<!DOCTYPE html>
<html>
<head><title>Privacy Policy | Example</title></head>
<body>
  <nav><a href="/">Home</a></nav>
  <article>
    <h1>Privacy Policy</h1>
    <p>` + body + `</p>
  </article>
  <script>trackPageView();</script>
</body>
</html>`

	extraction, err := ExtractText(page, "https://example.com/privacy")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}

	if extraction.Text == "" {
		t.Fatal("expected non-empty text")
	}
	if !strings.Contains(extraction.Text, "We collect personal information") {
		t.Errorf("expected document body in text, got %q", extraction.Text[:80])
	}
	if strings.Contains(extraction.Text, "trackPageView") {
		t.Error("script content leaked into extracted text")
	}
	if strings.Contains(extraction.Text, "\n") {
		t.Error("expected collapsed whitespace")
	}
}

// TestExtractTextFlatPage tests the whole-page fallback for pages
// without a scoreable article structure.
func TestExtractTextFlatPage(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Terms</title></head><body>These terms govern your use of the service.</body></html>`

	extraction, err := ExtractText(page, "https://example.com/terms")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}

	if !strings.Contains(extraction.Text, "These terms govern") {
		t.Errorf("expected body text, got %q", extraction.Text)
	}
}

// TestExtractTextInvalidURL tests URL validation.
func TestExtractTextInvalidURL(t *testing.T) {
	t.Parallel()

	if _, err := ExtractText("<html></html>", "://bad"); err == nil {
		t.Error("expected error for invalid page URL")
	}
}
