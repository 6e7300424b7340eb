package crawler

import (
	"testing"

	"github.com/legalscan/legalscan/internal/model"
)

// TestClassifyURLPatterns tests the high-confidence URL path strategy.
func TestClassifyURLPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		docType model.DocumentType
	}{
		{"privacy path", "https://example.com/privacy", model.DocTypePrivacy},
		{"privacy-policy path", "https://example.com/privacy-policy", model.DocTypePrivacy},
		{"legal privacy path", "https://example.com/legal/privacy", model.DocTypePrivacy},
		{"terms path", "https://example.com/terms", model.DocTypeTOS},
		{"terms-of-service path", "https://example.com/terms-of-service", model.DocTypeTOS},
		{"terms-and-conditions path", "https://example.com/terms-and-conditions", model.DocTypeTermsAndConditions},
		{"terms_of_use path", "https://example.com/terms_of_use", model.DocTypeTermsOfUse},
		{"conditions path", "https://example.com/conditions", model.DocTypeTermsAndConditions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Classify([]Link{{URL: tt.url, Text: "read this"}})

			candidates := result[tt.docType]
			if len(candidates) != 1 {
				t.Fatalf("expected 1 candidate for %s, got %d (result: %v)", tt.docType, len(candidates), result)
			}
			if candidates[0].Score != ScoreURLPattern {
				t.Errorf("expected score %d, got %d", ScoreURLPattern, candidates[0].Score)
			}
		})
	}
}

// TestClassifyStrategyPrecedence tests that the first matching strategy
// stops evaluation for a link.
func TestClassifyStrategyPrecedence(t *testing.T) {
	t.Parallel()

	t.Run("url pattern beats link text", func(t *testing.T) {
		t.Parallel()

		// Path says privacy, anchor text says terms. Path wins.
		result := Classify([]Link{{
			URL:  "https://example.com/privacy",
			Text: "terms of service",
		}})

		if len(result[model.DocTypePrivacy]) != 1 {
			t.Fatal("expected URL pattern classification as privacy")
		}
		if len(result[model.DocTypeTOS]) != 0 {
			t.Error("link text should not have been evaluated")
		}
	})

	t.Run("link text beats title attribute", func(t *testing.T) {
		t.Parallel()

		result := Classify([]Link{{
			URL:   "https://example.com/about",
			Text:  "privacy policy",
			Title: "terms of service",
		}})

		candidates := result[model.DocTypePrivacy]
		if len(candidates) != 1 || candidates[0].Score != ScoreLinkText {
			t.Fatalf("expected privacy at score %d, got %v", ScoreLinkText, result)
		}
	})

	t.Run("title attribute used as last resort", func(t *testing.T) {
		t.Parallel()

		result := Classify([]Link{{
			URL:   "https://example.com/about",
			Text:  "learn more",
			Title: "privacy policy",
		}})

		candidates := result[model.DocTypePrivacy]
		if len(candidates) != 1 || candidates[0].Score != ScoreTitleAttr {
			t.Fatalf("expected privacy at score %d, got %v", ScoreTitleAttr, result)
		}
	})

	t.Run("no match drops the link", func(t *testing.T) {
		t.Parallel()

		result := Classify([]Link{{
			URL:  "https://example.com/blog/post-1",
			Text: "read our latest post",
		}})

		if len(result) != 0 {
			t.Errorf("expected no candidates, got %v", result)
		}
	})
}

// TestClassifyKeywordMajority tests that anchor-text matching picks the
// type with the most keyword hits.
func TestClassifyKeywordMajority(t *testing.T) {
	t.Parallel()

	// "terms of use" plus "usage terms" hits terms_of_use twice, while
	// tos only once via "terms of use".
	result := Classify([]Link{{
		URL:  "https://example.com/legal-stuff",
		Text: "terms of use and usage terms",
	}})

	if len(result[model.DocTypeTermsOfUse]) != 1 {
		t.Fatalf("expected terms_of_use classification, got %v", result)
	}
}

// TestClassifyFiltering tests the link filtering rules.
func TestClassifyFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
	}{
		{"ftp scheme", "ftp://example.com/privacy"},
		{"pdf extension", "https://example.com/privacy.pdf"},
		{"image extension", "https://example.com/terms.png"},
		{"archive extension", "https://example.com/privacy.zip"},
		{"missing host", "https:///privacy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Classify([]Link{{URL: tt.url, Text: "privacy policy"}})
			if len(result) != 0 {
				t.Errorf("expected %q to be filtered, got %v", tt.url, result)
			}
		})
	}
}

// TestClassifyOrderingAndDedup tests deterministic ordering and duplicate
// URL collapse, which decide what the per-type fetch cap keeps.
func TestClassifyOrderingAndDedup(t *testing.T) {
	t.Parallel()

	t.Run("sorted by score descending", func(t *testing.T) {
		t.Parallel()

		result := Classify([]Link{
			{URL: "https://example.com/about", Text: "privacy policy"},
			{URL: "https://example.com/privacy", Text: "here"},
		})

		candidates := result[model.DocTypePrivacy]
		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}
		if candidates[0].URL != "https://example.com/privacy" {
			t.Errorf("expected URL-pattern match first, got %s", candidates[0].URL)
		}
	})

	t.Run("equal scores keep discovery order", func(t *testing.T) {
		t.Parallel()

		result := Classify([]Link{
			{URL: "https://example.com/a", Text: "privacy policy"},
			{URL: "https://example.com/b", Text: "privacy notice"},
			{URL: "https://example.com/c", Text: "privacy statement"},
		})

		candidates := result[model.DocTypePrivacy]
		if len(candidates) != 3 {
			t.Fatalf("expected 3 candidates, got %d", len(candidates))
		}
		want := []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}
		for i, w := range want {
			if candidates[i].URL != w {
				t.Errorf("position %d: expected %s, got %s", i, w, candidates[i].URL)
			}
		}
	})

	t.Run("duplicate urls keep highest-scoring occurrence", func(t *testing.T) {
		t.Parallel()

		result := Classify([]Link{
			{URL: "https://example.com/about", Text: "privacy policy"},      // footer link, text match
			{URL: "https://example.com/privacy", Text: "privacy"},           // header link, URL match
			{URL: "https://example.com/privacy", Text: "our privacy terms"}, // footer repeat
		})

		candidates := result[model.DocTypePrivacy]
		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates after dedup, got %d", len(candidates))
		}
		if candidates[0].URL != "https://example.com/privacy" || candidates[0].Score != ScoreURLPattern {
			t.Errorf("expected deduped entry to keep the highest score, got %+v", candidates[0])
		}
	})
}
