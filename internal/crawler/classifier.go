package crawler

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/legalscan/legalscan/internal/model"
)

// Confidence scores assigned per matching strategy. Evaluation stops at
// the first strategy that matches, so a link never accumulates score from
// multiple strategies.
const (
	// ScoreURLPattern is assigned when the URL path matches a canonical
	// legal-document path pattern.
	ScoreURLPattern = 100

	// ScoreLinkText is assigned when the anchor text matches a per-type
	// keyword table.
	ScoreLinkText = 80

	// ScoreTitleAttr is assigned when only the title attribute matches.
	ScoreTitleAttr = 70
)

// urlPattern maps a URL-path regular expression to a document type.
// Patterns are evaluated in order; the first match wins.
type urlPattern struct {
	re      *regexp.Regexp
	docType model.DocumentType
}

// urlPatterns is the canonical path pattern table. More specific patterns
// come before the generic ones they would otherwise shadow.
var urlPatterns = []urlPattern{
	{regexp.MustCompile(`(?i)/privacy[-_]policy`), model.DocTypePrivacy},
	{regexp.MustCompile(`(?i)/legal/privacy`), model.DocTypePrivacy},
	{regexp.MustCompile(`(?i)/privacy`), model.DocTypePrivacy},
	{regexp.MustCompile(`(?i)/terms[-_]of[-_]service`), model.DocTypeTOS},
	{regexp.MustCompile(`(?i)/terms[-_]and[-_]conditions`), model.DocTypeTermsAndConditions},
	{regexp.MustCompile(`(?i)/terms[-_]of[-_]use`), model.DocTypeTermsOfUse},
	{regexp.MustCompile(`(?i)/legal/terms`), model.DocTypeTOS},
	{regexp.MustCompile(`(?i)/terms`), model.DocTypeTOS},
	{regexp.MustCompile(`(?i)/conditions`), model.DocTypeTermsAndConditions},
}

// documentKeywords is the per-type keyword table for anchor text and
// title attributes. Matching is case-insensitive substring containment.
var documentKeywords = map[model.DocumentType][]string{
	model.DocTypePrivacy: {
		"privacy policy", "privacy statement", "privacy notice",
		"data protection", "personal information", "data privacy",
		"our privacy", "how we use", "privacy and security policy",
	},
	model.DocTypeTOS: {
		"terms of service", "terms and conditions", "terms of use",
		"terms & conditions", "user agreement", "terms agreement",
		"service agreement", "conditions of use", "service terms",
	},
	model.DocTypeTermsAndConditions: {
		"terms and conditions", "terms & conditions", "general terms",
	},
	model.DocTypeTermsOfUse: {
		"terms of use", "usage terms", "acceptance terms",
	},
}

// binaryExtRegex matches URLs pointing at media or binary content that
// can never be a legal document page.
var binaryExtRegex = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|svg|webp|ico|css|js|pdf|zip|tar|gz|exe|dmg|mp3|mp4|avi|mov)$`)

// Candidate is one classified legal-document link.
type Candidate struct {
	// URL is the resolved link URL.
	URL string

	// Text is the anchor text the link carried.
	Text string

	// Score is the confidence score from the matching strategy.
	Score int
}

// Classify scores every outbound link against the legal-document pattern
// and keyword tables, and returns per-type candidate lists ordered by
// descending confidence.
//
// Ordering is deterministic: the sort is stable, so links with equal
// scores stay in discovery order, and duplicate URLs within a type keep
// only the first (highest-scoring) occurrence. The session runner's
// per-type fetch cap truncates these lists, so determinism here directly
// decides which documents get cached.
func Classify(links []Link) map[model.DocumentType][]Candidate {
	found := make(map[model.DocumentType][]Candidate)

	for _, link := range links {
		if !usableLink(link.URL) {
			continue
		}

		docType, score := scoreLink(link)
		if score == 0 {
			continue
		}

		found[docType] = append(found[docType], Candidate{
			URL:   link.URL,
			Text:  link.Text,
			Score: score,
		})
	}

	result := make(map[model.DocumentType][]Candidate, len(found))
	for docType, candidates := range found {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})

		seen := make(map[string]bool, len(candidates))
		deduped := make([]Candidate, 0, len(candidates))
		for _, c := range candidates {
			if seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			deduped = append(deduped, c)
		}
		result[docType] = deduped
	}

	return result
}

// scoreLink evaluates the strategies in confidence order and returns the
// matched type and score, or a zero score when nothing matches.
func scoreLink(link Link) (model.DocumentType, int) {
	if docType, ok := matchURLPattern(link.URL); ok {
		return docType, ScoreURLPattern
	}

	if docType, ok := matchKeywords(link.Text); ok {
		return docType, ScoreLinkText
	}

	if link.Title != "" {
		if docType, ok := matchKeywords(link.Title); ok {
			return docType, ScoreTitleAttr
		}
	}

	return "", 0
}

// matchURLPattern checks the URL path against the canonical pattern table.
func matchURLPattern(rawURL string) (model.DocumentType, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	for _, p := range urlPatterns {
		if p.re.MatchString(u.Path) {
			return p.docType, true
		}
	}
	return "", false
}

// matchKeywords returns the document type whose keyword table has the
// most hits in text. Ties resolve in the fixed AllDocumentTypes order so
// classification stays deterministic.
func matchKeywords(text string) (model.DocumentType, bool) {
	text = strings.ToLower(text)

	var best model.DocumentType
	bestHits := 0
	for _, docType := range model.AllDocumentTypes() {
		hits := 0
		for _, kw := range documentKeywords[docType] {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best = docType
			bestHits = hits
		}
	}

	return best, bestHits > 0
}

// usableLink reports whether a URL is worth fetching as a document
// candidate: HTTP(S) scheme, a host, and not a media/binary resource.
func usableLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}
	return !binaryExtRegex.MatchString(u.Path)
}
