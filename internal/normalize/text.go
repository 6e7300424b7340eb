package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Validation thresholds for extracted document text.
// Pages that fail these checks are almost always navigation shells,
// cookie banners, or error pages rather than legal documents, and callers
// must drop them instead of caching them.
const (
	// MinTextLength is the minimum number of characters of extracted text.
	MinTextLength = 100

	// MinWordCount is the minimum number of whitespace-separated tokens.
	MinWordCount = 20

	// MinLongWords is the minimum number of tokens longer than
	// LongWordLength characters. Boilerplate and garbage extractions tend
	// to be dominated by short tokens.
	MinLongWords = 10

	// LongWordLength is the length above which a token counts as "long".
	LongWordLength = 4
)

// wordRegex matches word tokens for counting. Word boundaries rather than
// whitespace splitting so that punctuation-glued words count once each.
var wordRegex = regexp.MustCompile(`\b\w+\b`)

// sentenceRegex matches runs of sentence-ending punctuation.
var sentenceRegex = regexp.MustCompile(`[.!?]+`)

// Fingerprint returns the SHA-256 digest of the text as a hex string.
// Identical text always yields the identical fingerprint; the digest is
// the sole criterion for "document unchanged" between fetches.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ValidText reports whether extracted text looks like a real document.
// It rejects text shorter than MinTextLength characters, with fewer than
// MinWordCount tokens, or with fewer than MinLongWords long tokens.
func ValidText(text string) bool {
	if len(text) < MinTextLength {
		return false
	}

	words := strings.Fields(text)
	if len(words) < MinWordCount {
		return false
	}

	long := 0
	for _, w := range words {
		if len(w) > LongWordLength {
			long++
			if long >= MinLongWords {
				return true
			}
		}
	}
	return false
}

// WordCount counts word tokens in text.
func WordCount(text string) int {
	if text == "" {
		return 0
	}
	return len(wordRegex.FindAllString(text, -1))
}

// SentenceCount counts sentences by runs of terminal punctuation.
// This is a heuristic: abbreviations inflate the count slightly, which is
// acceptable for the readability measurements it feeds.
func SentenceCount(text string) int {
	if text == "" {
		return 0
	}
	return len(sentenceRegex.FindAllString(text, -1))
}

// CollapseWhitespace flattens all whitespace runs in extracted text to
// single spaces and trims the ends. HTML extraction leaves newline and
// indentation noise that would otherwise perturb fingerprints.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
