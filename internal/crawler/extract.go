package crawler

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/legalscan/legalscan/internal/normalize"
)

// Extraction is the readable content pulled out of one document page.
type Extraction struct {
	// Title is the best available page title.
	Title string

	// Text is the whitespace-collapsed plain text of the document.
	Text string
}

// ExtractText produces readable plain text and a title from document HTML.
//
// Readability extraction strips navigation, footers, and cookie banners,
// which matters here: legal pages bury the document body under heavy
// site chrome, and chrome text would shift the content fingerprint on
// every template change even when the document itself is unchanged.
//
// When readability cannot identify an article body (some legal pages are
// a single flat <div> it refuses to score), the whole-page text is used
// instead, so the caller always gets something to validate.
func ExtractText(rawHTML, pageURL string) (*Extraction, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}

	article, rerr := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if rerr == nil {
		text := normalize.CollapseWhitespace(article.TextContent)
		if text != "" {
			return &Extraction{
				Title: strings.TrimSpace(article.Title),
				Text:  text,
			}, nil
		}
	}

	title, text := wholePageText(rawHTML)
	return &Extraction{
		Title: title,
		Text:  normalize.CollapseWhitespace(text),
	}, nil
}

// wholePageText walks the full DOM and concatenates all visible text
// nodes, skipping script and style content.
func wholePageText(rawHTML string) (title, text string) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, b.String()
}
