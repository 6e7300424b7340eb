package crawler

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is one outbound anchor discovered on a page.
type Link struct {
	// URL is the href resolved against the page URL.
	URL string

	// Text is the anchor's visible text, whitespace-collapsed.
	Text string

	// Title is the anchor's title attribute, if present.
	Title string
}

// ParseResult contains the information extracted from an HTML page.
type ParseResult struct {
	// Title is the page title from the <title> tag.
	Title string

	// Links contains all resolvable outbound anchors in document order.
	Links []Link
}

// Parser extracts the title and outbound links from HTML content.
//
// Design decision: We use golang.org/x/net/html rather than regex
// because:
//  1. It correctly handles the malformed HTML common on real sites
//  2. Anchor text can span nested elements, which regex cannot track
//  3. Standard library extension, well-maintained
type Parser struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative hrefs.
	baseURL *url.URL
}

// NewParser creates a parser that resolves relative links against baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content and extracts the title and all outbound links.
// Anchors whose href cannot be resolved (javascript:, mailto:, bare
// fragments, malformed URLs) are dropped here; type filtering and scoring
// happen later in the Classifier.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Links: make([]Link, 0)}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if resolved := p.resolveURL(href); resolved != "" {
						result.Links = append(result.Links, Link{
							URL:   resolved,
							Text:  collapseText(anchorText(n)),
							Title: getAttr(n, "title"),
						})
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return result, nil
}

// resolveURL resolves a relative href against the base URL.
// Non-navigational schemes and bare fragments resolve to "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return p.baseURL.ResolveReference(u).String()
}

// anchorText concatenates all text nodes under an anchor element.
// Anchors frequently wrap spans or icons, so a single-child lookup like
// the one used for <title> would miss most link labels.
func anchorText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collapseText flattens whitespace runs in anchor text.
func collapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
