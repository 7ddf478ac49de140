package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/castindex"
)

// DefaultListSelector matches the detail-page links in a list page header.
const DefaultListSelector = ".lister-item-header a"

// Ensure ListSelector implements castindex.LinkSelector at compile time.
var _ castindex.LinkSelector = (*ListSelector)(nil)

// ListSelector extracts detail-page links from list pages.
type ListSelector struct {
	selector string
}

// NewListSelector creates a ListSelector. An empty selector falls back to
// DefaultListSelector.
func NewListSelector(selector string) *ListSelector {
	if selector == "" {
		selector = DefaultListSelector
	}
	return &ListSelector{selector: selector}
}

// ExtractLinks returns the resolved href of every matching anchor.
// Links are not deduplicated.
func (s *ListSelector) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, castindex.Errorf(castindex.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, castindex.Errorf(castindex.EEXTRACT, "failed to parse HTML: %v", err)
	}

	var links []string
	doc.Find(s.selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}

		// Skip non-HTTP links (javascript:, mailto:, etc.)
		if isNonHTTPLink(href) {
			return
		}

		if resolved := resolveURL(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})

	return links, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}
