// Package goquery implements castindex.FactExtractor and
// castindex.LinkSelector on top of CSS selectors.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/castindex"
)

// Selectors describes where facts live in a detail page.
type Selectors struct {
	// Title selects the element whose text holds the decorated title.
	Title string

	// TitlePattern isolates the movie name from the decorated title.
	// The first capture group is the name.
	TitlePattern *regexp.Regexp

	// Actors selects one element per credited actor.
	Actors string

	// Director selects the director's name.
	Director string
}

// DefaultSelectors returns selectors for IMDB detail pages, where the
// document title reads "Name (1994) - IMDb".
func DefaultSelectors() Selectors {
	return Selectors{
		Title:        "title",
		TitlePattern: regexp.MustCompile(`^(.+)\s\(\d{4}\).+$`),
		Actors:       "span[itemprop=actors] span[itemprop=name]",
		Director:     "span[itemprop=director] span[itemprop=name]",
	}
}

// Ensure FactExtractor implements castindex.FactExtractor at compile time.
var _ castindex.FactExtractor = (*FactExtractor)(nil)

// FactExtractor extracts titles and credited names from detail pages.
type FactExtractor struct {
	selectors Selectors
}

// NewFactExtractor creates a FactExtractor using DefaultSelectors.
func NewFactExtractor() *FactExtractor {
	return NewFactExtractorWithSelectors(DefaultSelectors())
}

// NewFactExtractorWithSelectors creates a FactExtractor for custom markup.
func NewFactExtractorWithSelectors(selectors Selectors) *FactExtractor {
	return &FactExtractor{selectors: selectors}
}

// Extract parses a detail page into a Fact.
func (e *FactExtractor) Extract(html string) (*castindex.Fact, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, castindex.Errorf(castindex.EEXTRACT, "failed to parse HTML: %v", err)
	}

	title, err := e.title(doc)
	if err != nil {
		return nil, err
	}

	fact := &castindex.Fact{Title: title}
	doc.Find(e.selectors.Actors).Each(func(_ int, sel *goquery.Selection) {
		if name := strings.TrimSpace(sel.Text()); name != "" {
			fact.Names = append(fact.Names, name)
		}
	})

	// Only one director is credited; nested matches are joined by goquery.
	if director := strings.TrimSpace(doc.Find(e.selectors.Director).Text()); director != "" {
		fact.Names = append(fact.Names, director)
	}

	return fact, nil
}

func (e *FactExtractor) title(doc *goquery.Document) (string, error) {
	sel := doc.Find(e.selectors.Title).First()
	if sel.Length() == 0 {
		return "", castindex.Errorf(castindex.EEXTRACT, "page has no %s element", e.selectors.Title)
	}

	text := strings.TrimSpace(sel.Text())
	match := e.selectors.TitlePattern.FindStringSubmatch(text)
	if match == nil {
		return "", castindex.Errorf(castindex.EEXTRACT, "title %q does not match %s", text, e.selectors.TitlePattern)
	}
	return match[1], nil
}
