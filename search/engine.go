// Package search answers word-intersection queries against a loaded index.
package search

import (
	"strings"

	"github.com/fwojciec/castindex"
)

var _ castindex.Searcher = (*Engine)(nil)

// Engine answers queries from a read-only index. It is safe for concurrent
// use as long as the index is not mutated.
type Engine struct {
	index castindex.Index
}

// NewEngine creates an Engine over idx. A nil index answers every query
// with no titles.
func NewEngine(idx castindex.Index) *Engine {
	return &Engine{index: idx}
}

// Search splits query on whitespace and returns the titles present under
// every word. Titles keep the order of the first word's list and appear once.
// A query with no words is answered with the greeting.
func (e *Engine) Search(query string) castindex.SearchResponse {
	words := strings.Fields(query)
	if len(words) == 0 {
		return castindex.SearchResponse{Greeting: castindex.Greeting}
	}

	titles := make([]string, 0)
	seen := make(map[string]struct{})
	for _, title := range e.index.Lookup(words[0]) {
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}

	for _, word := range words[1:] {
		if len(titles) == 0 {
			break
		}
		titles = retain(titles, e.index.Lookup(word))
	}

	return castindex.SearchResponse{Titles: titles}
}

// retain keeps the titles that also appear in other, preserving order.
func retain(titles, other []string) []string {
	present := make(map[string]struct{}, len(other))
	for _, title := range other {
		present[title] = struct{}{}
	}
	kept := titles[:0]
	for _, title := range titles {
		if _, ok := present[title]; ok {
			kept = append(kept, title)
		}
	}
	return kept
}
