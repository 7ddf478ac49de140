package castindex

import (
	"context"
	"sort"
)

// Index maps a NameWord to the titles of every movie crediting a person
// whose name contains that word. Titles appear in the order facts were
// added and are not deduplicated.
//
// An Index is not safe for concurrent mutation; a single owner adds facts
// and the result is treated as read-only afterwards.
type Index map[string][]string

// AddFact appends the fact's title under every word of every name.
// A fact with no names leaves the index unchanged.
func (idx Index) AddFact(fact *Fact) {
	for _, word := range fact.Words() {
		idx[word] = append(idx[word], fact.Title)
	}
}

// Lookup returns the titles stored under word, or nil if the word is absent.
func (idx Index) Lookup(word string) []string {
	return idx[word]
}

// Words returns the index keys in sorted order.
func (idx Index) Words() []string {
	words := make([]string, 0, len(idx))
	for word := range idx {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// IndexStore persists a complete index and loads it back.
type IndexStore interface {
	// SaveIndex replaces any previously saved index.
	// A failed save leaves the previous index intact.
	SaveIndex(ctx context.Context, idx Index) error

	// LoadIndex returns the saved index.
	// Returns ENOTFOUND if no index has been saved.
	LoadIndex(ctx context.Context) (Index, error)
}
