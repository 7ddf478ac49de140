package castindex

import "strings"

// Fact is the result of extracting a single detail page: a movie title and
// the people credited on it. Actors come first, followed by the director.
type Fact struct {
	Title string
	Names []string
}

// Words returns the NameWords of every name in the fact, in order.
// Words repeated across names are repeated in the result.
func (f *Fact) Words() []string {
	var words []string
	for _, name := range f.Names {
		words = append(words, NameWords(name)...)
	}
	return words
}

// NameWords splits a person name on whitespace and lowercases each part.
func NameWords(name string) []string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return nil
	}
	words := make([]string, len(fields))
	for i, field := range fields {
		words[i] = strings.ToLower(field)
	}
	return words
}
