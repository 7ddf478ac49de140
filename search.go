package castindex

// SearchResponse is the answer to a query. An empty query is answered with
// a greeting instead of titles.
type SearchResponse struct {
	Greeting string
	Titles   []string
}

// IsGreeting reports whether the response carries the greeting.
func (r *SearchResponse) IsGreeting() bool {
	return r.Greeting != ""
}

// Searcher answers word-intersection queries.
type Searcher interface {
	// Search returns the titles present under every whitespace-separated
	// word of query. Words are matched exactly as typed.
	Search(query string) SearchResponse
}
