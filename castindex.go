// Package castindex builds a reverse index from person names (actors and
// directors) to movie titles by crawling a fixed catalogue of movie pages,
// and answers multi-word intersection queries against that index.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, chi/).
package castindex

// Greeting is returned by the query engine in place of results when the
// query is empty.
const Greeting = "IMDB Top 1000 Movies Search"
