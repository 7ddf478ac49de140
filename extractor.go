package castindex

// FactExtractor turns a detail page into a Fact.
// This is the single point of adaptation when the remote markup changes.
type FactExtractor interface {
	// Extract parses a detail page.
	// Returns EEXTRACT if the page does not carry a recognizable title.
	// A page without credited people yields a Fact with no names.
	Extract(html string) (*Fact, error)
}

// LinkSelector discovers detail-page locations on a list page.
type LinkSelector interface {
	// ExtractLinks returns absolute detail-page URLs in document order.
	// Relative links are resolved against baseURL. Duplicates are kept.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
