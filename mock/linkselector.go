package mock

import "github.com/fwojciec/castindex"

var _ castindex.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of castindex.LinkSelector.
type LinkSelector struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]string, error) {
	return s.ExtractLinksFn(html, baseURL)
}
