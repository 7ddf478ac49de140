package mock

import "github.com/fwojciec/castindex"

var _ castindex.FactExtractor = (*FactExtractor)(nil)

// FactExtractor is a mock implementation of castindex.FactExtractor.
type FactExtractor struct {
	ExtractFn func(html string) (*castindex.Fact, error)
}

func (e *FactExtractor) Extract(html string) (*castindex.Fact, error) {
	return e.ExtractFn(html)
}
