package mock

import (
	"context"

	"github.com/fwojciec/castindex"
)

var _ castindex.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of castindex.IndexStore.
type IndexStore struct {
	SaveIndexFn func(ctx context.Context, idx castindex.Index) error
	LoadIndexFn func(ctx context.Context) (castindex.Index, error)
}

func (s *IndexStore) SaveIndex(ctx context.Context, idx castindex.Index) error {
	return s.SaveIndexFn(ctx, idx)
}

func (s *IndexStore) LoadIndex(ctx context.Context) (castindex.Index, error) {
	return s.LoadIndexFn(ctx)
}

var _ castindex.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of castindex.Searcher.
type Searcher struct {
	SearchFn func(query string) castindex.SearchResponse
}

func (s *Searcher) Search(query string) castindex.SearchResponse {
	return s.SearchFn(query)
}
