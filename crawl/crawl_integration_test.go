package crawl_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/crawl"
	"github.com/fwojciec/castindex/fs"
	"github.com/fwojciec/castindex/goquery"
	casthttp "github.com/fwojciec/castindex/http"
	"github.com/fwojciec/castindex/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// catalogueServer serves a two-page catalogue of three detail pages.
// Jaws and Duel share a director; Heat has its own.
func catalogueServer(t *testing.T) *httptest.Server {
	t.Helper()

	listPage := func(ids ...string) string {
		html := `<html><body><div class="lister-list">`
		for _, id := range ids {
			html += fmt.Sprintf(`<div class="lister-item"><h3 class="lister-item-header"><a href="/title/%s/">x</a></h3></div>`, id)
		}
		return html + `</div></body></html>`
	}
	detailPage := func(title string, year int, director string, actors ...string) string {
		html := fmt.Sprintf(`<html><head><title>%s (%d) - IMDb</title></head><body>`, title, year)
		html += fmt.Sprintf(`<span itemprop="director"><span itemprop="name">%s</span></span>`, director)
		for _, actor := range actors {
			html += fmt.Sprintf(`<span itemprop="actors"><span itemprop="name">%s</span></span>`, actor)
		}
		return html + `</body></html>`
	}

	pages := map[string]string{
		"/search?page=1":    listPage("tt0073195", "tt0067023"),
		"/search?page=2":    listPage("tt0113277"),
		"/title/tt0073195/": detailPage("Jaws", 1975, "Steven Spielberg", "Roy Scheider", "Robert Shaw"),
		"/title/tt0067023/": detailPage("Duel", 1971, "Steven Spielberg", "Dennis Weaver"),
		"/title/tt0113277/": detailPage("Heat", 1995, "Michael Mann", "Al Pacino", "Robert De Niro"),
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html, ok := pages[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestCrawler_Crawl_endToEnd(t *testing.T) {
	t.Parallel()

	ts := catalogueServer(t)
	catalogue, err := crawl.NewCatalogue(ts.URL+"/search", 2)
	require.NoError(t, err)

	store := fs.NewIndexStore(filepath.Join(t.TempDir(), "searchTerms.json"))
	c := &crawl.Crawler{
		Catalogue:   catalogue,
		Fetcher:     casthttp.NewFetcher(),
		Links:       goquery.NewListSelector(""),
		Extractor:   goquery.NewFactExtractor(),
		Store:       store,
		RateLimiter: crawl.NewDomainLimiter(0),
	}

	result, err := c.Crawl(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Locations)
	assert.Equal(t, 3, result.Indexed)
	assert.Equal(t, 0, result.Failed)

	idx, err := store.LoadIndex(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Jaws", "Duel"}, idx["spielberg"])
	assert.Equal(t, []string{"Heat"}, idx["mann"])
	assert.ElementsMatch(t, []string{"Jaws", "Heat"}, idx["robert"])
	assert.Equal(t, crawl.Checksum(idx), result.Checksum)

	engine := search.NewEngine(idx)
	assert.Equal(t, []string{"Heat"}, engine.Search("robert mann").Titles)
	assert.Empty(t, engine.Search("spielberg mann").Titles)
}

func TestCrawler_Crawl_endToEndWithMissingPages(t *testing.T) {
	t.Parallel()

	ts := catalogueServer(t)
	// Page 3 does not exist and must not stop the crawl.
	catalogue, err := crawl.NewCatalogue(ts.URL+"/search", 3)
	require.NoError(t, err)

	store := fs.NewIndexStore(filepath.Join(t.TempDir(), "searchTerms.json"))
	c := &crawl.Crawler{
		Catalogue: catalogue,
		Fetcher:   casthttp.NewFetcher(),
		Links:     goquery.NewListSelector(""),
		Extractor: goquery.NewFactExtractor(),
		Store:     store,
	}

	result, err := c.Crawl(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.ListPagesFailed)
	assert.Equal(t, 3, result.Indexed)
}

func TestCrawler_Crawl_endToEndWithEmptyPages(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"/search?page=1": `<h3 class="lister-item-header"><a href="/title/tt0073195/">x</a></h3>` +
			`<h3 class="lister-item-header"><a href="/title/blank/">x</a></h3>`,
		"/search?page=2":    "",
		"/title/tt0073195/": `<html><head><title>Jaws (1975) - IMDb</title></head></html>`,
		"/title/blank/":     "",
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, pages[r.URL.RequestURI()])
	}))
	t.Cleanup(ts.Close)

	catalogue, err := crawl.NewCatalogue(ts.URL+"/search", 2)
	require.NoError(t, err)

	c := &crawl.Crawler{
		Catalogue: catalogue,
		Fetcher:   casthttp.NewFetcher(),
		Links:     goquery.NewListSelector(""),
		Extractor: goquery.NewFactExtractor(),
		Store:     fs.NewIndexStore(filepath.Join(t.TempDir(), "searchTerms.json")),
	}

	var codes []string
	result, err := c.Crawl(context.Background(), func(e crawl.ProgressEvent) {
		if e.Type == crawl.ProgressFailed {
			codes = append(codes, castindex.ErrorCode(e.Error))
		}
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.ListPagesFailed)
	assert.Equal(t, 2, result.Locations)
	assert.Equal(t, 1, result.Indexed)
	assert.Equal(t, []string{castindex.EEXTRACT}, codes)
}
