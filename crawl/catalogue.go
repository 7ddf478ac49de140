package crawl

import (
	"net/url"
	"strconv"

	"github.com/fwojciec/castindex"
)

// ListPageCount is the number of list pages in the catalogue.
// The Top 1000 is listed 50 titles per page.
const ListPageCount = 20

// DefaultBaseURL is the list page URL without its page parameter.
const DefaultBaseURL = "http://www.imdb.com/search/title?groups=top_1000&sort=user_rating&view=simple"

// NewCatalogue returns the URLs of list pages 1 through pages, built by
// setting the page query parameter on baseURL.
func NewCatalogue(baseURL string, pages int) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, castindex.Errorf(castindex.EINVALID, "invalid base URL: %v", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, castindex.Errorf(castindex.EINVALID, "base URL %q must be absolute", baseURL)
	}

	urls := make([]string, 0, pages)
	for page := 1; page <= pages; page++ {
		u := *base
		q := u.Query()
		q.Set("page", strconv.Itoa(page))
		u.RawQuery = q.Encode()
		urls = append(urls, u.String())
	}
	return urls, nil
}
