package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/castindex"
	main "github.com/fwojciec/castindex/cmd/castindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// catalogueServer serves list page 1 and two detail pages sharing a director.
// Every other list page is missing.
func catalogueServer(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/search?page=1": `<html><body>
<h3 class="lister-item-header"><a href="/title/tt0073195/">Jaws</a></h3>
<h3 class="lister-item-header"><a href="/title/tt0067023/">Duel</a></h3>
</body></html>`,
		"/title/tt0073195/": `<html><head><title>Jaws (1975) - IMDb</title></head><body>
<span itemprop="director"><span itemprop="name">Steven Spielberg</span></span>
<span itemprop="actors"><span itemprop="name">Roy Scheider</span></span>
</body></html>`,
		"/title/tt0067023/": `<html><head><title>Duel (1971) - IMDb</title></head><body>
<span itemprop="director"><span itemprop="name">Steven Spielberg</span></span>
<span itemprop="actors"><span itemprop="name">Dennis Weaver</span></span>
</body></html>`,
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html, ok := pages[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, html)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// writeConfig writes a config file pointing at baseURL and returns its path.
func writeConfig(t *testing.T, baseURL, driver string) string {
	t.Helper()

	dir := t.TempDir()
	indexPath := filepath.Join(dir, "searchTerms.json")
	if driver == "sqlite" {
		indexPath = filepath.Join(dir, "index.db")
	}
	content := fmt.Sprintf(`
crawl:
  base_url: %s/search
  timeout: 5s
index:
  driver: %s
  path: %s
`, baseURL, driver, indexPath)

	path := filepath.Join(dir, "castindex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newMain() *main.Main {
	m := main.NewMain()
	m.Logger = zap.NewNop()
	return m
}

func run(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := newMain().Run(ctx, args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, context.Background(), "--help")

	require.NoError(t, err)
	for _, cmd := range []string{"crawl", "serve", "search", "runs"} {
		assert.Contains(t, stdout, cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_UnknownCommand(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, context.Background(), "bogus")

	require.Error(t, err)
}

func TestMain_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  driver: postgres\n"), 0o600))

	_, stderr, err := run(t, context.Background(), "--config", path, "search", "x")

	require.Error(t, err)
	assert.Equal(t, castindex.EINVALID, castindex.ErrorCode(err))
	assert.Contains(t, stderr, "index.driver")
}

func TestMain_Run_CrawlThenSearch(t *testing.T) {
	t.Parallel()

	ts := catalogueServer(t)

	for _, driver := range []string{"json", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			t.Parallel()

			config := writeConfig(t, ts.URL, driver)

			stdout, _, err := run(t, context.Background(), "--config", config, "crawl")
			require.NoError(t, err)
			assert.Contains(t, stdout, "Found 2 detail pages")
			assert.Contains(t, stdout, "Indexed 2 of 2 pages")

			stdout, _, err = run(t, context.Background(), "--config", config, "search", "spielberg")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"Jaws", "Duel"}, lines(stdout))

			stdout, _, err = run(t, context.Background(), "--config", config, "search", "spielberg", "weaver")
			require.NoError(t, err)
			assert.Equal(t, []string{"Duel"}, lines(stdout))

			stdout, _, err = run(t, context.Background(), "--config", config, "search")
			require.NoError(t, err)
			assert.Equal(t, castindex.Greeting+"\n", stdout)
		})
	}
}

func TestMain_Run_Runs(t *testing.T) {
	t.Parallel()

	t.Run("lists sqlite runs newest first", func(t *testing.T) {
		t.Parallel()

		ts := catalogueServer(t)
		config := writeConfig(t, ts.URL, "sqlite")

		stdout, _, err := run(t, context.Background(), "--config", config, "runs")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No runs recorded")

		for range 2 {
			_, _, err = run(t, context.Background(), "--config", config, "crawl")
			require.NoError(t, err)
		}

		stdout, _, err = run(t, context.Background(), "--config", config, "runs")
		require.NoError(t, err)
		require.Len(t, lines(stdout), 2)
		for _, line := range lines(stdout) {
			assert.Contains(t, line, "6 words, 8 postings")
		}

		stdout, _, err = run(t, context.Background(), "--config", config, "runs", "-n", "1")
		require.NoError(t, err)
		assert.Len(t, lines(stdout), 1)
	})

	t.Run("json driver records no runs", func(t *testing.T) {
		t.Parallel()

		config := writeConfig(t, "http://127.0.0.1:1", "json")

		_, stderr, err := run(t, context.Background(), "--config", config, "runs")
		require.Error(t, err)
		assert.Equal(t, castindex.EINVALID, castindex.ErrorCode(err))
		assert.Contains(t, stderr, "sqlite")
	})
}

func TestMain_Run_SearchWithoutIndex(t *testing.T) {
	t.Parallel()

	config := writeConfig(t, "http://127.0.0.1:1", "json")

	_, _, err := run(t, context.Background(), "--config", config, "search", "hanks")

	require.Error(t, err)
	assert.Equal(t, castindex.ENOTFOUND, castindex.ErrorCode(err))
}

func TestMain_Run_ServeWithoutIndex(t *testing.T) {
	t.Parallel()

	config := writeConfig(t, "http://127.0.0.1:1", "json")

	_, stderr, err := run(t, context.Background(), "--config", config, "serve")

	require.Error(t, err)
	assert.Equal(t, castindex.ENOTFOUND, castindex.ErrorCode(err))
	assert.Contains(t, stderr, "castindex crawl")
}

func TestMain_Run_Serve(t *testing.T) {
	t.Parallel()

	ts := catalogueServer(t)
	config := writeConfig(t, ts.URL, "json")
	_, _, err := run(t, context.Background(), "--config", config, "crawl")
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newMain()
	m.Listener = ln
	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx, []string{"--config", config, "serve"}, io.Discard, io.Discard)
	}()

	base := "http://" + ln.Addr().String()
	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/imdb?search=spielberg+roy")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	var titles []string
	require.NoError(t, json.Unmarshal(body, &titles))
	assert.Equal(t, []string{"Jaws"}, titles)

	resp, err := http.Get(base + "/imdb")
	require.NoError(t, err)
	greeting, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, castindex.Greeting, string(greeting))

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	metrics, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "castindex_index_words")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}

func lines(s string) []string {
	var out []string
	for _, line := range bytes.Split([]byte(s), []byte("\n")) {
		if len(line) > 0 {
			out = append(out, string(line))
		}
	}
	return out
}
