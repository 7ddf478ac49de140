package rod_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	ok := func() error { return nil }
	okNavigate := func(string) error { return nil }
	html := func() (string, error) { return "<html></html>", nil }

	t.Run("returns html", func(t *testing.T) {
		t.Parallel()

		var visited string
		navigate := func(u string) error { visited = u; return nil }

		out, err := rod.Render(navigate, ok, html, "http://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "<html></html>", out)
		assert.Equal(t, "http://example.com/a", visited)
	})

	t.Run("navigation failure is a network error", func(t *testing.T) {
		t.Parallel()

		navigate := func(string) error { return errors.New("net::ERR_CONNECTION_REFUSED") }

		_, err := rod.Render(navigate, ok, html, "http://example.com/a")
		require.Error(t, err)
		assert.Equal(t, castindex.ENETWORK, castindex.ErrorCode(err))
		assert.Contains(t, castindex.ErrorMessage(err), "http://example.com/a")
	})

	t.Run("load failure is a network error", func(t *testing.T) {
		t.Parallel()

		waitLoad := func() error { return errors.New("target closed") }

		_, err := rod.Render(okNavigate, waitLoad, html, "http://example.com/a")
		assert.Equal(t, castindex.ENETWORK, castindex.ErrorCode(err))
	})

	t.Run("deadline passes through", func(t *testing.T) {
		t.Parallel()

		waitLoad := func() error { return context.DeadlineExceeded }

		_, err := rod.Render(okNavigate, waitLoad, html, "http://example.com/a")
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
