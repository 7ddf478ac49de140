package crawl_test

import (
	"testing"

	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/crawl"
	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	t.Parallel()

	idx := castindex.Index{
		"hanks":     {"Big", "The Post"},
		"spielberg": {"Jaws", "The Post"},
	}

	t.Run("is stable across map iteration order", func(t *testing.T) {
		t.Parallel()

		clone := castindex.Index{
			"spielberg": {"Jaws", "The Post"},
			"hanks":     {"Big", "The Post"},
		}
		assert.Equal(t, crawl.Checksum(idx), crawl.Checksum(clone))
		assert.Len(t, crawl.Checksum(idx), 16)
	})

	t.Run("changes with title order", func(t *testing.T) {
		t.Parallel()

		reordered := castindex.Index{
			"hanks":     {"The Post", "Big"},
			"spielberg": {"Jaws", "The Post"},
		}
		assert.NotEqual(t, crawl.Checksum(idx), crawl.Checksum(reordered))
	})

	t.Run("distinguishes word and title boundaries", func(t *testing.T) {
		t.Parallel()

		a := castindex.Index{"ab": {"c"}}
		b := castindex.Index{"a": {"bc"}}
		assert.NotEqual(t, crawl.Checksum(a), crawl.Checksum(b))
	})
}
