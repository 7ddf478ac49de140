package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/castindex"
)

// Checksum returns an xxhash digest of the index contents. Indexes with the
// same words mapped to the same title sequences have the same checksum.
func Checksum(idx castindex.Index) string {
	d := xxhash.New()
	for _, word := range idx.Words() {
		_, _ = d.WriteString(word)
		_, _ = d.Write([]byte{0})
		for _, title := range idx[word] {
			_, _ = d.WriteString(title)
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write([]byte{1})
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
