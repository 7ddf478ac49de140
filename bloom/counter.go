// Package bloom estimates how often discovered locations repeat using a
// Bloom filter, without keeping the locations themselves.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// RepeatCounter counts observations that were probably seen before.
// False positives are possible, so Repeats may overcount slightly;
// it never undercounts. It is not safe for concurrent use.
type RepeatCounter struct {
	f       *bloom.BloomFilter
	repeats int
}

// NewRepeatCounter creates a counter sized for n expected observations
// with the given false positive rate.
func NewRepeatCounter(n uint, fpRate float64) *RepeatCounter {
	if n < 1 {
		n = 1
	}
	return &RepeatCounter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Observe records s and reports whether it was probably observed before.
func (c *RepeatCounter) Observe(s string) bool {
	if c.f.TestAndAddString(s) {
		c.repeats++
		return true
	}
	return false
}

// Repeats returns the number of observations reported as repeats.
func (c *RepeatCounter) Repeats() int {
	return c.repeats
}

// Distinct returns the approximate number of distinct observations.
func (c *RepeatCounter) Distinct() uint {
	return uint(c.f.ApproximatedSize())
}
