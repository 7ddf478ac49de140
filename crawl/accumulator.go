package crawl

import (
	"sync"

	"github.com/fwojciec/castindex"
)

// accumulatorBuffer bounds the number of facts queued for the owner goroutine.
const accumulatorBuffer = 64

// Accumulator builds an index from facts delivered by many goroutines.
// A single goroutine owns the index; Add hands facts to it over a channel,
// so no update is lost regardless of arrival order.
type Accumulator struct {
	facts chan *castindex.Fact
	done  chan struct{}
	index castindex.Index
	added int
	once  sync.Once
}

// NewAccumulator creates an Accumulator and starts its owner goroutine.
// Close must be called to release it.
func NewAccumulator() *Accumulator {
	a := &Accumulator{
		facts: make(chan *castindex.Fact, accumulatorBuffer),
		done:  make(chan struct{}),
		index: castindex.Index{},
	}
	go a.run()
	return a
}

func (a *Accumulator) run() {
	defer close(a.done)
	for fact := range a.facts {
		a.index.AddFact(fact)
		a.added++
	}
}

// Add queues a fact for indexing. It is safe for concurrent use but must
// not be called after Close.
func (a *Accumulator) Add(fact *castindex.Fact) {
	if fact == nil {
		return
	}
	a.facts <- fact
}

// Close waits for queued facts to be indexed and returns the index.
// Calling Close more than once returns the same index.
func (a *Accumulator) Close() castindex.Index {
	a.once.Do(func() {
		close(a.facts)
	})
	<-a.done
	return a.index
}

// Added returns the number of facts indexed. Valid after Close.
func (a *Accumulator) Added() int {
	<-a.done
	return a.added
}
