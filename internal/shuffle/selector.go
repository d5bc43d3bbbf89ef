// Package shuffle hands out fact ids in random order without repeats
// until every id of the current catalog snapshot has been served.
package shuffle

import (
	"log"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/hpungsan/catfact/internal/catalog"
	"github.com/hpungsan/catfact/internal/errors"
)

// Lister supplies the full set of fact ids for a refill.
type Lister interface {
	List() ([]catalog.FactID, error)
	Root() string
}

// Selector owns the process-wide shuffle queue.
// Next and Refill are serialized by an internal mutex, so concurrent HTTP
// handlers still see every id exactly once per cycle.
type Selector struct {
	mu     sync.Mutex
	lister Lister
	rng    *rand.Rand
	queue  []catalog.FactID
	cycle  int
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the random source used for permutations.
func WithRand(r *rand.Rand) Option {
	return func(s *Selector) { s.rng = r }
}

// New creates a Selector with an empty queue. Call Refill to prime it.
func New(lister Lister, opts ...Option) *Selector {
	s := &Selector{lister: lister}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Refill replaces the queue with a fresh uniform permutation of the catalog.
func (s *Selector) Refill() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refillLocked()
}

// Next pops the front of the queue, refilling first when it is empty.
// Ids queued before a catalog change stay queued until the cycle ends.
func (s *Selector) Next() (catalog.FactID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		if err := s.refillLocked(); err != nil {
			return 0, err
		}
	}

	id := s.queue[0]
	s.queue = s.queue[1:]
	return id, nil
}

// Pending returns a copy of the ids not yet served in the current cycle, in order.
func (s *Selector) Pending() []catalog.FactID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queue)
}

// Cycle returns how many times the queue has been refilled.
func (s *Selector) Cycle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle
}

func (s *Selector) refillLocked() error {
	ids, err := s.lister.List()
	if err != nil {
		s.queue = nil
		return err
	}
	if len(ids) == 0 {
		s.queue = nil
		return errors.NewEmptyCatalog(s.lister.Root())
	}

	queue := slices.Clone(ids)
	s.rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	s.queue = queue
	s.cycle++

	log.Printf("shuffle queue rebuilt (cycle %d): %v", s.cycle, queue)
	return nil
}
