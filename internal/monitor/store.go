// Package monitor implements the overseer's monitoring history: an
// append-only (until purge) FIFO of per-child memory samples, queryable by
// pid or in aggregate.
package monitor

import (
	"sync"

	"github.com/mitchelljqegan/process-overseer/internal/types"
)

// Sample is one row appended by a supervisor: a single memory reading for
// one child at one instant.
type Sample struct {
	PID   int
	When  string
	Argv  string
	Bytes types.Bytes
}

// Aggregate is one row of a query-all response: the most recently sampled
// byte count for a pid, paired with the argv recorded in that pid's first
// sample. This asymmetry (latest bytes, first argv) is intentional -
// carried over from the source, not a bug to fix.
type Aggregate struct {
	PID   int
	Bytes types.Bytes
	Argv  string
}

// Store is a thread-safe, append-only-until-purge sequence of samples.
type Store struct {
	mu      sync.Mutex
	samples []Sample
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Append pushes a sample to the tail.
func (s *Store) Append(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
}

// QueryByPID returns every sample recorded for pid, in append order.
func (s *Store) QueryByPID(pid int) []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Sample
	for _, sample := range s.samples {
		if sample.PID == pid {
			out = append(out, sample)
		}
	}
	return out
}

// QueryAll returns one Aggregate per distinct pid currently holding
// samples, in order of each pid's first appearance. There is no cap on the
// number of pids returned - the source's fixed-size-array truncation at
// the worker count is a known bug (see DESIGN.md) and is not reproduced.
func (s *Store) QueryAll() []Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := make([]int, 0)
	first := make(map[int]string)
	latest := make(map[int]types.Bytes)
	for _, sample := range s.samples {
		if _, seen := first[sample.PID]; !seen {
			first[sample.PID] = sample.Argv
			order = append(order, sample.PID)
		}
		latest[sample.PID] = sample.Bytes
	}

	out := make([]Aggregate, 0, len(order))
	for _, pid := range order {
		out = append(out, Aggregate{PID: pid, Bytes: latest[pid], Argv: first[pid]})
	}
	return out
}

// Purge removes every sample recorded for pid. Called exactly once per
// child, by the supervisor that owns it, on reap.
func (s *Store) Purge(pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.samples[:0]
	for _, sample := range s.samples {
		if sample.PID != pid {
			kept = append(kept, sample)
		}
	}
	s.samples = kept
}
