package dispatch

import (
	"sync"
)

// Gate is the single cross-worker mutual-exclusion primitive exposed
// to job logic. One Gate exists per run, shared by every worker in
// that run's pool; it is never used by the dispatcher itself. Job
// logic that mutates state shared between jobs must route through it.
//
// The zero value is ready to use.
type Gate struct {
	mu sync.Mutex
}

// Do runs work while holding the gate's lock. The lock is released on
// every exit path, panics included. A nil work is a contract violation
// and fails with ErrNotImplemented.
func (g *Gate) Do(work func() error) error {
	if work == nil {
		return ErrNotImplemented
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return work()
}

// Critical is Do for critical sections that produce a value. Whatever
// work returns is passed through to the caller.
func Critical[R any](g *Gate, work func() (R, error)) (R, error) {
	if work == nil {
		var zero R
		return zero, ErrNotImplemented
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return work()
}
