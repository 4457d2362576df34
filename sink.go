package dispatch

import (
	"sync"
)

// Sink collects one result entry per job. It is safe for concurrent
// writes from workers; keys are chosen by the job logic. The intended
// access pattern is write during the run, read after the run drains.
// Two jobs writing the same key must serialize through the Gate.
type Sink[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func NewSink[K comparable, V any]() *Sink[K, V] {
	return &Sink[K, V]{m: make(map[K]V)}
}

// Put stores v under k, overwriting any previous entry.
func (s *Sink[K, V]) Put(k K, v V) {
	s.mu.Lock()
	s.m[k] = v
	s.mu.Unlock()
}

// Get returns the entry stored under k, if any.
func (s *Sink[K, V]) Get(k K) (V, bool) {
	s.mu.RLock()
	v, ok := s.m[k]
	s.mu.RUnlock()
	return v, ok
}

// Len returns the number of entries.
func (s *Sink[K, V]) Len() int {
	s.mu.RLock()
	n := len(s.m)
	s.mu.RUnlock()
	return n
}

// Map returns a copy of the collected entries.
func (s *Sink[K, V]) Map() map[K]V {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[K]V, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}
