package dispatch

import (
	"sync"
	"testing"
)

func TestSinkConcurrentWrites(t *testing.T) {
	const n = 100
	s := NewSink[int, int]()

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			s.Put(i, i*i)
		}(i)
	}
	wg.Wait()

	if got := s.Len(); got != n {
		t.Fatalf("len = %d; want %d", got, n)
	}
	for i := 0; i < n; i++ {
		if v, ok := s.Get(i); !ok || v != i*i {
			t.Fatalf("sink[%d] = %d, %v; want %d, true", i, v, ok, i*i)
		}
	}
}

func TestSinkGetMissing(t *testing.T) {
	s := NewSink[string, int]()
	if v, ok := s.Get("absent"); ok || v != 0 {
		t.Fatalf("Get(absent) = %d, %v; want 0, false", v, ok)
	}
}

func TestSinkMapIsACopy(t *testing.T) {
	s := NewSink[string, int]()
	s.Put("a", 1)

	m := s.Map()
	m["a"] = 99
	m["b"] = 2

	if v, _ := s.Get("a"); v != 1 {
		t.Fatalf("sink[a] = %d after mutating snapshot; want 1", v)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("len = %d after mutating snapshot; want 1", got)
	}
}
