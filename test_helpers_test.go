package dispatch

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func newTestOptions(workers int) Options {
	return Options{
		Workers:      workers,
		PollInterval: 2 * time.Millisecond,
	}
}

// gauge tracks the peak number of goroutines between enter and exit.
type gauge struct {
	cur atomic.Int32
	max atomic.Int32
}

func (g *gauge) enter() {
	c := g.cur.Add(1)
	for {
		m := g.max.Load()
		if c <= m || g.max.CompareAndSwap(m, c) {
			return
		}
	}
}

func (g *gauge) exit() { g.cur.Add(-1) }

func (g *gauge) peak() int32 { return g.max.Load() }

// doubler is the workload used by most run tests: it writes
// payload*2 under the payload's own key.
func doubler(sleep time.Duration, active *gauge) JobFunc[int, int, int] {
	return func(_ context.Context, payload int, env *Env[int, int]) error {
		if active != nil {
			active.enter()
			defer active.exit()
		}
		if sleep > 0 {
			time.Sleep(sleep)
		}
		env.Results.Put(payload, payload*2)
		return nil
	}
}

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func mustRun(t *testing.T, d *Dispatcher[int, int, int], jobs []int) *Sink[int, int] {
	t.Helper()
	res, err := d.Run(context.Background(), jobs, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func gomaxprocs() int { return runtime.GOMAXPROCS(0) }
