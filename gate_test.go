package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGateNoLostUpdates(t *testing.T) {
	const perJob = 1000
	var counter *int
	var inGate gauge

	d := New(func(_ context.Context, _ int, env *Env[int, int]) error {
		for i := 0; i < perJob; i++ {
			err := env.Gate.Do(func() error {
				inGate.enter()
				defer inGate.exit()
				*counter++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, newTestOptions(2))
	d.InitShared = func(any) any {
		counter = new(int)
		return counter
	}

	if _, err := d.Run(context.Background(), seq(2), nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	if *counter != 2*perJob {
		t.Fatalf("counter = %d; want %d", *counter, 2*perJob)
	}
	if peak := inGate.peak(); peak > 1 {
		t.Fatalf("critical section concurrency = %d; want <= 1", peak)
	}
}

func TestGateNilWork(t *testing.T) {
	var g Gate
	if err := g.Do(nil); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("Do(nil) = %v; want ErrNotImplemented", err)
	}
	if _, err := Critical[int](&g, nil); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("Critical(nil) = %v; want ErrNotImplemented", err)
	}
}

func TestCriticalReturnsValue(t *testing.T) {
	var g Gate
	v, err := Critical(&g, func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Fatalf("Critical = %q, %v; want \"ok\", nil", v, err)
	}

	boom := errors.New("boom")
	_, err = Critical(&g, func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Critical error = %v; want %v", err, boom)
	}
}

func TestGateReleasedAfterPanic(t *testing.T) {
	var g Gate

	func() {
		defer func() { _ = recover() }()
		_ = g.Do(func() error { panic("inside gate") })
	}()

	acquired := make(chan struct{})
	go func() {
		_ = g.Do(func() error {
			close(acquired)
			return nil
		})
	}()

	select {
	case <-acquired:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("gate still held after a panicking critical section")
	}
}
