package dispatch

import (
	"context"
	"sync/atomic"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// admitter bounds the number of in-flight jobs. acquire is called by
// the single submitter, release by whichever worker consumed the slot.
// Every acquire is matched by exactly one release.
type admitter interface {
	acquire(ctx context.Context) error
	release()
	inFlight() int32
}

func newAdmitter(opts Options, m MetricsPolicy) admitter {
	switch opts.Wait {
	case WaitBlocking:
		return &semAdmitter{
			slots:   make(chan struct{}, opts.Workers),
			metrics: m,
		}
	case WaitBackoff:
		return &pollAdmitter{
			limit:    int32(opts.Workers),
			interval: opts.PollInterval,
			initial:  opts.BackoffInitial,
			metrics:  m,
		}
	default:
		return &pollAdmitter{
			limit:    int32(opts.Workers),
			interval: opts.PollInterval,
			metrics:  m,
		}
	}
}

// pollAdmitter re-checks a shared counter at a fixed interval while
// the pool is saturated. With a non-zero initial it instead sleeps an
// increasing backoff capped at the interval, restarting per acquire.
type pollAdmitter struct {
	limit    int32
	interval time.Duration
	initial  time.Duration
	metrics  MetricsPolicy
	n        atomic.Int32
}

func (a *pollAdmitter) acquire(ctx context.Context) error {
	next := func() time.Duration { return a.interval }
	if a.initial > 0 {
		bo := boff.New(a.initial, a.interval, time.Now().UnixNano())
		next = bo.Next
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Only the submitter increments, so check-then-add cannot
		// overshoot the limit: concurrent releases only decrement.
		if a.n.Load() < a.limit {
			a.n.Add(1)
			a.metrics.IncAdmitted()
			return nil
		}
		delay := next()
		lg.FromContext(ctx).Info("Pool saturated, waiting",
			lg.Int32("limit", a.limit),
			lg.String("sleep", delay.String()),
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return ctx.Err()
		}
	}
}

func (a *pollAdmitter) release() {
	a.n.Add(-1)
	a.metrics.DecAdmitted()
}

func (a *pollAdmitter) inFlight() int32 { return a.n.Load() }

// semAdmitter blocks on a buffered-channel semaphore instead of
// polling. Same acquire/release contract, no wake-up latency.
type semAdmitter struct {
	slots   chan struct{}
	metrics MetricsPolicy
	n       atomic.Int32
}

func (a *semAdmitter) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case a.slots <- struct{}{}:
		a.n.Add(1)
		a.metrics.IncAdmitted()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *semAdmitter) release() {
	<-a.slots
	a.n.Add(-1)
	a.metrics.DecAdmitted()
}

func (a *semAdmitter) inFlight() int32 { return a.n.Load() }
