package dispatch

import (
	"runtime"
	"time"
)

// WaitPolicy selects how the submitter waits while the pool is
// saturated. The policy changes latency only; the admission bound and
// slot accounting are identical across policies.
type WaitPolicy int

const (
	// WaitFixed re-polls the admission counter after a fixed sleep.
	WaitFixed WaitPolicy = iota

	// WaitBackoff re-polls after a growing sleep, starting at
	// Options.BackoffInitial and capped at Options.PollInterval.
	WaitBackoff

	// WaitBlocking parks the submitter on a semaphore until a worker
	// frees a slot. No polling latency.
	WaitBlocking
)

const (
	defaultPollInterval = time.Second

	// saturatedFallback replaces a negative PollInterval.
	saturatedFallback = time.Hour

	defaultBackoffInitial = 10 * time.Millisecond
)

// Options configure a Dispatcher.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the maximum number of simultaneously in-flight jobs
	// and the size of the worker pool. Zero or negative means all
	// available hardware parallelism.
	Workers int

	// PollInterval is the sleep between admission re-polls while the
	// pool is saturated. Zero means the one-second default; a negative
	// value selects the one-hour fallback.
	PollInterval time.Duration

	Wait WaitPolicy

	// BackoffInitial is the first sleep of the WaitBackoff policy.
	BackoffInitial time.Duration

	// UseOSThreads locks every worker to its own OS thread and, on
	// Linux, pins it to a CPU core.
	UseOSThreads bool

	// GracefulAbort makes a job failure cancel the run and surface as
	// an error from Run instead of terminating the process. Either
	// way a failed run returns no results.
	GracefulAbort bool

	Metrics MetricsPolicy
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.PollInterval == 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.PollInterval < 0 {
		o.PollInterval = saturatedFallback
	}
	if o.BackoffInitial <= 0 {
		o.BackoffInitial = defaultBackoffInitial
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}

func (w WaitPolicy) String() string {
	switch w {
	case WaitFixed:
		return "WaitFixed"
	case WaitBackoff:
		return "WaitBackoff"
	case WaitBlocking:
		return "WaitBlocking"
	default:
		return "Unknown"
	}
}
