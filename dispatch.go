package dispatch

import (
	"context"
	"fmt"
	"iter"
	"os"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// JobFunc is the unit of work executed once per job. It receives the
// job payload and the per-run Env and either returns nil (success) or
// an error (fatal to the whole batch).
type JobFunc[T any, K comparable, V any] func(ctx context.Context, payload T, env *Env[K, V]) error

// SharedFunc builds extra shared state once per run from the seed
// value passed to Run. The result is visible to every job via
// Env.Shared.
type SharedFunc func(seed any) any

// Env carries the shared handles injected into every job invocation:
// the critical-section gate, the result sink, and whatever extra state
// the SharedFunc hook produced. One Env exists per run.
type Env[K comparable, V any] struct {
	Gate    *Gate
	Results *Sink[K, V]
	Shared  any
}

// Dispatcher executes batches of jobs on a bounded pool of workers.
//
// A Dispatcher is constructed once and may be reused: every call to
// Run builds fresh per-run state (workers, admission counter, gate,
// sink) and tears it down before returning. Runs are serialized; there
// is exactly one submitter per run and workers never submit jobs.
type Dispatcher[T any, K comparable, V any] struct {
	fn      JobFunc[T, K, V]
	opts    Options
	metrics MetricsPolicy

	// InitShared, when set, is called once per run with the shared
	// seed passed to Run; its result becomes Env.Shared.
	InitShared SharedFunc

	// OnJobError, when set, observes the first job failure of a run
	// before the abort path runs.
	OnJobError func(err error)

	// OnInternalError reports non-job failures such as worker thread
	// pinning problems. If nil, they are silently ignored.
	OnInternalError func(err error)

	submitMu sync.Mutex
}

// osExit is swapped out by tests exercising the fail-fast path.
var osExit = os.Exit

// New returns a Dispatcher that runs fn for every submitted job.
// Zero-value options are replaced with defaults, see Options.
func New[T any, K comparable, V any](fn JobFunc[T, K, V], opts Options) *Dispatcher[T, K, V] {
	opts.FillDefaults()
	return &Dispatcher[T, K, V]{
		fn:      fn,
		opts:    opts,
		metrics: opts.Metrics,
	}
}

// WorkerLimit reports the resolved worker count for this Dispatcher.
func (d *Dispatcher[T, K, V]) WorkerLimit() int { return d.opts.Workers }

// Run executes every job in jobs and blocks until all of them have
// finished, then returns the result sink. Jobs are submitted in slice
// order; completion order is unspecified. shared is forwarded to the
// InitShared hook, see Env.
//
// Any job error or panic aborts the whole batch: by default the
// process is terminated with a non-zero status, with GracefulAbort the
// remaining work is cancelled and the error is returned instead. A
// failed run never returns partial results.
func (d *Dispatcher[T, K, V]) Run(ctx context.Context, jobs []T, shared any) (*Sink[K, V], error) {
	return d.RunSeq(ctx, func(yield func(T) bool) {
		for _, j := range jobs {
			if !yield(j) {
				return
			}
		}
	}, shared)
}

// RunSeq is Run for lazily produced job sequences. The sequence is
// consumed exactly once.
func (d *Dispatcher[T, K, V]) RunSeq(ctx context.Context, jobs iter.Seq[T], shared any) (*Sink[K, V], error) {
	if d.fn == nil {
		return nil, fmt.Errorf("dispatch: job logic not defined: %w", ErrNotImplemented)
	}

	// One submitter at a time; the lock is held for the whole
	// submission pass. Workers decrement the admission counter
	// independently of it.
	d.submitMu.Lock()
	defer d.submitMu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := &run[T, K, V]{
		d:      d,
		ctx:    runCtx,
		cancel: cancel,
		adm:    newAdmitter(d.opts, d.metrics),
		env: &Env[K, V]{
			Gate:    &Gate{},
			Results: NewSink[K, V](),
		},
	}
	if d.InitShared != nil {
		r.env.Shared = d.InitShared(shared)
	} else {
		r.env.Shared = shared
	}

	logger := lg.FromContext(ctx)
	start := time.Now()
	submitted := 0

	for payload := range jobs {
		if err := r.adm.acquire(runCtx); err != nil {
			r.submitErr = err
			break
		}
		if submitted == 0 {
			// Workers are started lazily so an empty batch spawns
			// no worker-bound work at all.
			r.start()
		}
		d.metrics.IncSubmitted()
		submitted++
		r.jobs <- payload
		logger.Info("Job submitted", lg.Any("job", payload))
	}

	if r.jobs != nil {
		close(r.jobs)
	}
	r.wg.Wait()

	logger.Info("Run finished",
		lg.String("duration", time.Since(start).String()),
		lg.Int("submitted", submitted),
		lg.Int("results", r.env.Results.Len()),
	)

	if r.err != nil {
		return nil, r.err
	}
	if r.submitErr != nil {
		return nil, r.submitErr
	}
	return r.env.Results, nil
}

// run holds the state of a single Run invocation.
type run[T any, K comparable, V any] struct {
	d      *Dispatcher[T, K, V]
	ctx    context.Context
	cancel context.CancelFunc
	adm    admitter
	env    *Env[K, V]

	jobs chan T
	wg   sync.WaitGroup

	failOnce  sync.Once
	err       error // first job failure; read after wg.Wait
	submitErr error // submission-side abort, e.g. caller cancellation
}

// start spins up the worker pool. The jobs channel is sized to the
// worker limit; admission control guarantees sends never block.
func (r *run[T, K, V]) start() {
	r.jobs = make(chan T, r.d.opts.Workers)
	for i := 0; i < r.d.opts.Workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// fail escalates the first job failure of the run. Later failures are
// ignored; the run is already doomed.
func (r *run[T, K, V]) fail(err error) {
	r.failOnce.Do(func() {
		r.err = err
		r.cancel() // stop admitting further jobs
		lg.FromContext(r.ctx).Error("Job failed, aborting run", lg.Any("error", err))
		if h := r.d.OnJobError; h != nil {
			h(err)
		}
		if !r.d.opts.GracefulAbort {
			osExit(1)
		}
	})
}

func (r *run[T, K, V]) reportInternalError(err error) {
	if h := r.d.OnInternalError; h != nil {
		h(err)
	}
}
