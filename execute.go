package dispatch

import (
	"fmt"
	"runtime"

	lg "github.com/Andrej220/go-utils/zlog"
)

// worker drains the jobs channel until it is closed. Once the run has
// been aborted, admitted-but-unstarted jobs are skipped; their slots
// are still released so the admission counter drains to zero.
func (r *run[T, K, V]) worker(id int) {
	defer r.wg.Done()

	if r.d.opts.UseOSThreads {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := PinToCPU(id % runtime.NumCPU()); err != nil {
			r.reportInternalError(fmt.Errorf("dispatch: pin worker %d: %w", id, err))
		}
	}

	for payload := range r.jobs {
		if r.ctx.Err() != nil {
			r.adm.release()
			continue
		}
		r.execute(payload)
	}
}

// execute runs one job. The admission slot stays occupied for the
// job's entire execution window and is released unconditionally after
// the job logic returns, panics included.
func (r *run[T, K, V]) execute(payload T) {
	defer r.adm.release()
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(fmt.Errorf("dispatch: job panicked: %v", rec))
		}
	}()

	logger := lg.FromContext(r.ctx).With(lg.Any("job", payload))
	logger.Info("Worker processing job", lg.Int32("in_flight", r.adm.inFlight()))

	if err := r.d.fn(r.ctx, payload, r.env); err != nil {
		r.fail(err)
		return
	}

	r.d.metrics.IncExecuted()
	logger.Info("Worker finished", lg.Int32("in_flight", r.adm.inFlight()))
}
