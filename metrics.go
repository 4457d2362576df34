package dispatch

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the dispatcher to report
// submission, admission, and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking
type MetricsPolicy interface {

	// IncSubmitted increments the submitted jobs counter.
	IncSubmitted()

	// IncExecuted increments the successfully executed jobs counter.
	IncExecuted()

	// IncAdmitted increments the in-flight gauge when a job takes
	// an admission slot.
	IncAdmitted()

	// DecAdmitted decrements the in-flight gauge when the worker
	// that consumed the slot gives it back.
	DecAdmitted()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// submitted is the total number of jobs handed to workers.
	submitted atomic.Uint64

	// executed is the total number of jobs that completed without error.
	executed atomic.Uint64

	_ [48]byte // padding to avoid false sharing

	// admitted is the current number of in-flight jobs.
	admitted atomic.Int64
}

// Submitted returns the total number of submitted jobs.
// Intended for cold-path observation.
func (m *AtomicMetrics) Submitted() uint64 {
	return m.submitted.Load()
}

// Executed returns the total number of successfully executed jobs.
// Intended for cold-path observation.
func (m *AtomicMetrics) Executed() uint64 {
	return m.executed.Load()
}

// Admitted returns the current number of in-flight jobs.
// After a full drain it reads zero.
func (m *AtomicMetrics) Admitted() int64 {
	return m.admitted.Load()
}

// IncSubmitted increments the submitted jobs counter by one.
func (m *AtomicMetrics) IncSubmitted() {
	m.submitted.Add(1)
}

// IncExecuted increments the executed jobs counter by one.
func (m *AtomicMetrics) IncExecuted() {
	m.executed.Add(1)
}

// IncAdmitted increments the in-flight gauge by one.
func (m *AtomicMetrics) IncAdmitted() {
	m.admitted.Add(1)
}

// DecAdmitted decrements the in-flight gauge by one.
func (m *AtomicMetrics) DecAdmitted() {
	m.admitted.Add(-1)
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
//
// It can be used when metrics collection is disabled and
// zero overhead is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted() {}
func (m *NoopMetrics) IncExecuted()  {}
func (m *NoopMetrics) IncAdmitted()  {}
func (m *NoopMetrics) DecAdmitted()  {}
