// Package dispatch provides a bounded-concurrency job dispatcher for
// offline batch computation.
//
// Design goals
//
// The package is designed around the following principles:
//
//   - Bound in-flight work with a simple admission counter
//   - Keep every shared handle explicit, never ambient globals
//   - Fail fast: one bad job invalidates the whole batch
//   - Stay predictable for long batch runs rather than low-latency services
//
// Rather than scheduling a dependency graph, dispatch executes a flat,
// finite sequence of independent jobs and collects their results.
//
// Architecture overview
//
// A run is composed of three loosely coupled pieces:
//
//   1. Submission (Run / RunSeq)
//      A single control goroutine walks the job sequence in order.
//      Before each submission it takes an admission slot; while the
//      pool is saturated it waits according to the configured
//      WaitPolicy. The whole pass holds one coarse lock, so there is
//      exactly one submitter per run.
//
//   2. Execution (workers)
//      A fixed pool of workers, sized to the admission limit, runs the
//      caller-supplied JobFunc once per job. A worker releases its
//      job's admission slot only after the job logic returns, so a
//      slot is occupied for the job's entire execution window.
//
//   3. Shared state (Env)
//      Every job receives the same Env: the critical-section Gate, the
//      result Sink, and any extra state built by the InitShared hook.
//      Handles are injected per invocation, never stored in globals.
//
// Admission model
//
// The admission counter lives in [0, Workers]. The submitter is its
// only incrementer; each worker decrements it exactly once per job it
// ran. Completion order is unspecified, which is why results are keyed
// by the job logic through the Sink rather than by submission order.
//
// The default WaitFixed policy re-polls the counter after a fixed
// sleep. WaitBackoff grows the sleep from a small initial value, and
// WaitBlocking parks the submitter on a semaphore instead of polling.
// All three enforce the same bound and the same slot accounting.
//
// Failure model
//
// There are no retries and no per-job timeouts. Any error or panic in
// job logic is logged and terminates the whole process with a non-zero
// status; sibling jobs are not given a chance to complete and no
// partial results are returned. With Options.GracefulAbort the run is
// cancelled and Run returns the error instead, still with no partial
// results.
//
// Intended use cases
//
// dispatch is well suited for:
//
//   - Parameter sweeps and simulation batches
//   - Embarrassingly parallel offline computation
//   - Workloads where a single corrupted job invalidates the run
//
// It is not intended for long-lived services, task graphs, or work
// that needs per-job cancellation or partial failure handling.
package dispatch
