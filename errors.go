package dispatch

import "errors"

// ErrNotImplemented reports that a required extension point (the job
// logic or a critical section) was not supplied. It is returned at the
// first invocation, never swallowed.
var ErrNotImplemented = errors.New("dispatch: not implemented")
