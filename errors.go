package promisepool

import "errors"

const Namespace = "promisepool"

var (
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
	ErrTaskTimeout   = errors.New(Namespace + ": task timed out")
	ErrTaskPanicked  = errors.New(Namespace + ": task execution panicked")
	ErrTaskCancelled = errors.New(Namespace + ": task execution cancelled")
)

// errStop is the internal stop signal used to unwind out of a handler or
// error handler after Control.Stop. It is swallowed at every settlement
// branch: it never appears in Result.Errors and never escapes Process.
var errStop = errors.New(Namespace + ": pool stopped")
