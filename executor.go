package authcase

// Executor decides where Stream runs execute. authcase owns no scheduler; the
// caller picks one through Builder.WithExecutor.
type Executor interface {
	Go(fn func())
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(fn func())

// Go calls f(fn).
func (f ExecutorFunc) Go(fn func()) { f(fn) }

// GoExecutor runs every Stream on its own goroutine. It is the default.
type GoExecutor struct{}

// Go starts fn on a new goroutine.
func (GoExecutor) Go(fn func()) { go fn() }

// InlineExecutor runs every Stream synchronously on the calling goroutine.
//
// With InlineExecutor, Start and Reauthenticate return only after the auth
// stream (and any business stream it triggers) has finished, so a success
// handled inside a broadcast may remove its use case from the registry
// before the broadcast moves to the next member.
type InlineExecutor struct{}

// Go calls fn directly.
func (InlineExecutor) Go(fn func()) { fn() }
