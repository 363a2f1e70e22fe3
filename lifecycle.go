package authcase

// Lifecycle is the generic use case contract a UseCase delegates to.
//
// ErrorSink receives every non-domain error raised by the auth stream or the
// business stream, unchanged. OnStop runs once, on the first effective
// TearDown. Both may be nil.
type Lifecycle struct {
	ErrorSink func(error)
	OnStop    func()
}

func (l Lifecycle) fail(err error) {
	if l.ErrorSink != nil {
		l.ErrorSink(err)
	}
}

func (l Lifecycle) stop() {
	if l.OnStop != nil {
		l.OnStop()
	}
}
