package authcase

import "context"

// Stream is a cold, restartable source of values consumed by a UseCase.
//
// Invoking the function starts one independent run. The run calls emit for
// every produced value and returns nil when it completes or a non-nil error
// when the underlying transport fails. A run must return promptly once ctx is
// cancelled; values emitted after cancellation are discarded by the caller.
type Stream[T any] func(ctx context.Context, emit func(T)) error

// Just returns a Stream that emits values in order and completes.
func Just[T any](values ...T) Stream[T] {
	return func(ctx context.Context, emit func(T)) error {
		for _, v := range values {
			if ctx.Err() != nil {
				return nil
			}
			emit(v)
		}
		return nil
	}
}

// Fail returns a Stream that fails immediately with err.
func Fail[T any](err error) Stream[T] {
	return func(context.Context, func(T)) error {
		return err
	}
}

// FromChannel returns a Stream relaying ch until it is closed or ctx ends.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return func(ctx context.Context, emit func(T)) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case v, ok := <-ch:
				if !ok {
					return nil
				}
				emit(v)
			}
		}
	}
}

// subscription is the cancellation handle of one Stream run.
type subscription struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newSubscription(parent context.Context) *subscription {
	ctx, cancel := context.WithCancel(parent)
	return &subscription{ctx: ctx, cancel: cancel}
}

// Cancel is idempotent and safe on a nil receiver.
func (s *subscription) Cancel() {
	if s == nil {
		return
	}
	s.cancel()
}

func (s *subscription) active() bool {
	return s != nil && s.ctx.Err() == nil
}
