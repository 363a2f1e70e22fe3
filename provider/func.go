package provider

import (
	"context"

	"github.com/MrEthical07/authcase"
)

// Func adapts a one-shot credential lookup to an auth stream source. A nil
// AuthError with a nil error is a success; a non-nil error is a transport
// failure.
func Func[A any](lookup func(ctx context.Context) (A, authcase.AuthError, error)) func() authcase.Stream[authcase.AuthOutcome[A]] {
	return func() authcase.Stream[authcase.AuthOutcome[A]] {
		return func(ctx context.Context, emit func(authcase.AuthOutcome[A])) error {
			credential, authErr, err := lookup(ctx)
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			if authErr != nil {
				emit(authcase.Failure[A](authErr))
				return nil
			}
			emit(authcase.Success(credential))
			return nil
		}
	}
}
