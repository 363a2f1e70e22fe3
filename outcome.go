package authcase

// AuthError is a recoverable, domain-level authentication failure.
//
// The set of implementations is closed: NotAuthenticated and OtherError. Use
// MatchAuthError to consume it exhaustively.
type AuthError interface {
	error
	authError()
}

// NotAuthenticated reports that no usable credential exists. With
// UseCaseConfig.AutoLogin enabled it triggers the login navigation hook.
type NotAuthenticated struct{}

func (NotAuthenticated) Error() string { return "not authenticated" }
func (NotAuthenticated) authError()    {}

// OtherError is any other domain authentication failure.
type OtherError struct {
	Message string
}

func (e OtherError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

func (OtherError) authError() {}

// MatchAuthError dispatches err to the handler for its variant. A nil err is
// treated as NotAuthenticated.
func MatchAuthError[R any](err AuthError, notAuthenticated func() R, other func(OtherError) R) R {
	switch e := err.(type) {
	case OtherError:
		return other(e)
	case *OtherError:
		if e == nil {
			return notAuthenticated()
		}
		return other(*e)
	default:
		return notAuthenticated()
	}
}

// IsNotAuthenticated reports whether err is the NotAuthenticated variant.
func IsNotAuthenticated(err AuthError) bool {
	return MatchAuthError(err,
		func() bool { return true },
		func(OtherError) bool { return false },
	)
}

// AuthOutcome is the result of one auth provider emission: either a
// credential or an AuthError, never both.
type AuthOutcome[A any] struct {
	credential A
	err        AuthError
	ok         bool
}

// Success wraps a credential.
func Success[A any](credential A) AuthOutcome[A] {
	return AuthOutcome[A]{credential: credential, ok: true}
}

// Failure wraps a domain auth error. A nil err becomes NotAuthenticated.
func Failure[A any](err AuthError) AuthOutcome[A] {
	if err == nil {
		err = NotAuthenticated{}
	}
	return AuthOutcome[A]{err: err}
}

// Ok reports whether the outcome carries a credential.
func (o AuthOutcome[A]) Ok() bool { return o.ok }

// Credential returns the credential and true for a successful outcome.
func (o AuthOutcome[A]) Credential() (A, bool) { return o.credential, o.ok }

// Err returns the auth error of a failed outcome, or nil.
func (o AuthOutcome[A]) Err() AuthError {
	if o.ok {
		return nil
	}
	if o.err == nil {
		return NotAuthenticated{}
	}
	return o.err
}

// Fold routes the outcome to onFailure or onSuccess.
func (o AuthOutcome[A]) Fold(onFailure func(AuthError), onSuccess func(A)) {
	if o.ok {
		onSuccess(o.credential)
		return
	}
	onFailure(o.Err())
}
