package authcase

import "errors"

var (
	// ErrAlreadyStarted is returned by Start when the use case was started before.
	ErrAlreadyStarted = errors.New("use case already started")
	// ErrTornDown is returned by Start after TearDown, and is the error an
	// OutputStream is closed with when its use case is torn down.
	ErrTornDown = errors.New("use case torn down")
	// ErrBuilderUsed is returned by Build when called twice on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrAuthSourceRequired is returned by Build when no auth stream source is set.
	ErrAuthSourceRequired = errors.New("auth stream source required")
	// ErrExecuteRequired is returned by Build when no business stream builder is set.
	ErrExecuteRequired = errors.New("business stream builder required")
	// ErrErrorMapperRequired is returned by Build when no auth error mapper is set.
	ErrErrorMapperRequired = errors.New("auth error mapper required")
	// ErrLoginNavigatorRequired is returned by Build when AutoLogin is enabled
	// without a login navigation hook.
	ErrLoginNavigatorRequired = errors.New("login navigator required when AutoLogin is enabled")
	// ErrInvalidConfig wraps every Config.Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
)
