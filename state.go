package authcase

// State is the position of a UseCase in its lifecycle.
type State uint8

const (
	// StateCreated: built, Start not called yet.
	StateCreated State = iota
	// StateAuthPending: an auth attempt is subscribed and no outcome arrived yet.
	StateAuthPending
	// StateAuthFailed: the latest auth outcome was an AuthError.
	StateAuthFailed
	// StateAuthSucceeded: a credential arrived and the business stream is being built.
	StateAuthSucceeded
	// StateExecuting: the business stream for the latest credential is subscribed.
	StateExecuting
	// StateCompleted: OneShot only; the first business value was relayed and the
	// output stream is complete.
	StateCompleted
	// StateTornDown: terminal; reachable from every other state.
	StateTornDown
)

var stateNames = [...]string{
	StateCreated:       "created",
	StateAuthPending:   "auth_pending",
	StateAuthFailed:    "auth_failed",
	StateAuthSucceeded: "auth_succeeded",
	StateExecuting:     "executing",
	StateCompleted:     "completed",
	StateTornDown:      "torn_down",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further auth or business work is accepted.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateTornDown
}
