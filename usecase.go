package authcase

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/authcase/internal/audit"
	"github.com/MrEthical07/authcase/registry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UseCase obtains a credential from an auth stream, runs a business stream
// with it and relays the produced values on a replayable OutputStream.
//
// Domain auth failures are mapped to placeholder values and emitted like
// any other value. While registered, a UseCase re-runs its auth attempt on
// every registry broadcast. At most one auth subscription and one business
// subscription are active at any time; starting a new one cancels the
// previous one of the same kind.
//
// UseCase methods are safe for concurrent use. Build one with New.
type UseCase[A, T any] struct {
	id        uuid.UUID
	cfg       Config
	auth      func() Stream[AuthOutcome[A]]
	execute   func(A) Stream[T]
	mapError  func(AuthError) T
	goToLogin func()
	lifecycle Lifecycle

	registry *registry.Registry
	executor Executor
	logger   *zap.Logger
	metrics  *Metrics
	audit    *audit.Dispatcher

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	state   State
	out     *OutputStream[T]
	authSub *subscription
	execSub *subscription
}

var _ registry.Member = (*UseCase[struct{}, struct{}])(nil)

// BroadcastAuthChanged re-runs the auth attempt of every use case registered
// in registry.Default() and returns how many were re-run. Call it whenever
// the global session changes (login, logout, token refresh).
func BroadcastAuthChanged() int {
	return registry.Default().Broadcast()
}

// ID returns the identity the use case is registered under.
func (u *UseCase[A, T]) ID() uuid.UUID {
	return u.id
}

// State returns the current lifecycle state.
func (u *UseCase[A, T]) State() State {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Output returns the stream created by Start, or nil before Start.
func (u *UseCase[A, T]) Output() *OutputStream[T] {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.out
}

// Start creates the output stream, registers the use case and begins the
// first auth attempt. It may be called once; later calls return
// ErrAlreadyStarted, and calls after TearDown return ErrTornDown.
func (u *UseCase[A, T]) Start() (*OutputStream[T], error) {
	u.mu.Lock()
	if u.state == StateTornDown {
		u.mu.Unlock()
		return nil, ErrTornDown
	}
	if u.out != nil {
		u.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	out := NewOutputStream[T]()
	u.out = out
	u.mu.Unlock()

	u.registry.Add(u)
	if u.State() == StateTornDown {
		// TearDown ran between creating the stream and registering.
		u.registry.Remove(u.id)
		return out, nil
	}

	u.metrics.Inc(MetricUseCaseStarted)
	u.emit(EventUseCaseStarted, true, nil, nil)
	u.logger.Debug("use case started",
		zap.Bool("one_shot", u.cfg.UseCase.OneShot),
		zap.Bool("auto_login", u.cfg.UseCase.AutoLogin))

	u.authenticate(false)
	return out, nil
}

// Reauthenticate cancels the in-flight auth attempt, if any, and starts a new
// one. It is what a registry broadcast invokes. It does nothing before Start,
// after a OneShot completion, or after TearDown.
func (u *UseCase[A, T]) Reauthenticate() {
	u.authenticate(true)
}

func (u *UseCase[A, T]) authenticate(external bool) {
	u.mu.Lock()
	if u.out == nil || u.state.Terminal() {
		u.mu.Unlock()
		return
	}
	prev := u.authSub
	sub := newSubscription(u.ctx)
	u.authSub = sub
	u.setStateLocked(StateAuthPending)
	u.mu.Unlock()

	prev.Cancel()
	if external {
		u.metrics.Inc(MetricReauthenticate)
	}
	u.metrics.Inc(MetricAuthAttempt)

	started := time.Now()
	var first sync.Once
	u.executor.Go(func() {
		err := u.auth()(sub.ctx, func(outcome AuthOutcome[A]) {
			first.Do(func() { u.metrics.Observe(MetricAuthLatency, time.Since(started)) })
			outcome.Fold(
				func(authErr AuthError) { u.onFailure(sub, authErr) },
				func(credential A) { u.onSuccess(sub, credential) },
			)
		})
		u.finish(sub, err, "auth")
	})
}

func (u *UseCase[A, T]) onFailure(sub *subscription, authErr AuthError) {
	value := u.mapError(authErr)

	u.mu.Lock()
	if !u.currentAuthLocked(sub) {
		u.mu.Unlock()
		return
	}
	u.setStateLocked(StateAuthFailed)
	u.out.Emit(value)
	u.mu.Unlock()

	u.metrics.Inc(MetricAuthFailure)
	u.emit(EventAuthFailure, false, authErr, nil)
	u.logger.Debug("auth attempt failed", zap.Error(authErr))

	if !IsNotAuthenticated(authErr) {
		return
	}
	u.metrics.Inc(MetricNotAuthenticated)
	if u.cfg.UseCase.AutoLogin {
		u.metrics.Inc(MetricLoginNavigation)
		u.emit(EventLoginNavigation, true, nil, nil)
		u.goToLogin()
	}
}

func (u *UseCase[A, T]) onSuccess(sub *subscription, credential A) {
	u.mu.Lock()
	if !u.currentAuthLocked(sub) {
		u.mu.Unlock()
		return
	}
	u.setStateLocked(StateAuthSucceeded)
	prev := u.execSub
	next := newSubscription(u.ctx)
	u.execSub = next
	u.mu.Unlock()

	// Leave the registry before any business work so a concurrent broadcast
	// cannot restart a use case that is about to complete.
	if u.cfg.UseCase.OneShot {
		u.registry.Remove(u.id)
	}
	prev.Cancel()

	u.metrics.Inc(MetricAuthSuccess)
	u.emit(EventAuthSuccess, true, nil, nil)

	u.mu.Lock()
	if u.execSub != next || u.state.Terminal() {
		u.mu.Unlock()
		return
	}
	u.setStateLocked(StateExecuting)
	u.mu.Unlock()

	u.metrics.Inc(MetricExecutionStarted)
	stream := u.execute(credential)
	u.executor.Go(func() {
		err := stream(next.ctx, func(v T) { u.relay(next, v) })
		u.finish(next, err, "business")
	})
}

// relay publishes v unless the business subscription was replaced or the use
// case terminated. In OneShot mode the first relayed value completes the
// output stream; the business subscription itself keeps running until
// TearDown and its later values are dropped.
func (u *UseCase[A, T]) relay(sub *subscription, v T) {
	u.mu.Lock()
	if u.state == StateTornDown || u.execSub != sub || !sub.active() {
		u.mu.Unlock()
		return
	}
	if u.state == StateCompleted {
		u.mu.Unlock()
		u.metrics.Inc(MetricValueDropped)
		u.logger.Debug("value dropped after completion")
		return
	}
	u.out.Emit(v)
	completed := false
	if u.cfg.UseCase.OneShot {
		u.out.Complete()
		u.setStateLocked(StateCompleted)
		completed = true
	}
	u.mu.Unlock()

	u.metrics.Inc(MetricValueRelayed)
	if completed {
		u.logger.Debug("use case completed")
	}
}

// finish forwards a run's transport error unless the run was cancelled.
func (u *UseCase[A, T]) finish(sub *subscription, err error, kind string) {
	if err == nil || !sub.active() {
		return
	}

	u.metrics.Inc(MetricTransportError)
	u.emit(EventTransportError, false, err, map[string]string{"stream": kind})
	u.logger.Warn("stream failed", zap.String("stream", kind), zap.Error(err))
	u.lifecycle.fail(err)
}

// TearDown cancels both subscriptions, deregisters the use case, closes the
// output stream with ErrTornDown (a completed stream stays completed) and
// runs Lifecycle.OnStop. It is idempotent and valid before Start.
func (u *UseCase[A, T]) TearDown() {
	u.mu.Lock()
	if u.state == StateTornDown {
		u.mu.Unlock()
		return
	}
	u.setStateLocked(StateTornDown)
	authSub, execSub := u.authSub, u.execSub
	u.authSub, u.execSub = nil, nil
	out := u.out
	u.mu.Unlock()

	u.cancel()
	authSub.Cancel()
	execSub.Cancel()
	u.registry.Remove(u.id)
	if out != nil {
		out.Close(ErrTornDown)
	}

	u.metrics.Inc(MetricUseCaseTornDown)
	u.emit(EventUseCaseTornDown, true, nil, nil)
	u.logger.Debug("use case torn down")
	u.audit.Close()

	u.lifecycle.stop()
}

// AuditDropped returns how many lifecycle events the dispatcher dropped.
func (u *UseCase[A, T]) AuditDropped() uint64 {
	return u.audit.Dropped()
}

func (u *UseCase[A, T]) currentAuthLocked(sub *subscription) bool {
	return !u.state.Terminal() && u.authSub == sub && sub.active()
}

func (u *UseCase[A, T]) setStateLocked(next State) {
	if u.state == next {
		return
	}
	u.logger.Debug("state transition",
		zap.Stringer("from", u.state),
		zap.Stringer("to", next))
	u.state = next
}

func (u *UseCase[A, T]) emit(eventType string, success bool, err error, metadata map[string]string) {
	if u.audit == nil {
		return
	}
	event := audit.Event{
		Timestamp: time.Now(),
		EventType: eventType,
		UseCaseID: u.id.String(),
		UseCase:   u.cfg.Name,
		State:     u.State().String(),
		Success:   success,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}
	u.audit.Emit(context.Background(), event)
}
