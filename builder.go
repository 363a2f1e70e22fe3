package authcase

import (
	"context"

	"github.com/MrEthical07/authcase/internal/audit"
	"github.com/MrEthical07/authcase/registry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Builder assembles a UseCase from its collaborators.
//
// Builder instances are intended to be configured during initialization and then treated as immutable.
type Builder[A, T any] struct {
	config Config
	ctx    context.Context

	auth      func() Stream[AuthOutcome[A]]
	execute   func(A) Stream[T]
	mapError  func(AuthError) T
	goToLogin func()
	lifecycle Lifecycle

	registry  *registry.Registry
	executor  Executor
	logger    *zap.Logger
	metrics   *Metrics
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with DefaultConfig, registry.Default(),
// GoExecutor and a no-op logger.
func New[A, T any]() *Builder[A, T] {
	return &Builder[A, T]{
		config:   DefaultConfig(),
		ctx:      context.Background(),
		registry: registry.Default(),
		executor: GoExecutor{},
		logger:   zap.NewNop(),
	}
}

// WithConfig replaces the configuration.
func (b *Builder[A, T]) WithConfig(cfg Config) *Builder[A, T] {
	b.config = cfg
	return b
}

// WithContext sets the parent of every auth and business run context.
// Cancelling it has the same effect on running streams as TearDown, without
// deregistering.
func (b *Builder[A, T]) WithContext(ctx context.Context) *Builder[A, T] {
	if ctx != nil {
		b.ctx = ctx
	}
	return b
}

// WithAuth sets the auth stream source. It is invoked once per auth attempt
// and must return an independent Stream each time.
func (b *Builder[A, T]) WithAuth(source func() Stream[AuthOutcome[A]]) *Builder[A, T] {
	b.auth = source
	return b
}

// WithExecute sets the business stream builder run with each credential.
func (b *Builder[A, T]) WithExecute(execute func(credential A) Stream[T]) *Builder[A, T] {
	b.execute = execute
	return b
}

// WithErrorMapper sets the pure mapping from an AuthError to the placeholder
// value emitted on the output stream.
func (b *Builder[A, T]) WithErrorMapper(mapError func(AuthError) T) *Builder[A, T] {
	b.mapError = mapError
	return b
}

// WithLoginNavigator sets the fire-and-forget hook run on NotAuthenticated
// when AutoLogin is enabled.
func (b *Builder[A, T]) WithLoginNavigator(goToLogin func()) *Builder[A, T] {
	b.goToLogin = goToLogin
	return b
}

// WithLifecycle sets the error sink and stop hook.
func (b *Builder[A, T]) WithLifecycle(l Lifecycle) *Builder[A, T] {
	b.lifecycle = l
	return b
}

// WithRegistry replaces registry.Default() as the broadcast target.
func (b *Builder[A, T]) WithRegistry(r *registry.Registry) *Builder[A, T] {
	if r != nil {
		b.registry = r
	}
	return b
}

// WithExecutor selects where streams run.
func (b *Builder[A, T]) WithExecutor(e Executor) *Builder[A, T] {
	if e != nil {
		b.executor = e
	}
	return b
}

// WithLogger sets the structured logger.
func (b *Builder[A, T]) WithLogger(logger *zap.Logger) *Builder[A, T] {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithMetrics shares m across use cases. Without it, Build creates a
// Metrics from Config.Metrics.
func (b *Builder[A, T]) WithMetrics(m *Metrics) *Builder[A, T] {
	b.metrics = m
	return b
}

// WithAuditSink sets the lifecycle event sink. Events are only dispatched
// when Config.Audit.Enabled is true.
func (b *Builder[A, T]) WithAuditSink(sink AuditSink) *Builder[A, T] {
	b.auditSink = sink
	return b
}

// Build validates the configuration and collaborators and returns an
// unstarted UseCase. A Builder can build once.
func (b *Builder[A, T]) Build() (*UseCase[A, T], error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.auth == nil {
		return nil, ErrAuthSourceRequired
	}
	if b.execute == nil {
		return nil, ErrExecuteRequired
	}
	if b.mapError == nil {
		return nil, ErrErrorMapperRequired
	}
	if cfg.UseCase.AutoLogin && b.goToLogin == nil {
		return nil, ErrLoginNavigatorRequired
	}

	metrics := b.metrics
	if metrics == nil {
		metrics = NewMetrics(cfg.Metrics)
	}

	id := uuid.New()
	logger := b.logger.With(
		zap.String("usecase", cfg.Name),
		zap.String("usecase_id", id.String()),
	)

	ctx, cancel := context.WithCancel(b.ctx)

	u := &UseCase[A, T]{
		id:        id,
		cfg:       cfg,
		auth:      b.auth,
		execute:   b.execute,
		mapError:  b.mapError,
		goToLogin: b.goToLogin,
		lifecycle: b.lifecycle,
		registry:  b.registry,
		executor:  b.executor,
		logger:    logger,
		metrics:   metrics,
		ctx:       ctx,
		cancel:    cancel,
		state:     StateCreated,
	}
	u.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink, logger)

	b.built = true

	return u, nil
}
