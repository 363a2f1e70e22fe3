package registry

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Member is a live use case that can be asked to authenticate again.
type Member interface {
	ID() uuid.UUID
	Reauthenticate()
}

// Registry is a concurrency-safe set of live members keyed by identity.
//
// Broadcast copies the membership before invoking any member, so members may
// add or remove themselves (or others) from inside Reauthenticate without
// disturbing the iteration in progress.
type Registry struct {
	mu      sync.RWMutex
	members map[uuid.UUID]Member
	logger  *zap.Logger
}

var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Option customizes a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for broadcast diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		members: make(map[uuid.UUID]Member),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Add inserts m. Adding a present member is a no-op.
func (r *Registry) Add(m Member) {
	if m == nil {
		return
	}
	r.mu.Lock()
	r.members[m.ID()] = m
	r.mu.Unlock()
}

// Remove deletes the member with id. Removing an absent member is a no-op.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.members, id)
	r.mu.Unlock()
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

// Len returns the number of registered members.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Snapshot returns the current members.
func (r *Registry) Snapshot() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out
}

// Broadcast calls Reauthenticate exactly once on every member present when
// it was called and returns how many members were invoked. Members added
// during the broadcast are not invoked; members removed during it are still
// invoked if they were captured in the snapshot.
func (r *Registry) Broadcast() int {
	members := r.Snapshot()
	for _, m := range members {
		m.Reauthenticate()
	}
	r.logger.Debug("auth change broadcast", zap.Int("members", len(members)))
	return len(members)
}
