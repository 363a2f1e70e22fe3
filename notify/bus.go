package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the Redis channel used when none is configured.
const DefaultChannel = "authcase:auth-changed"

// Reason describes why the global auth state changed.
type Reason string

const (
	ReasonLogin   Reason = "login"
	ReasonLogout  Reason = "logout"
	ReasonRefresh Reason = "refresh"
)

// Event is the payload published on the channel.
type Event struct {
	ID     uuid.UUID `json:"id"`
	Reason Reason    `json:"reason"`
	At     time.Time `json:"at"`
}

// Broadcaster is re-driven on every received event. *registry.Registry
// satisfies it.
type Broadcaster interface {
	Broadcast() int
}

// Publisher announces auth state changes to every listening process.
type Publisher struct {
	client  redis.UniversalClient
	channel string
	now     func() time.Time
}

// NewPublisher returns a Publisher on channel (DefaultChannel when empty).
func NewPublisher(client redis.UniversalClient, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{client: client, channel: channel, now: time.Now}
}

// Publish sends one event and returns it with the number of receivers.
func (p *Publisher) Publish(ctx context.Context, reason Reason) (Event, int64, error) {
	event := Event{ID: uuid.New(), Reason: reason, At: p.now().UTC()}
	payload, err := json.Marshal(event)
	if err != nil {
		return Event{}, 0, err
	}
	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return Event{}, 0, fmt.Errorf("publish auth change: %w", err)
	}
	return event, receivers, nil
}

// Listener turns channel events into registry broadcasts.
type Listener struct {
	client  redis.UniversalClient
	channel string
	target  Broadcaster
	logger  *zap.Logger
	onEvent func(Event, int)

	mu      sync.Mutex
	pubsub  *redis.PubSub
	stopped chan struct{}
}

// ListenerOption customizes a Listener.
type ListenerOption func(*Listener)

// WithChannel overrides DefaultChannel.
func WithChannel(channel string) ListenerOption {
	return func(l *Listener) {
		if channel != "" {
			l.channel = channel
		}
	}
}

// WithLogger sets the listener logger.
func WithLogger(logger *zap.Logger) ListenerOption {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithEventHook runs fn after each broadcast with the event and the number
// of members re-driven.
func WithEventHook(fn func(Event, int)) ListenerOption {
	return func(l *Listener) {
		l.onEvent = fn
	}
}

// NewListener returns a Listener broadcasting to target.
func NewListener(client redis.UniversalClient, target Broadcaster, opts ...ListenerOption) *Listener {
	l := &Listener{
		client:  client,
		channel: DefaultChannel,
		target:  target,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Listen subscribes and waits for Redis to confirm the subscription, then
// relays events on a background goroutine until ctx ends or Close is
// called. Events published after Listen returns are guaranteed to be seen.
func (l *Listener) Listen(ctx context.Context) error {
	if l.target == nil {
		return errors.New("broadcast target required")
	}

	l.mu.Lock()
	if l.pubsub != nil {
		l.mu.Unlock()
		return errors.New("listener already started")
	}
	pubsub := l.client.Subscribe(ctx, l.channel)
	l.pubsub = pubsub
	l.mu.Unlock()

	if _, err := pubsub.Receive(ctx); err != nil {
		_ = l.Close()
		return fmt.Errorf("subscribe %s: %w", l.channel, err)
	}

	messages := pubsub.Channel()
	stopped := make(chan struct{})
	l.mu.Lock()
	l.stopped = stopped
	l.mu.Unlock()
	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				_ = l.Close()
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				l.handle(msg.Payload)
			}
		}
	}()

	l.logger.Debug("auth change listener subscribed", zap.String("channel", l.channel))
	return nil
}

func (l *Listener) handle(payload string) {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		l.logger.Warn("malformed auth change event", zap.Error(err))
		return
	}

	n := l.target.Broadcast()
	l.logger.Debug("auth change relayed",
		zap.String("event_id", event.ID.String()),
		zap.String("reason", string(event.Reason)),
		zap.Int("members", n))
	if l.onEvent != nil {
		l.onEvent(event, n)
	}
}

// Close unsubscribes. It is safe to call more than once.
func (l *Listener) Close() error {
	l.mu.Lock()
	pubsub := l.pubsub
	l.pubsub = nil
	l.mu.Unlock()

	if pubsub == nil {
		return nil
	}
	return pubsub.Close()
}

// Done is closed once the relay goroutine exits. It is nil before Listen.
func (l *Listener) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}
