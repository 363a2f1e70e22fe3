package authcase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/authcase/registry"
)

const (
	testTimeout = 2 * time.Second
	testTick    = time.Millisecond
)

func testRegistry() *registry.Registry {
	return registry.New()
}

// handle is one run of a manualStream. Its emit stays usable after the run
// function returned, so tests can deliver values at any point and observe
// how the use case treats stale runs.
type handle[T any] struct {
	ctx  context.Context
	emit func(T)
}

func (h *handle[T]) cancelled() bool {
	return h.ctx.Err() != nil
}

// manualStream records every run and lets the test drive emissions.
type manualStream[T any] struct {
	mu   sync.Mutex
	runs []*handle[T]
	err  error
}

func (m *manualStream[T]) stream() Stream[T] {
	return func(ctx context.Context, emit func(T)) error {
		m.mu.Lock()
		m.runs = append(m.runs, &handle[T]{ctx: ctx, emit: emit})
		err := m.err
		m.mu.Unlock()
		return err
	}
}

func (m *manualStream[T]) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}

func (m *manualStream[T]) run(t *testing.T, i int) *handle[T] {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if i >= len(m.runs) {
		t.Fatalf("run %d not started, have %d", i, len(m.runs))
	}
	return m.runs[i]
}

func (m *manualStream[T]) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.runs {
		if !r.cancelled() {
			n++
		}
	}
	return n
}

// blockingStream runs until cancelled and relays values pushed by the test.
// push returns once the value has been handed to emit.
type blockingStream[T any] struct {
	mu   sync.Mutex
	runs []*blockingRun[T]
}

type blockingRun[T any] struct {
	ctx context.Context
	in  chan T
	ack chan struct{}
}

func (b *blockingStream[T]) stream() Stream[T] {
	return func(ctx context.Context, emit func(T)) error {
		r := &blockingRun[T]{ctx: ctx, in: make(chan T), ack: make(chan struct{})}
		b.mu.Lock()
		b.runs = append(b.runs, r)
		b.mu.Unlock()
		for {
			select {
			case <-ctx.Done():
				return nil
			case v := <-r.in:
				emit(v)
				r.ack <- struct{}{}
			}
		}
	}
}

func (b *blockingStream[T]) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.runs)
}

func (b *blockingStream[T]) get(i int) *blockingRun[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i >= len(b.runs) {
		return nil
	}
	return b.runs[i]
}

func (b *blockingStream[T]) push(t *testing.T, i int, v T) {
	t.Helper()
	r := b.get(i)
	if r == nil {
		t.Fatalf("run %d not started", i)
	}
	select {
	case r.in <- v:
	case <-time.After(2 * time.Second):
		t.Fatalf("run %d did not accept value", i)
	}
	<-r.ack
}
