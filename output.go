package authcase

import (
	"context"
	"sync"
)

// OutputStream is a multicast stream that replays every value it has received
// to each observer, including observers that attach late.
//
// An OutputStream terminates at most once, either completed (Complete) or
// closed with an error (Close). Values offered after termination are
// rejected. All observers see the same sequence and the same terminal state.
type OutputStream[T any] struct {
	mu         sync.Mutex
	values     []T
	terminated bool
	completed  bool
	err        error
	changed    chan struct{}
	done       chan struct{}
}

// NewOutputStream returns an open, empty OutputStream.
func NewOutputStream[T any]() *OutputStream[T] {
	return &OutputStream[T]{
		changed: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Emit appends v and wakes observers. It returns false without recording v
// when the stream has already terminated.
func (s *OutputStream[T]) Emit(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return false
	}
	s.values = append(s.values, v)
	s.broadcastLocked()
	return true
}

// Complete terminates the stream successfully. It returns false if the
// stream was already terminated.
func (s *OutputStream[T]) Complete() bool {
	return s.terminate(nil, true)
}

// Close terminates the stream with err. It returns false if the stream was
// already terminated.
func (s *OutputStream[T]) Close(err error) bool {
	return s.terminate(err, false)
}

func (s *OutputStream[T]) terminate(err error, completed bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return false
	}
	s.terminated = true
	s.completed = completed
	s.err = err
	close(s.done)
	s.broadcastLocked()
	return true
}

func (s *OutputStream[T]) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// Values returns a copy of every value emitted so far.
func (s *OutputStream[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of values emitted so far.
func (s *OutputStream[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// Done is closed once the stream terminates.
func (s *OutputStream[T]) Done() <-chan struct{} {
	return s.done
}

// Completed reports whether the stream terminated through Complete.
func (s *OutputStream[T]) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Terminated reports whether the stream accepts no further values.
func (s *OutputStream[T]) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

// Err returns the error the stream was closed with, or nil.
func (s *OutputStream[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Each replays every value to fn, then follows live values until the stream
// terminates, ctx ends, or fn returns false.
//
// It returns nil after completion or when fn stops the iteration, the close
// error after Close, and ctx.Err() when ctx ends first.
func (s *OutputStream[T]) Each(ctx context.Context, fn func(T) bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	next := 0
	for {
		s.mu.Lock()
		if next < len(s.values) {
			v := s.values[next]
			s.mu.Unlock()
			next++
			if !fn(v) {
				return nil
			}
			continue
		}
		if s.terminated {
			err := s.err
			s.mu.Unlock()
			return err
		}
		wait := s.changed
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
		}
	}
}

// Subscribe returns a channel carrying the replayed and live values. The
// channel is closed when the stream terminates or ctx ends.
func (s *OutputStream[T]) Subscribe(ctx context.Context) <-chan T {
	if ctx == nil {
		ctx = context.Background()
	}

	ch := make(chan T)
	go func() {
		defer close(ch)
		_ = s.Each(ctx, func(v T) bool {
			select {
			case ch <- v:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()
	return ch
}
