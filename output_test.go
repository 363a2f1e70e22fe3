package authcase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestOutputStreamReplaysToLateObserver(t *testing.T) {
	s := NewOutputStream[int]()
	s.Emit(1)
	s.Emit(2)
	s.Complete()

	var got []int
	if err := s.Each(context.Background(), func(v int) bool {
		got = append(got, v)
		return true
	}); err != nil {
		t.Fatalf("Each returned %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected replay %v", got)
	}
}

func TestOutputStreamRejectsValuesAfterTermination(t *testing.T) {
	s := NewOutputStream[string]()
	if !s.Emit("a") {
		t.Fatal("expected emit on open stream")
	}
	if !s.Complete() {
		t.Fatal("expected first Complete to terminate")
	}
	if s.Emit("b") {
		t.Fatal("expected emit after completion to be rejected")
	}
	if s.Close(errors.New("late")) {
		t.Fatal("expected Close after Complete to be rejected")
	}
	if !s.Completed() || s.Err() != nil {
		t.Fatalf("expected completed without error, got completed=%v err=%v", s.Completed(), s.Err())
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 value, got %d", s.Len())
	}
}

func TestOutputStreamCloseReportsError(t *testing.T) {
	s := NewOutputStream[int]()
	boom := errors.New("boom")
	s.Emit(7)
	s.Close(boom)

	select {
	case <-s.Done():
	default:
		t.Fatal("expected Done to be closed")
	}

	var got []int
	err := s.Each(context.Background(), func(v int) bool {
		got = append(got, v)
		return true
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("unexpected values %v", got)
	}
	if s.Completed() {
		t.Fatal("closed stream must not report completed")
	}
}

func TestOutputStreamEachFollowsLiveValues(t *testing.T) {
	s := NewOutputStream[int]()

	var mu sync.Mutex
	var got []int
	done := make(chan error, 1)
	go func() {
		done <- s.Each(context.Background(), func(v int) bool {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
			return true
		})
	}()

	for i := 0; i < 5; i++ {
		s.Emit(i)
	}
	s.Complete()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Each returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Each did not return after completion")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 5 {
		t.Fatalf("expected 5 values, got %v", got)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("value %d out of order: %v", i, got)
		}
	}
}

func TestOutputStreamEachStops(t *testing.T) {
	s := NewOutputStream[int]()
	s.Emit(1)
	s.Emit(2)

	calls := 0
	if err := s.Each(context.Background(), func(int) bool {
		calls++
		return false
	}); err != nil {
		t.Fatalf("expected nil when fn stops, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Each(ctx, func(int) bool { return true }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOutputStreamSubscribe(t *testing.T) {
	s := NewOutputStream[string]()
	s.Emit("a")

	ch := s.Subscribe(context.Background())
	s.Emit("b")
	s.Complete()

	var got []string
	for v := range ch {
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected subscription values %v", got)
	}
}

func TestOutputStreamConcurrentObserversSeeSameSequence(t *testing.T) {
	s := NewOutputStream[int]()
	const observers = 8
	const values = 200

	results := make([][]int, observers)
	var wg sync.WaitGroup
	wg.Add(observers)
	for i := 0; i < observers; i++ {
		go func(i int) {
			defer wg.Done()
			_ = s.Each(context.Background(), func(v int) bool {
				results[i] = append(results[i], v)
				return true
			})
		}(i)
	}

	for v := 0; v < values; v++ {
		s.Emit(v)
	}
	s.Complete()
	wg.Wait()

	for i, r := range results {
		if len(r) != values {
			t.Fatalf("observer %d saw %d values", i, len(r))
		}
		for j, v := range r {
			if v != j {
				t.Fatalf("observer %d saw out of order value at %d", i, j)
			}
		}
	}
}
