package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type countingTarget struct {
	calls atomic.Int32
}

func (c *countingTarget) Broadcast() int {
	c.calls.Add(1)
	return 3
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestPublishReachesListener(t *testing.T) {
	_, rdb := newTestRedis(t)
	target := &countingTarget{}
	events := make(chan Event, 4)
	var members atomic.Int32

	l := NewListener(rdb, target, WithEventHook(func(e Event, n int) {
		members.Store(int32(n))
		events <- e
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Listen(ctx))
	defer l.Close()

	published, receivers, err := NewPublisher(rdb, "").Publish(ctx, ReasonLogin)
	require.NoError(t, err)
	require.Equal(t, int64(1), receivers)

	select {
	case got := <-events:
		require.Equal(t, published.ID, got.ID)
		require.Equal(t, ReasonLogin, got.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not receive the event")
	}
	require.Equal(t, int32(1), target.calls.Load())
	require.Equal(t, int32(3), members.Load())
}

func TestListenerIgnoresMalformedPayload(t *testing.T) {
	mr, rdb := newTestRedis(t)
	target := &countingTarget{}
	events := make(chan Event, 4)

	l := NewListener(rdb, target, WithChannel("custom"), WithEventHook(func(e Event, _ int) { events <- e }))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Listen(ctx))
	defer l.Close()

	mr.Publish("custom", "{not json")
	_, _, err := NewPublisher(rdb, "custom").Publish(ctx, ReasonLogout)
	require.NoError(t, err)

	select {
	case got := <-events:
		require.Equal(t, ReasonLogout, got.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not receive the valid event")
	}
	require.Equal(t, int32(1), target.calls.Load())
}

func TestListenerStopsWithContext(t *testing.T) {
	_, rdb := newTestRedis(t)
	l := NewListener(rdb, &countingTarget{})

	require.Nil(t, l.Done())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, l.Listen(ctx))
	cancel()

	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop after cancellation")
	}
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestListenerRejectsMisuse(t *testing.T) {
	_, rdb := newTestRedis(t)

	require.Error(t, NewListener(rdb, nil).Listen(context.Background()))

	l := NewListener(rdb, &countingTarget{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Listen(ctx))
	defer l.Close()
	require.Error(t, l.Listen(ctx))
}

func TestPublishWithoutListenersReportsZero(t *testing.T) {
	_, rdb := newTestRedis(t)

	event, receivers, err := NewPublisher(rdb, "").Publish(context.Background(), ReasonRefresh)
	require.NoError(t, err)
	require.Zero(t, receivers)
	require.Equal(t, ReasonRefresh, event.Reason)
	require.False(t, event.At.IsZero())
}
