package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/event"
	"tradecore/internal/model"
)

func submitted(id model.OrderID) Envelope {
	return Envelope{Event: event.OrderSubmitted{OrderID: id}, ReceivedAt: time.Now()}
}

func TestQueueOrder(t *testing.T) {
	q := NewQueue(4)
	for _, id := range []model.OrderID{"O-1", "O-2", "O-3"} {
		require.NoError(t, q.TryPublish(submitted(id)))
	}
	assert.Equal(t, 3, q.Len())
	q.Close()

	var got []model.OrderID
	q.Run(context.Background(), func(e Envelope) {
		id, _ := event.OrderIDOf(e.Event)
		got = append(got, id)
	})
	assert.Equal(t, []model.OrderID{"O-1", "O-2", "O-3"}, got)
}

func TestQueueFullAndClosed(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.TryPublish(submitted("O-1")))
	require.ErrorIs(t, q.TryPublish(submitted("O-2")), ErrQueueFull)

	q.Close()
	q.Close()
	require.ErrorIs(t, q.TryPublish(submitted("O-3")), ErrQueueClosed)
}

func TestQueueRunStopsOnContext(t *testing.T) {
	q := NewQueue(0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		q.Run(ctx, func(Envelope) {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestPublishWaitsForRoom(t *testing.T) {
	q := NewQueue(1)
	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, submitted("O-1")))

	published := make(chan error, 1)
	go func() { published <- q.Publish(ctx, submitted("O-2")) }()

	select {
	case err := <-published:
		t.Fatalf("publish on a full queue returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	var got []model.OrderID
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go q.Run(runCtx, func(e Envelope) {
		id, _ := event.OrderIDOf(e.Event)
		got = append(got, id)
		if len(got) == 2 {
			cancel()
		}
	})

	select {
	case err := <-published:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publish did not resume after the consumer made room")
	}
	assert.Eventually(t, func() bool { return runCtx.Err() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []model.OrderID{"O-1", "O-2"}, got)
}

func TestPublishUnblocksOnCloseAndContext(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.Publish(context.Background(), submitted("O-1")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, q.Publish(ctx, submitted("O-2")), context.DeadlineExceeded)

	published := make(chan error, 1)
	go func() { published <- q.Publish(context.Background(), submitted("O-3")) }()
	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-published:
		require.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("publish did not return after close")
	}
	require.ErrorIs(t, q.Publish(context.Background(), submitted("O-4")), ErrQueueClosed)
	assert.Equal(t, 1, q.Len())
}
