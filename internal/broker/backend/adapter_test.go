package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/clock"
	"tradecore/internal/codec"
	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/journal"
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
	"tradecore/internal/obs"
	"tradecore/internal/stub"
	"tradecore/pkg/conn"
	"tradecore/pkg/exception"
	"tradecore/pkg/uds"
)

const waitTimeout = 2 * time.Second

type backendFixture struct {
	path  string
	srv   *uds.Server
	conns chan *uds.Conn
}

func startBackend(t *testing.T) *backendFixture {
	t.Helper()
	dir, err := os.MkdirTemp("", "backend")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	path := filepath.Join(dir, "b.sock")
	srv, err := uds.NewServer(path, 0)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())
	t.Cleanup(func() { _ = srv.Close() })

	f := &backendFixture{path: path, srv: srv, conns: make(chan *uds.Conn, 1)}
	go func() {
		c, err := srv.Accept()
		if err != nil {
			return
		}
		f.conns <- c
	}()
	return f
}

func (f *backendFixture) accept(t *testing.T) *uds.Conn {
	t.Helper()
	select {
	case c := <-f.conns:
		t.Cleanup(func() { _ = c.Close() })
		return c
	case <-time.After(waitTimeout):
		t.Fatal("backend did not accept")
		return nil
	}
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting")
		var zero T
		return zero
	}
}

func submitted(n uint64) event.OrderSubmitted {
	return event.OrderSubmitted{
		Header:        event.Header{ID: stub.GUID(n), Timestamp: stub.Time0},
		OrderID:       "O-1",
		SubmittedTime: stub.Time0,
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := startBackend(t)

	db, err := conn.New(conn.Option{Driver: conn.DriverSQLite, Path: conn.SQLiteMemory})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	j, err := journal.New(db.DB())
	require.NoError(t, err)

	events := make(chan event.Event, 8)
	errs := make(chan error, 8)
	metrics := obs.NewMetrics()
	a, err := NewAdapter(Config{Socket: backend.path}, func(e event.Event) { events <- e },
		WithJournal(j),
		WithMetrics(metrics),
		WithErrorHook(func(err error) { errs <- err }),
	)
	require.NoError(t, err)

	require.NoError(t, a.Connect(ctx))
	require.NoError(t, a.Connect(ctx))
	s := backend.accept(t)

	f := command.NewFactory(stub.TraderID, &stub.GUIDs{}, clock.NewStopped(stub.Time0))
	cmd := f.SubmitOrder(stub.StrategyID, stub.PositionID, stub.MarketOrder("O-1", enum.OrderSideBuy, 1000))
	require.NoError(t, a.SubmitOrder(ctx, cmd))

	frame, err := s.ReadFrame()
	require.NoError(t, err)
	got, err := codec.DecodeCommand(frame)
	require.NoError(t, err)
	assert.Equal(t, cmd, got)

	ev, err := codec.EncodeEvent(submitted(10))
	require.NoError(t, err)
	require.NoError(t, s.WriteFrame(ev))
	assert.Equal(t, event.Event(submitted(10)), receive(t, events))

	// garbage is dropped without reaching the sink
	require.NoError(t, s.WriteFrame([]byte{0xc1}))
	ev, err = codec.EncodeEvent(submitted(11))
	require.NoError(t, err)
	require.NoError(t, s.WriteFrame(ev))
	assert.Equal(t, event.Event(submitted(11)), receive(t, events))

	assert.ErrorIs(t, receive(t, errs), exception.ErrJournalInvalidRecord)
	assert.ErrorIs(t, receive(t, errs), exception.ErrCodecMalformed)
	assert.EqualValues(t, 1, metrics.Snapshot().DecodeErrors)

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, a.Disconnect(ctx))
	require.NoError(t, a.Disconnect(ctx))
	assert.ErrorIs(t, a.SubmitOrder(ctx, cmd), exception.ErrNotConnected)
}

func TestAdapterBackendClose(t *testing.T) {
	ctx := context.Background()
	backend := startBackend(t)

	a, err := NewAdapter(Config{Socket: backend.path}, func(event.Event) {})
	require.NoError(t, err)
	require.NoError(t, a.Connect(ctx))
	s := backend.accept(t)

	require.NoError(t, s.Close())
	done := make(chan error, 1)
	go func() { done <- a.Wait() }()
	assert.NoError(t, receive(t, done))
	assert.NoError(t, a.Disconnect(ctx))
}

func TestAdapterErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewAdapter(Config{Socket: "x.sock"}, nil)
	assert.ErrorIs(t, err, exception.ErrNilInstance)

	_, err = NewAdapter(Config{}, func(event.Event) {})
	assert.ErrorIs(t, err, exception.ErrEmptyPathUDS)

	dir, err := os.MkdirTemp("", "backend")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	a, err := NewAdapter(Config{Socket: filepath.Join(dir, "none.sock")}, func(event.Event) {})
	require.NoError(t, err)
	assert.ErrorIs(t, a.Connect(ctx), exception.ErrNotConnected)

	f := command.NewFactory(stub.TraderID, &stub.GUIDs{}, clock.NewStopped(stub.Time0))
	assert.ErrorIs(t, a.CollateralInquiry(ctx, f.CollateralInquiry()), exception.ErrNotConnected)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, a.CollateralInquiry(canceled, f.CollateralInquiry()), context.Canceled)
	assert.NoError(t, a.Wait())
}

func TestAdapterJournalsCommandBeforeReply(t *testing.T) {
	ctx := context.Background()
	backend := startBackend(t)

	db, err := conn.New(conn.Option{Driver: conn.DriverSQLite, Path: conn.SQLiteMemory})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	j, err := journal.New(db.DB())
	require.NoError(t, err)

	const rounds = 50
	events := make(chan event.Event, rounds)
	a, err := NewAdapter(Config{Socket: backend.path}, func(e event.Event) { events <- e }, WithJournal(j))
	require.NoError(t, err)
	require.NoError(t, a.Connect(ctx))
	t.Cleanup(func() { _ = a.Disconnect(ctx) })
	s := backend.accept(t)

	// echo backend: answer every submit at once
	go func() {
		for n := uint64(1); ; n++ {
			frame, err := s.ReadFrame()
			if err != nil {
				return
			}
			cmd, err := codec.DecodeCommand(frame)
			if err != nil {
				return
			}
			reply := submitted(1000 + n)
			reply.OrderID = cmd.(command.SubmitOrder).Order.ID
			data, err := codec.EncodeEvent(reply)
			if err != nil || s.WriteFrame(data) != nil {
				return
			}
		}
	}()

	f := command.NewFactory(stub.TraderID, &stub.GUIDs{}, clock.NewStopped(stub.Time0))
	for i := range rounds {
		id := model.OrderID(fmt.Sprintf("O-%d", i))
		require.NoError(t, a.SubmitOrder(ctx, f.SubmitOrder(stub.StrategyID, stub.PositionID, stub.MarketOrder(id, enum.OrderSideBuy, 1000))))
	}
	for range rounds {
		receive(t, events)
	}

	sent := make(map[model.OrderID]bool)
	var inbound int
	require.NoError(t, j.Replay(ctx, func(fr journal.Frame) error {
		switch fr.Direction {
		case journal.Outbound:
			cmd, err := codec.DecodeCommand(fr.Payload)
			require.NoError(t, err)
			sent[cmd.(command.SubmitOrder).Order.ID] = true
		case journal.Inbound:
			e, err := codec.DecodeEvent(fr.Payload)
			require.NoError(t, err)
			id, _ := event.OrderIDOf(e)
			assert.True(t, sent[id], "reply for %s journaled before its command", id)
			inbound++
		}
		return nil
	}))
	assert.Len(t, sent, rounds)
	assert.Equal(t, rounds, inbound)
}
