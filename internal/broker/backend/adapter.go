package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/yanun0323/logs"
	"golang.org/x/sync/errgroup"

	"tradecore/internal/codec"
	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/journal"
	"tradecore/internal/model"
	"tradecore/internal/obs"
	"tradecore/pkg/exception"
	"tradecore/pkg/uds"
)

const defaultWriteTimeout = 2 * time.Second

// Sink receives every decoded event, on the reader goroutine.
type Sink func(event.Event)

// Config locates the backend socket.
type Config struct {
	Socket       string
	MaxFrameSize int
	WriteTimeout time.Duration
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithJournal records every frame sent and received.
func WithJournal(j *journal.Journal) Option {
	return func(a *Adapter) { a.journal = j }
}

// WithMetrics counts frames that fail to decode.
func WithMetrics(m *obs.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// WithErrorHook receives inbound frames that could not be decoded and
// journal failures. The default logs them.
func WithErrorHook(fn func(error)) Option {
	return func(a *Adapter) { a.onError = fn }
}

// Adapter talks to an out-of-process broker backend over a Unix socket.
// Commands are written as wire frames; event frames are decoded by a reader
// goroutine and handed to the sink.
type Adapter struct {
	client       *uds.Client
	writeTimeout time.Duration
	sink         Sink
	journal      *journal.Journal
	metrics      *obs.Metrics
	onError      func(error)

	mu     sync.Mutex
	conn   *uds.Conn
	cancel context.CancelFunc
	group  *errgroup.Group

	// sendMu keeps journal order equal to wire order for outbound frames.
	sendMu sync.Mutex
}

func NewAdapter(cfg Config, sink Sink, opts ...Option) (*Adapter, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: sink", exception.ErrNilInstance)
	}
	client, err := uds.NewClient(cfg.Socket, cfg.MaxFrameSize)
	if err != nil {
		return nil, err
	}
	a := &Adapter{
		client:       client,
		writeTimeout: cfg.WriteTimeout,
		sink:         sink,
		onError: func(err error) {
			logs.Errorf("backend frame dropped, err: %+v", err)
		},
	}
	if a.writeTimeout <= 0 {
		a.writeTimeout = defaultWriteTimeout
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Connect dials the backend and starts the reader. It is a no-op when
// already connected.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn != nil {
		return nil
	}
	conn, err := a.client.Dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", exception.ErrNotConnected, a.client.Path(), err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		return a.read(groupCtx, conn)
	})

	a.conn = conn
	a.cancel = cancel
	a.group = group
	logs.Infof("backend connected, socket: %s", a.client.Path())
	return nil
}

// Disconnect closes the connection and waits for the reader to stop.
func (a *Adapter) Disconnect(context.Context) error {
	a.mu.Lock()
	conn, cancel, group := a.conn, a.cancel, a.group
	a.conn, a.cancel, a.group = nil, nil, nil
	a.mu.Unlock()

	if conn == nil {
		return nil
	}
	cancel()
	closeErr := conn.Close()
	if err := group.Wait(); err != nil {
		return err
	}
	logs.Infof("backend disconnected, socket: %s", a.client.Path())
	return closeErr
}

// Wait blocks until the reader stops. It returns nil when the reader ended
// because of Disconnect or the backend closing the socket.
func (a *Adapter) Wait() error {
	a.mu.Lock()
	group := a.group
	a.mu.Unlock()
	if group == nil {
		return nil
	}
	return group.Wait()
}

func (a *Adapter) CollateralInquiry(ctx context.Context, cmd command.CollateralInquiry) error {
	return a.send(ctx, cmd)
}

func (a *Adapter) SubmitOrder(ctx context.Context, cmd command.SubmitOrder) error {
	return a.send(ctx, cmd)
}

func (a *Adapter) SubmitAtomicOrder(ctx context.Context, cmd command.SubmitAtomicOrder) error {
	return a.send(ctx, cmd)
}

func (a *Adapter) ModifyOrder(ctx context.Context, cmd command.ModifyOrder) error {
	return a.send(ctx, cmd)
}

func (a *Adapter) CancelOrder(ctx context.Context, cmd command.CancelOrder) error {
	return a.send(ctx, cmd)
}

// CheckResiduals reports the orders still active on the client side; the
// backend reconciles them from its own book.
func (a *Adapter) CheckResiduals(_ context.Context, active []model.Order) error {
	for _, o := range active {
		logs.Infof("residual order, id: %s, symbol: %s, qty: %d", o.ID, o.Symbol, o.Quantity)
	}
	return nil
}

// Reset has no local state to clear; the connection is kept.
func (a *Adapter) Reset() {}

func (a *Adapter) send(ctx context.Context, cmd command.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := codec.EncodeCommand(cmd)
	if err != nil {
		return err
	}

	a.mu.Lock()
	conn := a.conn
	a.mu.Unlock()
	if conn == nil {
		return exception.ErrNotConnected
	}

	a.sendMu.Lock()
	defer a.sendMu.Unlock()

	// Journaled before the write: the reply may be read and journaled as
	// soon as the frame is on the wire.
	a.record(ctx, journal.Outbound, data)

	deadline := time.Now().Add(a.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := conn.WriteFrame(data); err != nil {
		return fmt.Errorf("backend: write %s: %w", command.KindOf(cmd), err)
	}
	return nil
}

func (a *Adapter) read(ctx context.Context, conn *uds.Conn) error {
	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("backend: read: %w", err)
		}
		a.record(ctx, journal.Inbound, frame)

		e, err := codec.DecodeEvent(frame)
		if err != nil {
			a.metrics.IncDecodeError()
			a.fail(err)
			continue
		}
		a.sink(e)
	}
}

func (a *Adapter) record(ctx context.Context, dir journal.Direction, frame []byte) {
	if a.journal == nil {
		return
	}
	if _, err := a.journal.Append(context.WithoutCancel(ctx), dir, frame); err != nil {
		a.fail(err)
	}
}

func (a *Adapter) fail(err error) {
	if a.onError != nil {
		a.onError(err)
	}
}
