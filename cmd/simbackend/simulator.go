package main

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"sync"
	"time"

	"github.com/yanun0323/logs"
	"golang.org/x/sync/errgroup"

	"tradecore/internal/broker/paper"
	"tradecore/internal/codec"
	"tradecore/internal/event"
	"tradecore/internal/model"
	"tradecore/pkg/uds"
)

// simulator answers command frames with paper engine event frames. Fills
// caused by mark moves are sent to every connected session.
type simulator struct {
	engine   *paper.Engine
	registry *model.Registry
	srv      *uds.Server

	mu    sync.Mutex
	conns map[*uds.Conn]struct{}
	marks map[model.Symbol]model.Price
}

func newSimulator(engine *paper.Engine, registry *model.Registry, srv *uds.Server, marks map[model.Symbol]model.Price) *simulator {
	s := &simulator{
		engine:   engine,
		registry: registry,
		srv:      srv,
		conns:    make(map[*uds.Conn]struct{}),
		marks:    make(map[model.Symbol]model.Price, len(marks)),
	}
	for symbol, price := range marks {
		s.marks[symbol] = price
		engine.Mark(symbol, price)
	}
	return s
}

// serve accepts sessions until ctx is done. A positive interval moves every
// mark by one tick and expires orders on each tick.
func (s *simulator) serve(ctx context.Context, interval time.Duration, seed uint64) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			conn, err := s.srv.Accept()
			if err != nil {
				if gctx.Err() != nil {
					return nil
				}
				return err
			}
			s.track(conn)
			g.Go(func() error {
				defer s.untrack(conn)
				return s.session(conn)
			})
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		_ = s.srv.Close()
		s.closeAll()
		return nil
	})

	if interval > 0 {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case now := <-ticker.C:
					s.broadcast(s.walk(rng))
					s.broadcast(s.engine.Expire(now.UTC()))
				}
			}
		})
	}

	return g.Wait()
}

func (s *simulator) session(conn *uds.Conn) error {
	logs.Info("session opened")
	defer logs.Info("session closed")

	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			logs.Errorf("read frame failed, err: %+v", err)
			return nil
		}
		cmd, err := codec.DecodeCommand(frame)
		if err != nil {
			logs.Errorf("drop command frame, err: %+v", err)
			continue
		}
		if err := s.send(conn, s.engine.Process(cmd)); err != nil {
			logs.Errorf("write events failed, err: %+v", err)
			return nil
		}
	}
}

// walk moves each mark up or down one tick and returns the fills it caused.
func (s *simulator) walk(rng *rand.Rand) []event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []event.Event
	for symbol, mark := range s.marks {
		inst, ok := s.registry.Instrument(symbol)
		if !ok {
			continue
		}
		step := inst.TickSize.Value()
		if rng.IntN(2) == 0 {
			step = step.Neg()
		}
		next, err := model.NewPrice(model.DecimalFrom(mark.Value().Add(step), max(int32(inst.TickPrecision), mark.Precision())))
		if err != nil {
			continue
		}
		s.marks[symbol] = next
		out = append(out, s.engine.Mark(symbol, next)...)
	}
	return out
}

func (s *simulator) send(conn *uds.Conn, events []event.Event) error {
	for _, e := range events {
		data, err := codec.EncodeEvent(e)
		if err != nil {
			return err
		}
		if err := conn.WriteFrame(data); err != nil {
			return err
		}
	}
	return nil
}

func (s *simulator) broadcast(events []event.Event) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	conns := make([]*uds.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := s.send(c, events); err != nil {
			logs.Errorf("broadcast failed, err: %+v", err)
		}
	}
}

func (s *simulator) track(conn *uds.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *simulator) untrack(conn *uds.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *simulator) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
	}
}
