package paper

import (
	"context"
	"sync/atomic"

	"github.com/yanun0323/logs"

	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/model"
	"tradecore/pkg/exception"
)

// Sink receives the events the adapter produces.
type Sink func(event.Event)

// Adapter is an in-process execution adapter over an Engine. Events are
// delivered to the sink synchronously, before the command call returns.
type Adapter struct {
	engine    *Engine
	sink      Sink
	connected atomic.Bool
}

func NewAdapter(engine *Engine, sink Sink) *Adapter {
	return &Adapter{engine: engine, sink: sink}
}

func (a *Adapter) Engine() *Engine {
	return a.engine
}

func (a *Adapter) Connect(context.Context) error {
	a.connected.Store(true)
	return nil
}

func (a *Adapter) Disconnect(context.Context) error {
	a.connected.Store(false)
	return nil
}

func (a *Adapter) CollateralInquiry(ctx context.Context, cmd command.CollateralInquiry) error {
	return a.process(ctx, cmd)
}

func (a *Adapter) SubmitOrder(ctx context.Context, cmd command.SubmitOrder) error {
	return a.process(ctx, cmd)
}

func (a *Adapter) SubmitAtomicOrder(ctx context.Context, cmd command.SubmitAtomicOrder) error {
	return a.process(ctx, cmd)
}

func (a *Adapter) ModifyOrder(ctx context.Context, cmd command.ModifyOrder) error {
	return a.process(ctx, cmd)
}

func (a *Adapter) CancelOrder(ctx context.Context, cmd command.CancelOrder) error {
	return a.process(ctx, cmd)
}

// CheckResiduals logs active client orders the engine no longer works.
func (a *Adapter) CheckResiduals(_ context.Context, active []model.Order) error {
	resting := make(map[model.OrderID]struct{})
	for _, id := range a.engine.Resting() {
		resting[id] = struct{}{}
	}
	for _, o := range active {
		if _, ok := resting[o.ID]; !ok {
			logs.Infof("residual order not working at paper broker: %s", o.ID)
		}
	}
	return nil
}

func (a *Adapter) Reset() {
	a.engine.Reset()
}

// Mark moves the market and delivers the resulting fills.
func (a *Adapter) Mark(symbol model.Symbol, price model.Price) {
	a.deliver(a.engine.Mark(symbol, price))
}

func (a *Adapter) process(ctx context.Context, cmd command.Command) error {
	if !a.connected.Load() {
		return exception.ErrNotConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	a.deliver(a.engine.Process(cmd))
	return nil
}

func (a *Adapter) deliver(events []event.Event) {
	if a.sink == nil {
		return
	}
	for _, e := range events {
		a.sink(e)
	}
}
