package main

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/broker/backend"
	"tradecore/internal/broker/paper"
	"tradecore/internal/clock"
	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/execution"
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
	"tradecore/internal/strategy"
	"tradecore/internal/stub"
	"tradecore/pkg/uds"
)

func newEngine() *paper.Engine {
	cfg := paper.Config{Account: paper.AccountConfig{
		ID:       stub.AccountID,
		Broker:   enum.BrokerFXCM,
		Number:   "D102412895",
		Currency: enum.CurrencyUSD,
		Cash:     model.MustMoney("1000.00"),
	}}
	return paper.NewEngine(cfg, stub.Registry(), clock.NewStopped(stub.Time0), &stub.GUIDs{})
}

func marks() map[model.Symbol]model.Price {
	return map[model.Symbol]model.Price{stub.AUDUSD: model.MustPrice("0.65000")}
}

func statusOf(c *execution.Client, id model.OrderID) enum.OrderStatus {
	s, _ := c.GetOrderState(id)
	return s.Status
}

func TestSimulatorEndToEnd(t *testing.T) {
	dir, err := os.MkdirTemp("", "sim")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	path := filepath.Join(dir, "sim.sock")

	srv, err := uds.NewServer(path, 0)
	require.NoError(t, err)
	require.NoError(t, srv.Listen())

	sim := newSimulator(newEngine(), stub.Registry(), srv, marks())
	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- sim.serve(ctx, 0, 1) }()

	var client *execution.Client
	adapter, err := backend.NewAdapter(backend.Config{Socket: path}, func(e event.Event) {
		client.HandleEvent(e)
	})
	require.NoError(t, err)
	client, err = execution.NewClient(adapter)
	require.NoError(t, err)
	logger := strategy.NewLogger(stub.StrategyID)
	require.NoError(t, client.RegisterStrategy(logger))
	require.NoError(t, client.Connect(ctx))

	f := command.NewFactory(stub.TraderID, &stub.GUIDs{}, clock.NewStopped(stub.Time0))
	require.NoError(t, client.ExecuteCommand(ctx, f.SubmitOrder(stub.StrategyID, stub.PositionID,
		stub.MarketOrder("O-1", enum.OrderSideBuy, 1000))))
	require.NoError(t, client.ExecuteCommand(ctx, f.SubmitOrder(stub.StrategyID, stub.PositionID,
		stub.LimitOrder("O-2", enum.OrderSideBuy, 1000, "0.60000"))))

	assert.Eventually(t, func() bool {
		return statusOf(client, "O-1") == enum.OrderStatusFilled &&
			statusOf(client, "O-2") == enum.OrderStatusWorking
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, client.OrderComplete("O-1"))
	assert.True(t, client.OrderActive("O-2"))

	require.NoError(t, client.ExecuteCommand(ctx, f.CancelOrder(stub.StrategyID, "O-2", "flat")))
	assert.Eventually(t, func() bool {
		return statusOf(client, "O-2") == enum.OrderStatusCancelled
	}, 2*time.Second, 5*time.Millisecond)

	// O-1: submitted, accepted, working, filled. O-2: submitted, accepted,
	// working, cancelled.
	assert.Eventually(t, func() bool { return logger.Received() == 8 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 8, client.EventCount())

	require.NoError(t, client.Disconnect(ctx))
	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestWalkMovesOneTick(t *testing.T) {
	sim := newSimulator(newEngine(), stub.Registry(), nil, marks())
	rng := rand.New(rand.NewPCG(7, 11))
	tick := stub.Instrument().TickSize.Value()

	prev := sim.marks[stub.AUDUSD]
	for range 50 {
		sim.walk(rng)
		next := sim.marks[stub.AUDUSD]
		assert.True(t, next.Value().Sub(prev.Value()).Abs().Equal(tick), "%s -> %s", prev, next)
		assert.EqualValues(t, 5, next.Precision())
		prev = next
	}
}
