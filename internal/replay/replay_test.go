package replay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/broker/paper"
	"tradecore/internal/clock"
	"tradecore/internal/codec"
	"tradecore/internal/command"
	"tradecore/internal/execution"
	"tradecore/internal/journal"
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
	"tradecore/internal/obs"
	"tradecore/internal/stub"
	"tradecore/pkg/conn"
)

type session struct {
	t       *testing.T
	journal *journal.Journal
	engine  *paper.Engine
	factory *command.Factory
}

func newSession(t *testing.T) *session {
	t.Helper()
	db, err := conn.New(conn.Option{Driver: conn.DriverSQLite, Path: conn.SQLiteMemory})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	j, err := journal.New(db.DB())
	require.NoError(t, err)

	clk := clock.NewStopped(stub.Time0)
	engine := paper.NewEngine(paper.Config{Account: paper.AccountConfig{
		ID:       stub.AccountID,
		Broker:   enum.BrokerFXCM,
		Number:   "D102412895",
		Currency: enum.CurrencyUSD,
		Cash:     model.MustMoney("1000.00"),
	}}, stub.Registry(), clk, &stub.GUIDs{})
	engine.Mark(stub.AUDUSD, model.MustPrice("0.65000"))

	return &session{
		t:       t,
		journal: j,
		engine:  engine,
		factory: command.NewFactory(stub.TraderID, &stub.GUIDs{}, clk),
	}
}

// send journals cmd and, when answered, the events the engine replies with.
func (s *session) send(cmd command.Command, answered bool) {
	ctx := context.Background()
	data, err := codec.EncodeCommand(cmd)
	require.NoError(s.t, err)
	_, err = s.journal.Append(ctx, journal.Outbound, data)
	require.NoError(s.t, err)
	if !answered {
		return
	}
	for _, e := range s.engine.Process(cmd) {
		data, err := codec.EncodeEvent(e)
		require.NoError(s.t, err)
		_, err = s.journal.Append(ctx, journal.Inbound, data)
		require.NoError(s.t, err)
	}
}

func TestReplayRebuildsClient(t *testing.T) {
	s := newSession(t)
	f := s.factory
	s.send(f.SubmitOrder(stub.StrategyID, stub.PositionID, stub.MarketOrder("O-1", enum.OrderSideBuy, 1000)), true)
	s.send(f.SubmitOrder(stub.StrategyID, stub.PositionID, stub.LimitOrder("O-2", enum.OrderSideBuy, 1000, "0.60000")), true)
	s.send(f.CancelOrder(stub.StrategyID, "O-2", "flat"), true)
	s.send(f.SubmitOrder(stub.StrategyID, stub.PositionID, stub.MarketOrder("O-1", enum.OrderSideBuy, 1000)), false)
	s.send(f.CollateralInquiry(), true)

	metrics := obs.NewMetrics()
	r, err := New(execution.WithMetrics(metrics))
	require.NoError(t, err)

	res, err := r.Run(context.Background(), s.journal)
	require.NoError(t, err)
	assert.Equal(t, Result{Frames: 14, Commands: 4, Events: 9, Skipped: 1}, res)

	c := r.Client()
	assert.Equal(t, 9, c.EventCount())
	assert.Equal(t, 4, c.CommandCount())
	assert.Equal(t, []model.StrategyID{stub.StrategyID}, c.RegisteredStrategies())
	assert.Empty(t, c.GetOrdersActiveAll())
	assert.Len(t, c.GetOrdersCompletedAll(), 2)

	o1, ok := c.GetOrderState("O-1")
	require.True(t, ok)
	assert.Equal(t, enum.OrderStatusFilled, o1.Status)
	assert.Equal(t, "0.65000", o1.AveragePrice.String())
	o2, ok := c.GetOrderState("O-2")
	require.True(t, ok)
	assert.Equal(t, enum.OrderStatusCancelled, o2.Status)

	assert.EqualValues(t, 1, metrics.Snapshot().CommandErrors)
}

func TestReplayEmptyAndCanceled(t *testing.T) {
	s := newSession(t)
	r, err := New()
	require.NoError(t, err)

	res, err := r.Run(context.Background(), s.journal)
	require.NoError(t, err)
	assert.Zero(t, res)

	s.send(s.factory.CollateralInquiry(), true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, s.journal)
	assert.ErrorIs(t, err, context.Canceled)
}
