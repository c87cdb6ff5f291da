package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"tradecore/internal/broker/paper"
	"tradecore/internal/clock"
	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/execution"
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
	"tradecore/internal/obs"
	"tradecore/internal/ops"
	"tradecore/internal/strategy"
)

// paper runs a scripted session against the in-process paper broker: per
// marked instrument it places a market buy, a resting limit buy and a stop
// sell, walks the mark down, then cancels whatever is still working.
func main() {
	configPath := flag.String("config", "configs/trader.yaml", "Path to YAML or JSON config")
	ticks := flag.Int("ticks", 5, "Distance in ticks between the mark and the priced orders")
	steps := flag.Int("steps", 10, "Ticks the mark walks down after the orders are placed")
	flag.Parse()

	if *ticks <= 0 || *steps < 0 {
		log.Fatalf("ticks must be > 0 and steps >= 0")
	}

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if len(loaded.Marks) == 0 {
		log.Fatalf("no paper marks configured in %s", *configPath)
	}

	engine := paper.NewEngine(loaded.Paper, loaded.Registry, clock.Live{}, model.RandomGUIDFactory{})
	var client *execution.Client
	adapter := paper.NewAdapter(engine, func(e event.Event) { client.HandleEvent(e) })

	metrics := obs.NewMetrics()
	client, err = execution.NewClient(adapter, execution.WithMetrics(metrics))
	if err != nil {
		log.Fatalf("client init failed: %v", err)
	}

	sid := model.StrategyID("PAPER-01")
	if len(loaded.Strategies) != 0 {
		sid = loaded.Strategies[0]
	}
	logger := strategy.NewLogger(sid)
	if err := client.RegisterStrategy(logger); err != nil {
		log.Fatalf("register strategy failed: %v", err)
	}

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		log.Fatalf("connect failed: %v", err)
	}
	factory := command.NewFactory(loaded.TraderID, model.RandomGUIDFactory{}, clock.Live{})

	symbols := make([]model.Symbol, 0, len(loaded.Marks))
	for symbol, mark := range loaded.Marks {
		symbols = append(symbols, symbol)
		adapter.Mark(symbol, mark)
	}
	slices.SortFunc(symbols, func(a, b model.Symbol) int { return strings.Compare(a.String(), b.String()) })

	var seq int
	nextID := func() model.OrderID {
		seq++
		return model.OrderID(fmt.Sprintf("P-%03d", seq))
	}

	for _, symbol := range symbols {
		inst, _ := loaded.Registry.Instrument(symbol)
		mark := loaded.Marks[symbol]
		qty := max(inst.RoundLotSize, inst.MinTradeSize)
		pid := model.PositionID("P-" + symbol.Code)

		orders := []model.Order{
			{ID: nextID(), Symbol: symbol, Side: enum.OrderSideBuy, Type: enum.OrderTypeMarket, Quantity: qty},
			{ID: nextID(), Symbol: symbol, Side: enum.OrderSideBuy, Type: enum.OrderTypeLimit, Quantity: qty, Price: offset(inst, mark, -*ticks)},
			{ID: nextID(), Symbol: symbol, Side: enum.OrderSideSell, Type: enum.OrderTypeStopMarket, Quantity: qty, Price: offset(inst, mark, -2*(*ticks))},
		}
		for _, o := range orders {
			o.TimeInForce = enum.TimeInForceGTC
			o.Timestamp = clock.Live{}.Now()
			o.InitID = model.NewGUID()
			if err := client.ExecuteCommand(ctx, factory.SubmitOrder(sid, pid, o)); err != nil {
				logs.Errorf("submit %s failed, err: %+v", o.ID, err)
			}
		}

		for i := 1; i <= *steps; i++ {
			adapter.Mark(symbol, offset(inst, mark, -i))
		}
	}

	for id := range client.GetOrdersActiveAll() {
		owner, _ := client.GetStrategyForOrder(id)
		if err := client.ExecuteCommand(ctx, factory.CancelOrder(owner, id, "session end")); err != nil {
			logs.Errorf("cancel %s failed, err: %+v", id, err)
		}
	}
	if err := client.CheckResiduals(ctx); err != nil {
		logs.Errorf("check residuals failed, err: %+v", err)
	}
	_ = client.Disconnect(ctx)

	snap := metrics.Snapshot()
	fmt.Printf("commands=%d events=%d received=%d orders=%d completed=%d invalid_transitions=%d\n",
		client.CommandCount(), client.EventCount(), logger.Received(),
		len(client.GetOrdersAll()), len(client.GetOrdersCompletedAll()), snap.InvalidTransitions)

	all := client.GetOrdersAll()
	ids := make([]model.OrderID, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		state, _ := client.GetOrderState(id)
		o := all[id]
		fmt.Printf("%s %s %s %s status=%s filled=%d/%d avg=%s\n",
			id, o.Symbol, o.Side, o.Type, state.Status, state.Filled, state.Quantity, state.AveragePrice)
	}
}

// offset returns mark moved by n ticks of inst, never below one tick.
func offset(inst model.Instrument, mark model.Price, n int) model.Price {
	step := inst.TickSize.Value()
	v := mark.Value().Add(step.Mul(decimal.NewFromInt(int64(n))))
	if v.LessThan(step) {
		v = step
	}
	p, err := model.NewPrice(model.DecimalFrom(v, max(int32(inst.TickPrecision), mark.Precision())))
	if err != nil {
		return mark
	}
	return p
}
