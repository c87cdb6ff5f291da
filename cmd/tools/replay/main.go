package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"slices"

	"tradecore/internal/execution"
	"tradecore/internal/journal"
	"tradecore/internal/model"
	"tradecore/internal/obs"
	"tradecore/internal/ops"
	"tradecore/internal/replay"
	"tradecore/pkg/conn"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML or JSON config holding the journal settings")
	driver := flag.String("driver", "sqlite", "Journal driver when no config is given (sqlite, postgres)")
	path := flag.String("path", "journal.db", "SQLite journal file when no config is given")
	dsn := flag.String("dsn", "", "Postgres connection string when no config is given")
	verbose := flag.Bool("orders", false, "Print every order with its final state")
	flag.Parse()

	opt := conn.Option{Driver: conn.Driver(*driver), Path: *path, ConnString: *dsn}
	if *configPath != "" {
		loaded, err := ops.Load(*configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
		if !loaded.Journal.Enabled {
			log.Fatalf("journal is not enabled in %s", *configPath)
		}
		opt = loaded.Journal.Option
	}

	db, err := conn.New(opt)
	if err != nil {
		log.Fatalf("journal open failed: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	j, err := journal.New(db.DB())
	if err != nil {
		log.Fatalf("journal init failed: %v", err)
	}

	metrics := obs.NewMetrics()
	r, err := replay.New(execution.WithMetrics(metrics))
	if err != nil {
		log.Fatalf("replay init failed: %v", err)
	}
	res, err := r.Run(context.Background(), j)
	if err != nil {
		log.Fatalf("replay failed: %v", err)
	}

	c := r.Client()
	snap := metrics.Snapshot()
	fmt.Printf("frames=%d commands=%d events=%d skipped=%d\n", res.Frames, res.Commands, res.Events, res.Skipped)
	fmt.Printf("orders=%d active=%d completed=%d strategies=%d\n",
		len(c.GetOrdersAll()), len(c.GetOrdersActiveAll()), len(c.GetOrdersCompletedAll()), len(c.RegisteredStrategies()))
	fmt.Printf("unknown_orders=%d invalid_transitions=%d command_errors=%d\n",
		snap.UnknownOrders, snap.InvalidTransitions, snap.CommandErrors)

	if !*verbose {
		return
	}
	all := c.GetOrdersAll()
	ids := make([]model.OrderID, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		state, _ := c.GetOrderState(id)
		sid, _ := c.GetStrategyForOrder(id)
		fmt.Printf("%s strategy=%s status=%s filled=%d/%d avg=%s\n",
			id, sid, state.Status, state.Filled, state.Quantity, state.AveragePrice)
	}
}
