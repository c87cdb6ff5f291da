package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"tradecore/internal/broker/paper"
	"tradecore/internal/clock"
	"tradecore/internal/model"
	"tradecore/internal/ops"
	"tradecore/pkg/uds"
)

func main() {
	configPath := flag.String("config", "configs/trader.yaml", "Path to YAML or JSON config")
	socket := flag.String("socket", "", "Socket path to listen on (overrides config)")
	markInterval := flag.Duration("mark-interval", time.Second, "Mark random walk interval (0=static marks)")
	seed := flag.Uint64("seed", 1, "Random walk seed")
	flag.Parse()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *socket != "" {
		loaded.Backend.Socket = *socket
	}

	srv, err := uds.NewServer(loaded.Backend.Socket, loaded.Backend.MaxFrameSize)
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}
	if err := srv.Listen(); err != nil {
		log.Fatalf("listen failed: %v", err)
	}

	engine := paper.NewEngine(loaded.Paper, loaded.Registry, clock.Live{}, model.RandomGUIDFactory{})
	sim := newSimulator(engine, loaded.Registry, srv, loaded.Marks)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sys.Shutdown()
		logs.Info("shutdown signal received")
		cancel()
	}()

	logs.Infof("simulated backend listening, socket: %s, instruments: %d", srv.Path(), loaded.Registry.InstrumentCount())
	if err := sim.serve(ctx, *markInterval, *seed); err != nil {
		log.Fatalf("simulated backend failed: %v", err)
	}
}
