package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"tradecore/internal/broker/backend"
	"tradecore/internal/bus"
	"tradecore/internal/clock"
	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/execution"
	"tradecore/internal/journal"
	"tradecore/internal/model"
	"tradecore/internal/obs"
	"tradecore/internal/ops"
	"tradecore/internal/strategy"
	"tradecore/pkg/conn"
)

const slowQueueThreshold = 50 * time.Millisecond

func main() {
	configPath := flag.String("config", "configs/trader.yaml", "Path to YAML or JSON config")
	socket := flag.String("socket", "", "Backend socket path (overrides config)")
	inquiry := flag.Bool("collateral-inquiry", true, "Send a collateral inquiry after connecting")
	statsInterval := flag.Duration("stats-interval", 30*time.Second, "Metrics log interval (0=disable)")
	flag.Parse()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *socket != "" {
		loaded.Backend.Socket = *socket
	}

	if loaded.Profiling.Enabled {
		profiler, err := startProfiler(loaded.Profiling)
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	if err := run(loaded, *inquiry, *statsInterval); err != nil {
		log.Fatalf("trader failed: %v", err)
	}
}

func run(loaded ops.Loaded, inquiry bool, statsInterval time.Duration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.Live{}
	metrics := obs.NewMetrics()
	queue := bus.NewQueue(loaded.QueueCapacity)

	opts := []backend.Option{backend.WithMetrics(metrics)}
	if loaded.Journal.Enabled {
		db, err := conn.New(loaded.Journal.Option)
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()
		j, err := journal.New(db.DB())
		if err != nil {
			return err
		}
		opts = append(opts, backend.WithJournal(j))
		logs.Infof("journal enabled, driver: %s", db.Driver())
	}

	adapter, err := backend.NewAdapter(loaded.Backend, func(e event.Event) {
		publish(ctx, queue, metrics, bus.Envelope{Event: e, ReceivedAt: clk.Now()})
	}, opts...)
	if err != nil {
		return err
	}

	client, err := execution.NewClient(adapter,
		execution.WithMetrics(metrics),
		execution.WithClock(clk),
		execution.WithAccount(accountLog{}),
	)
	if err != nil {
		return err
	}
	for _, id := range loaded.Strategies {
		if err := client.RegisterStrategy(strategy.NewLogger(id)); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		queue.Run(ctx, func(env bus.Envelope) {
			if lag := clk.Now().Sub(env.ReceivedAt); lag > slowQueueThreshold {
				logs.Infof("slow event queue, lag: %s, depth: %d", lag, queue.Len())
			}
			client.HandleEventAt(env.Event, env.ReceivedAt)
		})
	}()

	if err := client.Connect(ctx); err != nil {
		return err
	}
	logs.Infof("trader started, trader: %s, strategies: %v", loaded.TraderID, client.RegisteredStrategies())

	if inquiry {
		factory := command.NewFactory(loaded.TraderID, model.RandomGUIDFactory{}, clk)
		if err := client.ExecuteCommand(ctx, factory.CollateralInquiry()); err != nil {
			logs.Errorf("collateral inquiry failed, err: %+v", err)
		}
	}
	if err := client.CheckResiduals(ctx); err != nil {
		logs.Errorf("check residuals failed, err: %+v", err)
	}

	var tick <-chan time.Time
	if statsInterval > 0 {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	readerDone := make(chan error, 1)
	go func() { readerDone <- adapter.Wait() }()

loop:
	for {
		select {
		case <-sys.Shutdown():
			logs.Info("shutdown signal received")
			break loop
		case err := <-readerDone:
			if err != nil {
				logs.Errorf("backend reader stopped, err: %+v", err)
			} else {
				logs.Info("backend closed the connection")
			}
			break loop
		case <-tick:
			logStats(client, metrics)
		}
	}

	if err := client.Disconnect(context.WithoutCancel(ctx)); err != nil {
		logs.Errorf("disconnect failed, err: %+v", err)
	}
	queue.Close()
	<-done
	logStats(client, metrics)
	return nil
}

// publish hands a broker event to the client queue. A full queue holds the
// backend reader back instead of losing the event.
func publish(ctx context.Context, queue *bus.Queue, metrics *obs.Metrics, env bus.Envelope) {
	err := queue.TryPublish(env)
	if errors.Is(err, bus.ErrQueueFull) {
		metrics.IncQueueStall()
		logs.Infof("event queue full, wait for %s %s, depth: %d", event.KindOf(env.Event), env.Event.Meta().ID, queue.Len())
		err = queue.Publish(ctx, env)
	}
	if err != nil {
		metrics.IncQueueClosed()
		logs.Errorf("event %s %s not queued, err: %+v", event.KindOf(env.Event), env.Event.Meta().ID, err)
	}
}

func logStats(client *execution.Client, metrics *obs.Metrics) {
	snap := metrics.Snapshot()
	logs.Infof("orders: %d, active: %d, events: %d, commands: %d, unknown: %d, invalid: %d, decode errors: %d, stalls: %d, event latency avg: %s",
		len(client.GetOrdersAll()),
		len(client.GetOrdersActiveAll()),
		client.EventCount(),
		client.CommandCount(),
		snap.UnknownOrders,
		snap.InvalidTransitions,
		snap.DecodeErrors,
		snap.QueueStalls,
		snap.EventLatency.Avg,
	)
}

type accountLog struct{}

func (accountLog) Apply(e event.AccountEvent) {
	logs.Infof("account: %s, broker: %s, cash: %s %s, margin used: %s, margin call: %s",
		e.AccountID, e.Broker, e.CashBalance, e.Currency, e.MarginUsedMaintenance, e.MarginCallStatus)
}

func startProfiler(cfg ops.ProfilingConfig) (*pyroscope.Profiler, error) {
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.Application,
		ServerAddress:   cfg.ServerAddress,
		Tags:            cfg.Tags,
		Logger:          profilerLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}

type profilerLogger struct{}

func (profilerLogger) Infof(format string, args ...any)  { logs.Infof(format, args...) }
func (profilerLogger) Debugf(string, ...any)             {}
func (profilerLogger) Errorf(format string, args ...any) { logs.Errorf(format, args...) }
