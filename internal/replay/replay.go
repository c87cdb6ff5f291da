// Package replay rebuilds execution client state from a frame journal.
// Outbound command frames are re-executed against an adapter that sends
// nothing; inbound event frames are applied as they were received.
package replay

import (
	"context"
	"fmt"

	"github.com/yanun0323/logs"

	"tradecore/internal/codec"
	"tradecore/internal/command"
	"tradecore/internal/execution"
	"tradecore/internal/journal"
	"tradecore/internal/model"
	"tradecore/internal/strategy"
)

// Result counts what a replay did with the journaled frames.
type Result struct {
	Frames   int
	Commands int
	Events   int
	Skipped  int
}

// Replayer feeds a journal into a fresh client.
type Replayer struct {
	client     *execution.Client
	strategies map[model.StrategyID]*strategy.Logger
}

// New creates a replayer with its own client over a silent adapter.
func New(opts ...execution.Option) (*Replayer, error) {
	client, err := execution.NewClient(silentAdapter{}, opts...)
	if err != nil {
		return nil, err
	}
	return &Replayer{
		client:     client,
		strategies: make(map[model.StrategyID]*strategy.Logger),
	}, nil
}

func (r *Replayer) Client() *execution.Client {
	return r.client
}

// Run replays every frame of j in order. Frames that fail to decode or that
// the client refuses are counted as skipped.
func (r *Replayer) Run(ctx context.Context, j *journal.Journal) (Result, error) {
	var res Result
	err := j.Replay(ctx, func(f journal.Frame) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.Frames++
		switch f.Direction {
		case journal.Outbound:
			if r.command(ctx, f) {
				res.Commands++
				return nil
			}
		case journal.Inbound:
			e, err := codec.DecodeEvent(f.Payload)
			if err == nil {
				r.client.HandleEvent(e)
				res.Events++
				return nil
			}
			logs.Errorf("skip frame %d, err: %+v", f.Seq, err)
		}
		res.Skipped++
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("replay: %w", err)
	}
	return res, nil
}

func (r *Replayer) command(ctx context.Context, f journal.Frame) bool {
	cmd, err := codec.DecodeCommand(f.Payload)
	if err != nil {
		logs.Errorf("skip frame %d, err: %+v", f.Seq, err)
		return false
	}
	if sid, ok := strategyOf(cmd); ok {
		if err := r.ensureStrategy(sid); err != nil {
			logs.Errorf("skip frame %d, err: %+v", f.Seq, err)
			return false
		}
	}
	return r.client.ExecuteCommand(ctx, cmd) == nil
}

func (r *Replayer) ensureStrategy(id model.StrategyID) error {
	if _, ok := r.strategies[id]; ok {
		return nil
	}
	s := strategy.NewLogger(id)
	if err := r.client.RegisterStrategy(s); err != nil {
		return err
	}
	r.strategies[id] = s
	return nil
}

func strategyOf(cmd command.Command) (model.StrategyID, bool) {
	switch cmd := cmd.(type) {
	case command.SubmitOrder:
		return cmd.StrategyID, true
	case command.SubmitAtomicOrder:
		return cmd.StrategyID, true
	case command.ModifyOrder:
		return cmd.StrategyID, true
	case command.CancelOrder:
		return cmd.StrategyID, true
	default:
		return "", false
	}
}

// silentAdapter accepts every command without sending it anywhere.
type silentAdapter struct{}

func (silentAdapter) Connect(context.Context) error    { return nil }
func (silentAdapter) Disconnect(context.Context) error { return nil }

func (silentAdapter) CollateralInquiry(context.Context, command.CollateralInquiry) error {
	return nil
}

func (silentAdapter) SubmitOrder(context.Context, command.SubmitOrder) error             { return nil }
func (silentAdapter) SubmitAtomicOrder(context.Context, command.SubmitAtomicOrder) error { return nil }
func (silentAdapter) ModifyOrder(context.Context, command.ModifyOrder) error             { return nil }
func (silentAdapter) CancelOrder(context.Context, command.CancelOrder) error             { return nil }
func (silentAdapter) CheckResiduals(context.Context, []model.Order) error                { return nil }
func (silentAdapter) Reset()                                                             {}
