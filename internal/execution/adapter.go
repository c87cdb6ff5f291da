package execution

import (
	"context"

	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/model"
)

// Adapter is the broker-specific half of an execution client. Results of
// commands arrive later as events passed to Client.HandleEvent; an adapter
// may deliver them from its own goroutine or synchronously from inside a
// call.
type Adapter interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	CollateralInquiry(ctx context.Context, cmd command.CollateralInquiry) error
	SubmitOrder(ctx context.Context, cmd command.SubmitOrder) error
	SubmitAtomicOrder(ctx context.Context, cmd command.SubmitAtomicOrder) error
	ModifyOrder(ctx context.Context, cmd command.ModifyOrder) error
	CancelOrder(ctx context.Context, cmd command.CancelOrder) error

	// CheckResiduals reconciles the client's active orders against the
	// broker's view after start up or a reconnect.
	CheckResiduals(ctx context.Context, active []model.Order) error

	// Reset drops any adapter-side state.
	Reset()
}

// Strategy receives the events of the orders it submitted.
type Strategy interface {
	ID() model.StrategyID
	HandleEvent(e event.Event)

	// RegisterExecutionClient binds the strategy to c. Binding to a second
	// client fails.
	RegisterExecutionClient(c *Client) error
}

// Account is updated on every account event.
type Account interface {
	Apply(e event.AccountEvent)
}
