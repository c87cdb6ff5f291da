package execution

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"tradecore/internal/clock"
	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/model"
	"tradecore/internal/obs"
	"tradecore/internal/og"
	"tradecore/pkg/exception"
)

// Option configures a Client.
type Option func(*Client)

// WithAccount sets the collaborator updated on account events.
func WithAccount(a Account) Option {
	return func(c *Client) { c.account = a }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *obs.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithClock sets the clock used to stamp event arrival.
func WithClock(clk clock.Clock) Option {
	return func(c *Client) { c.clock = clk }
}

// Client dispatches commands to one broker adapter and applies the events it
// produces. Registries are guarded by a single lock; adapter calls and
// strategy callbacks are made without holding it.
type Client struct {
	adapter Adapter
	account Account
	metrics *obs.Metrics
	clock   clock.Clock

	connMu    sync.Mutex
	connected bool

	mu            sync.RWMutex
	strategies    map[model.StrategyID]Strategy
	orders        map[model.OrderID]model.Order
	active        map[model.OrderID]struct{}
	completed     map[model.OrderID]struct{}
	orderStrategy map[model.OrderID]model.StrategyID
	orderPosition map[model.OrderID]model.PositionID
	byStrategy    map[model.StrategyID]map[model.OrderID]struct{}
	used          map[model.OrderID]struct{} // survives Reset
	lifecycle     *og.StateMachine
	eventCount    int
	commandCount  int
}

// NewClient creates a client over adapter.
func NewClient(adapter Adapter, opts ...Option) (*Client, error) {
	if adapter == nil {
		return nil, fmt.Errorf("%w: adapter", exception.ErrNilInstance)
	}
	c := &Client{
		adapter:       adapter,
		clock:         clock.Live{},
		strategies:    make(map[model.StrategyID]Strategy),
		orders:        make(map[model.OrderID]model.Order),
		active:        make(map[model.OrderID]struct{}),
		completed:     make(map[model.OrderID]struct{}),
		orderStrategy: make(map[model.OrderID]model.StrategyID),
		orderPosition: make(map[model.OrderID]model.PositionID),
		byStrategy:    make(map[model.StrategyID]map[model.OrderID]struct{}),
		used:          make(map[model.OrderID]struct{}),
		lifecycle:     og.NewStateMachine(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Connect connects the adapter. Connecting a connected client does nothing.
func (c *Client) Connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.connected {
		return nil
	}
	if err := c.adapter.Connect(ctx); err != nil {
		return fmt.Errorf("connect adapter: %w", err)
	}
	c.connected = true
	logs.Info("execution client connected")
	return nil
}

// Disconnect disconnects the adapter. Disconnecting a disconnected client
// does nothing.
func (c *Client) Disconnect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if !c.connected {
		return nil
	}
	if err := c.adapter.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect adapter: %w", err)
	}
	c.connected = false
	logs.Info("execution client disconnected")
	return nil
}

func (c *Client) IsConnected() bool {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	return c.connected
}

// RegisterStrategy binds s to this client and starts routing the events of
// its orders to it.
func (c *Client) RegisterStrategy(s Strategy) error {
	if s == nil {
		return fmt.Errorf("%w: strategy", exception.ErrNilInstance)
	}
	id := s.ID()

	c.mu.RLock()
	_, dup := c.strategies[id]
	c.mu.RUnlock()
	if dup {
		return fmt.Errorf("%w: %s", exception.ErrExecutionDuplicateStrategy, id)
	}

	if err := s.RegisterExecutionClient(c); err != nil {
		return fmt.Errorf("register strategy %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.strategies[id]; dup {
		return fmt.Errorf("%w: %s", exception.ErrExecutionDuplicateStrategy, id)
	}
	c.strategies[id] = s
	c.byStrategy[id] = make(map[model.OrderID]struct{})
	logs.Infof("registered strategy: %s", id)
	return nil
}

// RegisteredStrategies returns the registered strategy ids in order.
func (c *Client) RegisteredStrategies() []model.StrategyID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.StrategyID, 0, len(c.strategies))
	for id := range c.strategies {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ExecuteCommand dispatches cmd to the adapter. Orders of submit commands
// are registered before the adapter is called, so events the adapter
// produces for them can be resolved immediately.
func (c *Client) ExecuteCommand(ctx context.Context, cmd command.Command) error {
	kind := command.KindOf(cmd)
	start := time.Now()

	var err error
	switch cmd := cmd.(type) {
	case command.CollateralInquiry:
		c.countCommand()
		err = c.adapter.CollateralInquiry(ctx, cmd)
	case command.SubmitOrder:
		if err = c.registerOrders(cmd.StrategyID, cmd.PositionID, cmd.Order); err == nil {
			err = c.adapter.SubmitOrder(ctx, cmd)
		}
	case command.SubmitAtomicOrder:
		if err = cmd.AtomicOrder.Validate(); err != nil {
			err = fmt.Errorf("%w: %w", exception.ErrExecutionInvalidOrder, err)
			break
		}
		if err = c.registerOrders(cmd.StrategyID, cmd.PositionID, cmd.AtomicOrder.Orders()...); err == nil {
			err = c.adapter.SubmitAtomicOrder(ctx, cmd)
		}
	case command.ModifyOrder:
		if err = c.checkWorkingOrder(cmd.StrategyID, cmd.OrderID); err == nil {
			c.countCommand()
			err = c.adapter.ModifyOrder(ctx, cmd)
		}
	case command.CancelOrder:
		if err = c.checkWorkingOrder(cmd.StrategyID, cmd.OrderID); err == nil {
			c.countCommand()
			err = c.adapter.CancelOrder(ctx, cmd)
		}
	default:
		panic(fmt.Errorf("%w: %T", exception.ErrExecutionUnsupportedCommand, cmd))
	}

	if err != nil {
		c.metrics.IncCommandError()
		logs.Errorf("execute %s %s, err: %+v", kind, cmd.Meta().ID, err)
		return err
	}
	c.metrics.ObserveCommand(kind, time.Since(start))
	return nil
}

func (c *Client) countCommand() {
	c.mu.Lock()
	c.commandCount++
	c.mu.Unlock()
}

// registerOrders records every order as active under its strategy and
// position. Nothing is recorded unless all of them can be.
func (c *Client) registerOrders(sid model.StrategyID, pid model.PositionID, orders ...model.Order) error {
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("%w: %w", exception.ErrExecutionInvalidOrder, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	owned, ok := c.byStrategy[sid]
	if !ok {
		return fmt.Errorf("%w: %s", exception.ErrExecutionUnknownStrategy, sid)
	}
	seen := make(map[model.OrderID]struct{}, len(orders))
	for _, o := range orders {
		if _, dup := c.used[o.ID]; dup {
			return fmt.Errorf("%w: %s", exception.ErrExecutionDuplicateOrder, o.ID)
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("%w: %s", exception.ErrExecutionDuplicateOrder, o.ID)
		}
		seen[o.ID] = struct{}{}
	}

	for _, o := range orders {
		if _, err := c.lifecycle.Register(o); err != nil {
			return fmt.Errorf("%w: %w", exception.ErrExecutionDuplicateOrder, err)
		}
		c.orders[o.ID] = o
		c.used[o.ID] = struct{}{}
		c.active[o.ID] = struct{}{}
		c.orderStrategy[o.ID] = sid
		c.orderPosition[o.ID] = pid
		owned[o.ID] = struct{}{}
	}
	c.commandCount++
	return nil
}

// checkWorkingOrder verifies a modify or cancel targets an active order of
// the issuing strategy.
func (c *Client) checkWorkingOrder(sid model.StrategyID, id model.OrderID) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.strategies[sid]; !ok {
		return fmt.Errorf("%w: %s", exception.ErrExecutionUnknownStrategy, sid)
	}
	owner, ok := c.orderStrategy[id]
	if !ok {
		return fmt.Errorf("%w: %s", exception.ErrExecutionUnknownOrder, id)
	}
	if owner != sid {
		return fmt.Errorf("%w: %s owned by %s", exception.ErrExecutionStrategyOrderForeign, id, owner)
	}
	if _, ok := c.active[id]; !ok {
		return fmt.Errorf("%w: %s", exception.ErrExecutionOrderNotActive, id)
	}
	return nil
}

// HandleEvent applies e to the order it refers to and forwards it to the
// owning strategy. Events for unknown orders and events the order lifecycle
// does not allow are logged and dropped.
func (c *Client) HandleEvent(e event.Event) {
	c.HandleEventAt(e, c.clock.Now())
}

// HandleEventAt is HandleEvent for an event that arrived at received, as
// stamped by the transport before queueing.
func (c *Client) HandleEventAt(e event.Event, received time.Time) {
	kind := event.KindOf(e)

	if acc, ok := e.(event.AccountEvent); ok {
		c.mu.Lock()
		c.eventCount++
		c.mu.Unlock()

		c.metrics.ObserveEvent(kind, e.Meta().Timestamp, received)
		if c.account != nil {
			c.account.Apply(acc)
		}
		return
	}

	id, ok := event.OrderIDOf(e)
	if !ok {
		panic(fmt.Errorf("%w: %T", exception.ErrExecutionUnsupportedEvent, e))
	}

	c.mu.Lock()
	sid, known := c.orderStrategy[id]
	if !known {
		c.mu.Unlock()
		c.metrics.IncUnknownOrder()
		logs.Errorf("drop %s %s for unknown order: %s", kind, e.Meta().ID, id)
		return
	}
	state, err := c.lifecycle.Apply(e)
	if err != nil {
		c.mu.Unlock()
		c.metrics.IncInvalidTransition()
		logs.Errorf("drop %s %s, err: %+v", kind, e.Meta().ID, err)
		return
	}
	if state.Status.IsTerminal() {
		if _, ok := c.active[id]; ok {
			delete(c.active, id)
			c.completed[id] = struct{}{}
		}
	}
	c.eventCount++
	strategy := c.strategies[sid]
	c.mu.Unlock()

	c.metrics.ObserveEvent(kind, e.Meta().Timestamp, received)
	if strategy != nil {
		strategy.HandleEvent(e)
	}
}

// CheckResiduals hands the active orders to the adapter for reconciliation.
func (c *Client) CheckResiduals(ctx context.Context) error {
	active := c.GetOrdersActiveAll()
	orders := make([]model.Order, 0, len(active))
	for _, o := range active {
		orders = append(orders, o)
	}
	slices.SortFunc(orders, func(a, b model.Order) int {
		return cmp.Compare(a.ID, b.ID)
	})

	if err := c.adapter.CheckResiduals(ctx, orders); err != nil {
		return fmt.Errorf("check residuals: %w", err)
	}
	return nil
}

// Reset forgets every order and zeroes the counters. Registered strategies
// are kept, and so is the set of order ids already used: an id is never
// registered twice by the same client.
func (c *Client) Reset() {
	c.mu.Lock()
	clear(c.orders)
	clear(c.active)
	clear(c.completed)
	clear(c.orderStrategy)
	clear(c.orderPosition)
	for _, owned := range c.byStrategy {
		clear(owned)
	}
	c.lifecycle.Reset()
	c.eventCount = 0
	c.commandCount = 0
	c.mu.Unlock()

	c.adapter.Reset()
	logs.Info("execution client reset")
}
