package paper

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tradecore/internal/clock"
	"tradecore/internal/command"
	"tradecore/internal/event"
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
)

// Rejection reasons.
const (
	ReasonUnknownSymbol = "UNKNOWN_SYMBOL"
	ReasonTradeSize     = "INVALID_TRADE_SIZE"
	ReasonNoMarket      = "NO_MARKET"
	ReasonNotWorking    = "ORDER_NOT_WORKING"
	ReasonUnknownOrder  = "ORDER_NOT_FOUND"
	ReasonEntryRejected = "ENTRY_REJECTED"
	ResponseCancel      = "CANCEL_REJECT"
	ResponseModify      = "MODIFY_REJECT"
)

// AccountConfig describes the simulated account reported on collateral
// inquiries.
type AccountConfig struct {
	ID       model.AccountID
	Broker   enum.Broker
	Number   model.AccountNumber
	Currency enum.Currency
	Cash     model.Money
}

// Config controls the engine behavior.
type Config struct {
	Account AccountConfig

	// MaxFillQuantity splits fills into executions of at most this size.
	// Zero fills in one execution.
	MaxFillQuantity model.Quantity
}

type restingOrder struct {
	seq      uint64
	order    model.Order
	brokerID model.OrderIDBroker
	price    model.Price
	leaves   model.Quantity

	legs    []*restingOrder // held until this entry fills
	sibling model.OrderID   // one-cancels-other partner
}

// Engine simulates a broker: it answers each command with the events a
// broker would produce and fills resting orders as marks move. It holds no
// view of the client's lifecycle state.
type Engine struct {
	cfg      Config
	registry *model.Registry
	clock    clock.Clock
	guids    model.GUIDFactory

	mu      sync.Mutex
	marks   map[model.Symbol]model.Price
	resting map[model.OrderID]*restingOrder
	held    map[model.OrderID]*restingOrder
	seq     uint64
}

func NewEngine(cfg Config, registry *model.Registry, clk clock.Clock, guids model.GUIDFactory) *Engine {
	if clk == nil {
		clk = clock.Live{}
	}
	if guids == nil {
		guids = model.RandomGUIDFactory{}
	}
	if registry == nil {
		registry = model.NewRegistry()
	}
	return &Engine{
		cfg:      cfg,
		registry: registry,
		clock:    clk,
		guids:    guids,
		marks:    make(map[model.Symbol]model.Price),
		resting:  make(map[model.OrderID]*restingOrder),
		held:     make(map[model.OrderID]*restingOrder),
	}
}

// Process returns the events answering cmd, in the order a broker would
// send them.
func (e *Engine) Process(cmd command.Command) []event.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch cmd := cmd.(type) {
	case command.CollateralInquiry:
		return []event.Event{e.account()}
	case command.SubmitOrder:
		return e.submit(cmd.Order)
	case command.SubmitAtomicOrder:
		return e.submitAtomic(cmd.AtomicOrder)
	case command.ModifyOrder:
		return e.modify(cmd.OrderID, cmd.ModifiedPrice)
	case command.CancelOrder:
		return e.cancel(cmd.OrderID)
	default:
		panic(fmt.Sprintf("paper: unsupported command %T", cmd))
	}
}

// Mark sets the market price of symbol and fills every resting order the
// new price reaches.
func (e *Engine) Mark(symbol model.Symbol, price model.Price) []event.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.marks[symbol] = price
	var out []event.Event
	for _, id := range sortedIDs(e.resting) {
		// an earlier fill may have cancelled this one as a sibling
		r, ok := e.resting[id]
		if !ok || r.order.Symbol != symbol || !triggered(r, price) {
			continue
		}
		out = append(out, e.fill(r, fillPrice(r, price))...)
	}
	return out
}

// Expire expires every resting GTD order whose expire time is not after now.
func (e *Engine) Expire(now time.Time) []event.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []event.Event
	for _, id := range sortedIDs(e.resting) {
		r, ok := e.resting[id]
		if !ok || r.order.TimeInForce != enum.TimeInForceGTD || r.order.ExpireTime.After(now) {
			continue
		}
		delete(e.resting, id)
		out = append(out, event.OrderExpired{Header: e.header(), OrderID: id, ExpiredTime: now})
		out = append(out, e.detach(r)...)
	}
	return out
}

// Resting returns the ids of the orders live at the simulated broker, the
// working ones and the bracket legs held for their entry, in submission
// order.
func (e *Engine) Resting() []model.OrderID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortedIDs(e.resting, e.held)
}

// Reset forgets every resting order and mark.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.marks)
	clear(e.resting)
	clear(e.held)
}

func (e *Engine) submit(o model.Order) []event.Event {
	out, r := e.accept(o)
	if r == nil {
		return out
	}
	return append(out, e.work(r)...)
}

// submitAtomic works the entry and holds the stop-loss and take-profit legs
// until it fills. Released legs are one-cancels-other.
func (e *Engine) submitAtomic(a model.AtomicOrder) []event.Event {
	out, entry := e.accept(a.Entry)
	var legs []*restingOrder
	for _, o := range a.Orders()[1:] {
		if entry == nil {
			out = append(out, e.submitted(o.ID), e.reject(o.ID, ReasonEntryRejected))
			continue
		}
		events, r := e.accept(o)
		out = append(out, events...)
		if r != nil {
			legs = append(legs, r)
		}
	}
	if entry == nil {
		return out
	}

	if len(legs) == 2 {
		legs[0].sibling, legs[1].sibling = legs[1].order.ID, legs[0].order.ID
	}
	for _, r := range legs {
		e.held[r.order.ID] = r
	}
	entry.legs = legs
	return append(out, e.work(entry)...)
}

// accept answers Submitted followed by Accepted or Rejected. The returned
// order is nil when o was rejected.
func (e *Engine) accept(o model.Order) ([]event.Event, *restingOrder) {
	out := []event.Event{e.submitted(o.ID)}

	inst, ok := e.registry.Instrument(o.Symbol)
	switch {
	case !ok:
		return append(out, e.reject(o.ID, ReasonUnknownSymbol)), nil
	case o.Quantity < inst.MinTradeSize || (inst.MaxTradeSize > 0 && o.Quantity > inst.MaxTradeSize):
		return append(out, e.reject(o.ID, ReasonTradeSize)), nil
	}
	if _, hasMark := e.marks[o.Symbol]; o.Type == enum.OrderTypeMarket && !hasMark {
		return append(out, e.reject(o.ID, ReasonNoMarket)), nil
	}

	e.seq++
	r := &restingOrder{
		seq:      e.seq,
		order:    o,
		brokerID: model.OrderIDBroker(fmt.Sprintf("PAPER-%06d", e.seq)),
		price:    o.Price,
		leaves:   o.Quantity,
	}
	return append(out, event.OrderAccepted{Header: e.header(), OrderID: o.ID, AcceptedTime: e.clock.Now()}), r
}

// work puts an accepted order to work. It fills at once when the mark
// already reaches it and rests otherwise.
func (e *Engine) work(r *restingOrder) []event.Event {
	o := r.order
	out := []event.Event{event.OrderWorking{
		Header:        e.header(),
		OrderID:       o.ID,
		OrderIDBroker: r.brokerID,
		Symbol:        o.Symbol,
		Label:         o.Label,
		Side:          o.Side,
		Type:          o.Type,
		Quantity:      o.Quantity,
		Price:         r.price,
		TimeInForce:   o.TimeInForce,
		ExpireTime:    o.ExpireTime,
		WorkingTime:   e.clock.Now(),
	}}

	if mark, ok := e.marks[o.Symbol]; ok && triggered(r, mark) {
		return append(out, e.fill(r, fillPrice(r, mark))...)
	}
	e.resting[o.ID] = r
	return out
}

func (e *Engine) modify(id model.OrderID, price model.Price) []event.Event {
	r := e.lookup(id)
	if r == nil {
		return []event.Event{e.cancelReject(id, ResponseModify, ReasonNotWorking)}
	}
	r.price = price
	return []event.Event{event.OrderModified{
		Header:        e.header(),
		OrderID:       id,
		OrderIDBroker: r.brokerID,
		ModifiedPrice: price,
		ModifiedTime:  e.clock.Now(),
	}}
}

func (e *Engine) cancel(id model.OrderID) []event.Event {
	r := e.lookup(id)
	if r == nil {
		return []event.Event{e.cancelReject(id, ResponseCancel, ReasonUnknownOrder)}
	}
	delete(e.resting, id)
	delete(e.held, id)
	out := []event.Event{e.cancelled(id)}
	return append(out, e.detach(r)...)
}

// detach cancels the legs still held for r and unlinks its sibling, for an
// order that ended without filling.
func (e *Engine) detach(r *restingOrder) []event.Event {
	var out []event.Event
	for _, leg := range r.legs {
		if _, ok := e.held[leg.order.ID]; ok {
			delete(e.held, leg.order.ID)
			out = append(out, e.cancelled(leg.order.ID))
		}
	}
	r.legs = nil
	if s := e.lookup(r.sibling); s != nil {
		s.sibling = ""
	}
	r.sibling = ""
	return out
}

// release runs after r filled: its sibling is cancelled and its held legs
// start working.
func (e *Engine) release(r *restingOrder) []event.Event {
	var out []event.Event
	if s := e.lookup(r.sibling); s != nil {
		s.sibling = ""
		delete(e.resting, s.order.ID)
		delete(e.held, s.order.ID)
		out = append(out, e.cancelled(s.order.ID))
	}
	r.sibling = ""

	legs := r.legs
	r.legs = nil
	for _, leg := range legs {
		// a leg that filled at once cancels its sibling before it is released
		if _, ok := e.held[leg.order.ID]; !ok {
			continue
		}
		delete(e.held, leg.order.ID)
		out = append(out, e.work(leg)...)
	}
	return out
}

func (e *Engine) lookup(id model.OrderID) *restingOrder {
	if id == "" {
		return nil
	}
	if r, ok := e.resting[id]; ok {
		return r
	}
	return e.held[id]
}

// fill executes the leaves of r at price, split by MaxFillQuantity. The
// last execution is reported as OrderFilled.
func (e *Engine) fill(r *restingOrder, price model.Price) []event.Event {
	delete(e.resting, r.order.ID)
	var out []event.Event
	now := e.clock.Now()
	for r.leaves > 0 {
		qty := r.leaves
		if limit := e.cfg.MaxFillQuantity; limit > 0 && qty > limit {
			qty = limit
		}
		r.leaves -= qty
		e.seq++
		execID := model.ExecutionID(fmt.Sprintf("E-%06d", e.seq))
		ticket := model.ExecutionTicket(fmt.Sprintf("T-%06d", e.seq))

		if r.leaves > 0 {
			out = append(out, event.OrderPartiallyFilled{
				Header:          e.header(),
				OrderID:         r.order.ID,
				ExecutionID:     execID,
				ExecutionTicket: ticket,
				Symbol:          r.order.Symbol,
				Side:            r.order.Side,
				FilledQuantity:  qty,
				LeavesQuantity:  r.leaves,
				AveragePrice:    price,
				ExecutionTime:   now,
			})
			continue
		}
		out = append(out, event.OrderFilled{
			Header:          e.header(),
			OrderID:         r.order.ID,
			ExecutionID:     execID,
			ExecutionTicket: ticket,
			Symbol:          r.order.Symbol,
			Side:            r.order.Side,
			FilledQuantity:  qty,
			AveragePrice:    price,
			ExecutionTime:   now,
		})
	}
	return append(out, e.release(r)...)
}

func (e *Engine) submitted(id model.OrderID) event.Event {
	return event.OrderSubmitted{Header: e.header(), OrderID: id, SubmittedTime: e.clock.Now()}
}

func (e *Engine) cancelled(id model.OrderID) event.Event {
	return event.OrderCancelled{Header: e.header(), OrderID: id, CancelledTime: e.clock.Now()}
}

func (e *Engine) reject(id model.OrderID, reason string) event.Event {
	return event.OrderRejected{Header: e.header(), OrderID: id, RejectedTime: e.clock.Now(), RejectedReason: reason}
}

func (e *Engine) cancelReject(id model.OrderID, response, reason string) event.Event {
	return event.OrderCancelReject{
		Header:           e.header(),
		OrderID:          id,
		RejectedTime:     e.clock.Now(),
		RejectedResponse: response,
		RejectedReason:   reason,
	}
}

func (e *Engine) account() event.Event {
	zero := model.Money{Decimal: model.DecimalFrom(decimal.Zero, e.cfg.Account.Cash.Precision())}
	return event.AccountEvent{
		Header:                e.header(),
		AccountID:             e.cfg.Account.ID,
		Broker:                e.cfg.Account.Broker,
		AccountNumber:         e.cfg.Account.Number,
		Currency:              e.cfg.Account.Currency,
		CashBalance:           e.cfg.Account.Cash,
		CashStartDay:          e.cfg.Account.Cash,
		CashActivityDay:       zero,
		MarginUsedLiquidation: zero,
		MarginUsedMaintenance: zero,
		MarginRatio:           model.MustDecimal("0"),
		MarginCallStatus:      "N",
	}
}

func (e *Engine) header() event.Header {
	return event.Header{ID: e.guids.NewGUID(), Timestamp: e.clock.Now()}
}

// sortedIDs returns the ids of the orders in sets, in submission order.
func sortedIDs(sets ...map[model.OrderID]*restingOrder) []model.OrderID {
	var orders []*restingOrder
	for _, set := range sets {
		for _, r := range set {
			orders = append(orders, r)
		}
	}
	slices.SortFunc(orders, func(a, b *restingOrder) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]model.OrderID, len(orders))
	for i, r := range orders {
		out[i] = r.order.ID
	}
	return out
}

// fillPrice is the limit price for limit orders and the mark otherwise.
func fillPrice(r *restingOrder, mark model.Price) model.Price {
	if r.order.Type == enum.OrderTypeLimit {
		return r.price
	}
	return mark
}

// triggered reports whether price reaches the resting order.
func triggered(r *restingOrder, price model.Price) bool {
	mark, level := price.Value(), r.price.Value()
	buy := r.order.Side == enum.OrderSideBuy
	switch r.order.Type {
	case enum.OrderTypeLimit, enum.OrderTypeMIT:
		if buy {
			return mark.LessThanOrEqual(level)
		}
		return mark.GreaterThanOrEqual(level)
	case enum.OrderTypeStopMarket, enum.OrderTypeStopLimit:
		if buy {
			return mark.GreaterThanOrEqual(level)
		}
		return mark.LessThanOrEqual(level)
	default:
		return true
	}
}
