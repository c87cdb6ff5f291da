package model

import (
	"fmt"
	"time"

	"github.com/yanun0323/errors"

	"tradecore/internal/model/enum"
)

var ErrInvalidOrder = errors.New("model: invalid order")

// Order is the static definition of an order. Its lifecycle state is tracked
// by the execution client, never by the order itself.
type Order struct {
	ID          OrderID
	Symbol      Symbol
	Side        enum.OrderSide
	Type        enum.OrderType
	Quantity    Quantity
	Price       Price // zero for market orders
	Label       Label // empty when unlabelled
	TimeInForce enum.TimeInForce
	ExpireTime  time.Time // zero unless GTD
	Timestamp   time.Time
	InitID      GUID
}

// NewOrder validates and returns an order definition.
func NewOrder(o Order) (Order, error) {
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Validate checks the structural rules every order must satisfy.
func (o Order) Validate() error {
	switch {
	case o.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidOrder)
	case o.Symbol.IsZero():
		return fmt.Errorf("%w: %s empty symbol", ErrInvalidOrder, o.ID)
	case !o.Side.IsAvailable():
		return fmt.Errorf("%w: %s unknown side", ErrInvalidOrder, o.ID)
	case !o.Type.IsAvailable():
		return fmt.Errorf("%w: %s unknown type", ErrInvalidOrder, o.ID)
	case !o.TimeInForce.IsAvailable():
		return fmt.Errorf("%w: %s unknown time in force", ErrInvalidOrder, o.ID)
	case o.Quantity <= 0:
		return fmt.Errorf("%w: %s quantity %d", ErrInvalidOrder, o.ID, o.Quantity)
	case o.Type.IsPriced() && o.Price.IsZero():
		return fmt.Errorf("%w: %s %s order requires a price", ErrInvalidOrder, o.ID, o.Type)
	case !o.Type.IsPriced() && !o.Price.IsZero():
		return fmt.Errorf("%w: %s %s order must not carry a price", ErrInvalidOrder, o.ID, o.Type)
	case o.TimeInForce == enum.TimeInForceGTD && o.ExpireTime.IsZero():
		return fmt.Errorf("%w: %s GTD order requires an expire time", ErrInvalidOrder, o.ID)
	case o.TimeInForce != enum.TimeInForceGTD && !o.ExpireTime.IsZero():
		return fmt.Errorf("%w: %s only GTD orders expire", ErrInvalidOrder, o.ID)
	}
	return nil
}

func (o Order) HasPrice() bool {
	return !o.Price.IsZero()
}

func (o Order) HasLabel() bool {
	return o.Label != ""
}

func (o Order) HasExpireTime() bool {
	return !o.ExpireTime.IsZero()
}

// AtomicOrder bundles an entry with optional stop-loss and take-profit legs.
type AtomicOrder struct {
	Entry      Order
	StopLoss   *Order
	TakeProfit *Order
}

// ID is the entry order id.
func (a AtomicOrder) ID() OrderID {
	return a.Entry.ID
}

func (a AtomicOrder) HasStopLoss() bool {
	return a.StopLoss != nil
}

func (a AtomicOrder) HasTakeProfit() bool {
	return a.TakeProfit != nil
}

// Orders returns the present legs, entry first.
func (a AtomicOrder) Orders() []Order {
	out := make([]Order, 0, 3)
	out = append(out, a.Entry)
	if a.StopLoss != nil {
		out = append(out, *a.StopLoss)
	}
	if a.TakeProfit != nil {
		out = append(out, *a.TakeProfit)
	}
	return out
}

// Validate checks every leg and that leg ids are distinct.
func (a AtomicOrder) Validate() error {
	seen := make(map[OrderID]struct{}, 3)
	for _, o := range a.Orders() {
		if err := o.Validate(); err != nil {
			return err
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("%w: atomic order repeats leg id %s", ErrInvalidOrder, o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return nil
}
