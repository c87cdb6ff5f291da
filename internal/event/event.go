package event

import (
	"time"

	"tradecore/internal/model"
	"tradecore/internal/model/enum"
)

// Header carries the identity every event is created with.
type Header struct {
	ID        model.GUID
	Timestamp time.Time
}

// Meta returns the event header.
func (h Header) Meta() Header {
	return h
}

// Event is a notification from the broker side about order or account
// state. The set of variants is closed.
type Event interface {
	Meta() Header
	event()
}

type OrderInitialized struct {
	Header
	OrderID     model.OrderID
	Symbol      model.Symbol
	Label       model.Label
	Side        enum.OrderSide
	Type        enum.OrderType
	Quantity    model.Quantity
	Price       model.Price
	TimeInForce enum.TimeInForce
	ExpireTime  time.Time
}

type OrderSubmitted struct {
	Header
	OrderID       model.OrderID
	SubmittedTime time.Time
}

type OrderAccepted struct {
	Header
	OrderID      model.OrderID
	AcceptedTime time.Time
}

type OrderRejected struct {
	Header
	OrderID        model.OrderID
	RejectedTime   time.Time
	RejectedReason string
}

type OrderWorking struct {
	Header
	OrderID       model.OrderID
	OrderIDBroker model.OrderIDBroker
	Symbol        model.Symbol
	Label         model.Label
	Side          enum.OrderSide
	Type          enum.OrderType
	Quantity      model.Quantity
	Price         model.Price
	TimeInForce   enum.TimeInForce
	ExpireTime    time.Time
	WorkingTime   time.Time
}

type OrderModified struct {
	Header
	OrderID       model.OrderID
	OrderIDBroker model.OrderIDBroker
	ModifiedPrice model.Price
	ModifiedTime  time.Time
}

type OrderCancelled struct {
	Header
	OrderID       model.OrderID
	CancelledTime time.Time
}

// OrderCancelReject answers a cancel attempt; it never changes order state.
type OrderCancelReject struct {
	Header
	OrderID          model.OrderID
	RejectedTime     time.Time
	RejectedResponse string
	RejectedReason   string
}

type OrderExpired struct {
	Header
	OrderID     model.OrderID
	ExpiredTime time.Time
}

// OrderPartiallyFilled reports one execution; FilledQuantity is the quantity
// of this execution, not the running total.
type OrderPartiallyFilled struct {
	Header
	OrderID         model.OrderID
	ExecutionID     model.ExecutionID
	ExecutionTicket model.ExecutionTicket
	Symbol          model.Symbol
	Side            enum.OrderSide
	FilledQuantity  model.Quantity
	LeavesQuantity  model.Quantity
	AveragePrice    model.Price
	ExecutionTime   time.Time
}

type OrderFilled struct {
	Header
	OrderID         model.OrderID
	ExecutionID     model.ExecutionID
	ExecutionTicket model.ExecutionTicket
	Symbol          model.Symbol
	Side            enum.OrderSide
	FilledQuantity  model.Quantity
	AveragePrice    model.Price
	ExecutionTime   time.Time
}

type AccountEvent struct {
	Header
	AccountID             model.AccountID
	Broker                enum.Broker
	AccountNumber         model.AccountNumber
	Currency              enum.Currency
	CashBalance           model.Money
	CashStartDay          model.Money
	CashActivityDay       model.Money
	MarginUsedLiquidation model.Money
	MarginUsedMaintenance model.Money
	MarginRatio           model.Decimal
	MarginCallStatus      string
}

func (OrderInitialized) event()     {}
func (OrderSubmitted) event()       {}
func (OrderAccepted) event()        {}
func (OrderRejected) event()        {}
func (OrderWorking) event()         {}
func (OrderModified) event()        {}
func (OrderCancelled) event()       {}
func (OrderCancelReject) event()    {}
func (OrderExpired) event()         {}
func (OrderPartiallyFilled) event() {}
func (OrderFilled) event()          {}
func (AccountEvent) event()         {}

// OrderIDOf returns the order an event refers to. Account events refer to
// no order.
func OrderIDOf(e Event) (model.OrderID, bool) {
	switch e := e.(type) {
	case OrderInitialized:
		return e.OrderID, true
	case OrderSubmitted:
		return e.OrderID, true
	case OrderAccepted:
		return e.OrderID, true
	case OrderRejected:
		return e.OrderID, true
	case OrderWorking:
		return e.OrderID, true
	case OrderModified:
		return e.OrderID, true
	case OrderCancelled:
		return e.OrderID, true
	case OrderCancelReject:
		return e.OrderID, true
	case OrderExpired:
		return e.OrderID, true
	case OrderPartiallyFilled:
		return e.OrderID, true
	case OrderFilled:
		return e.OrderID, true
	default:
		return "", false
	}
}
