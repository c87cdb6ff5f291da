package og

import (
	"fmt"

	"github.com/yanun0323/errors"

	"tradecore/internal/event"
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
)

var (
	ErrDuplicateOrder    = errors.New("og: order already exists")
	ErrUnknownOrder      = errors.New("og: order not found")
	ErrInvalidTransition = errors.New("og: invalid order state transition")
	ErrInvalidFill       = errors.New("og: invalid fill quantity")
)

// Order holds the lifecycle view of an order.
type Order struct {
	ID            model.OrderID
	Status        enum.OrderStatus
	Quantity      model.Quantity
	Filled        model.Quantity
	Leaves        model.Quantity
	Price         model.Price // working price
	OrderIDBroker model.OrderIDBroker
	AveragePrice  model.Price
	LastEventID   model.GUID
}

// StateMachine updates orders from broker events. It is not safe for
// concurrent use.
type StateMachine struct {
	orders map[model.OrderID]*Order
}

// NewStateMachine creates an empty state machine.
func NewStateMachine() *StateMachine {
	return &StateMachine{orders: make(map[model.OrderID]*Order)}
}

// Order returns a copy of the current order state.
func (m *StateMachine) Order(id model.OrderID) (Order, bool) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

func (m *StateMachine) Len() int {
	return len(m.orders)
}

// Reset forgets every order.
func (m *StateMachine) Reset() {
	clear(m.orders)
}

// Register starts tracking an order in the Initialized state.
func (m *StateMachine) Register(def model.Order) (Order, error) {
	if def.ID == "" {
		return Order{}, fmt.Errorf("%w: empty id", ErrUnknownOrder)
	}
	if _, ok := m.orders[def.ID]; ok {
		return Order{}, fmt.Errorf("%w: %s", ErrDuplicateOrder, def.ID)
	}
	o := &Order{
		ID:       def.ID,
		Status:   enum.OrderStatusInitialized,
		Quantity: def.Quantity,
		Leaves:   def.Quantity,
		Price:    def.Price,
	}
	m.orders[o.ID] = o
	return *o, nil
}

// Apply moves an order through its lifecycle. On error the order is left
// exactly as it was.
func (m *StateMachine) Apply(e event.Event) (Order, error) {
	id, ok := event.OrderIDOf(e)
	if !ok {
		return Order{}, fmt.Errorf("%w: %s carries no order id", ErrUnknownOrder, event.KindOf(e))
	}
	o, ok := m.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: %s", ErrUnknownOrder, id)
	}

	next := *o
	if err := transition(&next, e); err != nil {
		return *o, err
	}
	next.LastEventID = e.Meta().ID
	*o = next
	return next, nil
}

func transition(o *Order, e event.Event) error {
	switch e := e.(type) {
	case event.OrderInitialized:
		return expect(o, e, enum.OrderStatusInitialized)
	case event.OrderSubmitted:
		return move(o, e, enum.OrderStatusSubmitted, enum.OrderStatusInitialized)
	case event.OrderAccepted:
		return move(o, e, enum.OrderStatusAccepted, enum.OrderStatusSubmitted)
	case event.OrderRejected:
		return move(o, e, enum.OrderStatusRejected, enum.OrderStatusSubmitted)
	case event.OrderWorking:
		if err := move(o, e, enum.OrderStatusWorking, enum.OrderStatusAccepted); err != nil {
			return err
		}
		o.OrderIDBroker = e.OrderIDBroker
		if !e.Price.IsZero() {
			o.Price = e.Price
		}
		return nil
	case event.OrderModified:
		if err := expect(o, e, enum.OrderStatusAccepted, enum.OrderStatusWorking); err != nil {
			return err
		}
		o.OrderIDBroker = e.OrderIDBroker
		o.Price = e.ModifiedPrice
		return nil
	case event.OrderCancelled:
		return move(o, e, enum.OrderStatusCancelled,
			enum.OrderStatusAccepted, enum.OrderStatusWorking, enum.OrderStatusPartiallyFilled)
	case event.OrderCancelReject:
		if o.Status.IsTerminal() {
			return invalidTransition(o, e)
		}
		return nil
	case event.OrderExpired:
		return move(o, e, enum.OrderStatusExpired, enum.OrderStatusWorking)
	case event.OrderPartiallyFilled:
		if err := expect(o, e, enum.OrderStatusWorking, enum.OrderStatusPartiallyFilled); err != nil {
			return err
		}
		if err := checkFill(o, e.FilledQuantity); err != nil {
			return err
		}
		o.Filled += e.FilledQuantity
		o.Leaves = o.Quantity - o.Filled
		o.AveragePrice = e.AveragePrice
		o.Status = enum.OrderStatusPartiallyFilled
		if o.Leaves == 0 {
			o.Status = enum.OrderStatusFilled
		}
		return nil
	case event.OrderFilled:
		if err := expect(o, e, enum.OrderStatusWorking, enum.OrderStatusPartiallyFilled); err != nil {
			return err
		}
		if err := checkFill(o, e.FilledQuantity); err != nil {
			return err
		}
		if e.FilledQuantity != o.Leaves {
			return fmt.Errorf("%w: %s final fill %d leaves %d", ErrInvalidFill, o.ID, e.FilledQuantity, o.Leaves)
		}
		o.Filled = o.Quantity
		o.Leaves = 0
		o.AveragePrice = e.AveragePrice
		o.Status = enum.OrderStatusFilled
		return nil
	default:
		return invalidTransition(o, e)
	}
}

// expect accepts e only while the order is in one of from.
func expect(o *Order, e event.Event, from ...enum.OrderStatus) error {
	for _, s := range from {
		if o.Status == s {
			return nil
		}
	}
	return invalidTransition(o, e)
}

func move(o *Order, e event.Event, to enum.OrderStatus, from ...enum.OrderStatus) error {
	if err := expect(o, e, from...); err != nil {
		return err
	}
	o.Status = to
	return nil
}

func checkFill(o *Order, qty model.Quantity) error {
	if qty <= 0 || qty > o.Leaves {
		return fmt.Errorf("%w: %s fill %d leaves %d", ErrInvalidFill, o.ID, qty, o.Leaves)
	}
	return nil
}

func invalidTransition(o *Order, e event.Event) error {
	return fmt.Errorf("%w: %s %s while %s", ErrInvalidTransition, o.ID, event.KindOf(e), o.Status)
}
