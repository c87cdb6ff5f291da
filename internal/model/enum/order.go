package enum

// OrderSide buy, sell
type OrderSide uint8

const (
	_order_side_beg OrderSide = iota
	OrderSideBuy
	OrderSideSell
	_order_side_end
)

var orderSideNames = newNames("order side", _order_side_beg, _order_side_end,
	"BUY",
	"SELL",
)

func (s OrderSide) IsAvailable() bool {
	return s > _order_side_beg && s < _order_side_end
}

func (s OrderSide) String() string {
	return orderSideNames.name(s)
}

func ParseOrderSide(s string) (OrderSide, error) {
	return orderSideNames.parse(s)
}

func OrderSides() []OrderSide {
	return orderSideNames.all()
}

// OrderType market, limit, stop market, stop limit, market if touched
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeMarket
	OrderTypeLimit
	OrderTypeStopMarket
	OrderTypeStopLimit
	OrderTypeMIT
	_order_type_end
)

var orderTypeNames = newNames("order type", _order_type_beg, _order_type_end,
	"MARKET",
	"LIMIT",
	"STOP_MARKET",
	"STOP_LIMIT",
	"MIT",
)

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

// IsPriced reports whether orders of this type must carry a price.
func (t OrderType) IsPriced() bool {
	return t.IsAvailable() && t != OrderTypeMarket
}

func (t OrderType) String() string {
	return orderTypeNames.name(t)
}

func ParseOrderType(s string) (OrderType, error) {
	return orderTypeNames.parse(s)
}

func OrderTypes() []OrderType {
	return orderTypeNames.all()
}

// TimeInForce DAY, GTC, IOC, FOC, GTD
type TimeInForce uint8

const (
	_time_in_force_beg TimeInForce = iota
	TimeInForceDAY
	TimeInForceGTC
	TimeInForceIOC
	TimeInForceFOC
	TimeInForceGTD
	_time_in_force_end
)

var timeInForceNames = newNames("time in force", _time_in_force_beg, _time_in_force_end,
	"DAY",
	"GTC",
	"IOC",
	"FOC",
	"GTD",
)

func (t TimeInForce) IsAvailable() bool {
	return t > _time_in_force_beg && t < _time_in_force_end
}

func (t TimeInForce) String() string {
	return timeInForceNames.name(t)
}

func ParseTimeInForce(s string) (TimeInForce, error) {
	return timeInForceNames.parse(s)
}

func TimeInForces() []TimeInForce {
	return timeInForceNames.all()
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus uint8

const (
	_order_status_beg OrderStatus = iota
	OrderStatusInitialized
	OrderStatusSubmitted
	OrderStatusAccepted
	OrderStatusRejected
	OrderStatusWorking
	OrderStatusCancelled
	OrderStatusExpired
	OrderStatusPartiallyFilled
	OrderStatusFilled
	_order_status_end
)

var orderStatusNames = newNames("order status", _order_status_beg, _order_status_end,
	"INITIALIZED",
	"SUBMITTED",
	"ACCEPTED",
	"REJECTED",
	"WORKING",
	"CANCELLED",
	"EXPIRED",
	"PARTIALLY_FILLED",
	"FILLED",
)

func (s OrderStatus) IsAvailable() bool {
	return s > _order_status_beg && s < _order_status_end
}

// IsTerminal reports whether no further lifecycle event may be applied.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusRejected, OrderStatusCancelled, OrderStatusExpired, OrderStatusFilled:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return orderStatusNames.name(s)
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	return orderStatusNames.parse(s)
}

func OrderStatuses() []OrderStatus {
	return orderStatusNames.all()
}
