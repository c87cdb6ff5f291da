package event

// Kind enumerates the event variants.
type Kind uint8

const (
	_kind_beg Kind = iota
	KindOrderInitialized
	KindOrderSubmitted
	KindOrderAccepted
	KindOrderRejected
	KindOrderWorking
	KindOrderModified
	KindOrderCancelled
	KindOrderCancelReject
	KindOrderExpired
	KindOrderPartiallyFilled
	KindOrderFilled
	KindAccountEvent
	_kind_end
)

// KindCount bounds per-kind counters.
const KindCount = int(_kind_end)

var kindNames = [...]string{
	KindOrderInitialized:     "OrderInitialized",
	KindOrderSubmitted:       "OrderSubmitted",
	KindOrderAccepted:        "OrderAccepted",
	KindOrderRejected:        "OrderRejected",
	KindOrderWorking:         "OrderWorking",
	KindOrderModified:        "OrderModified",
	KindOrderCancelled:       "OrderCancelled",
	KindOrderCancelReject:    "OrderCancelReject",
	KindOrderExpired:         "OrderExpired",
	KindOrderPartiallyFilled: "OrderPartiallyFilled",
	KindOrderFilled:          "OrderFilled",
	KindAccountEvent:         "AccountEvent",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k := _kind_beg + 1; k < _kind_end; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

func (k Kind) IsAvailable() bool {
	return k > _kind_beg && k < _kind_end
}

// String is the variant name used on the wire.
func (k Kind) String() string {
	if !k.IsAvailable() {
		return "Unknown"
	}
	return kindNames[k]
}

// ParseKind resolves a wire variant name.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindByName[s]
	return k, ok
}

// Kinds returns every event variant.
func Kinds() []Kind {
	out := make([]Kind, 0, KindCount-1)
	for k := _kind_beg + 1; k < _kind_end; k++ {
		out = append(out, k)
	}
	return out
}

// KindOf returns the variant of e. Events are passed by value; anything else
// reports an unavailable kind.
func KindOf(e Event) Kind {
	switch e.(type) {
	case OrderInitialized:
		return KindOrderInitialized
	case OrderSubmitted:
		return KindOrderSubmitted
	case OrderAccepted:
		return KindOrderAccepted
	case OrderRejected:
		return KindOrderRejected
	case OrderWorking:
		return KindOrderWorking
	case OrderModified:
		return KindOrderModified
	case OrderCancelled:
		return KindOrderCancelled
	case OrderCancelReject:
		return KindOrderCancelReject
	case OrderExpired:
		return KindOrderExpired
	case OrderPartiallyFilled:
		return KindOrderPartiallyFilled
	case OrderFilled:
		return KindOrderFilled
	case AccountEvent:
		return KindAccountEvent
	default:
		return _kind_beg
	}
}
