package command

import (
	"time"

	"tradecore/internal/model"
)

// Header carries the identity every command is created with.
type Header struct {
	ID        model.GUID
	Timestamp time.Time
}

// Meta returns the command header.
func (h Header) Meta() Header {
	return h
}

// Command is an instruction from a strategy to the execution layer. The set
// of variants is closed: CollateralInquiry, SubmitOrder, SubmitAtomicOrder,
// ModifyOrder and CancelOrder.
type Command interface {
	Meta() Header
	command()
}

type CollateralInquiry struct {
	Header
}

type SubmitOrder struct {
	Header
	TraderID   model.TraderID
	StrategyID model.StrategyID
	PositionID model.PositionID
	Order      model.Order
}

type SubmitAtomicOrder struct {
	Header
	TraderID    model.TraderID
	StrategyID  model.StrategyID
	PositionID  model.PositionID
	AtomicOrder model.AtomicOrder
}

type ModifyOrder struct {
	Header
	TraderID      model.TraderID
	StrategyID    model.StrategyID
	OrderID       model.OrderID
	ModifiedPrice model.Price
}

type CancelOrder struct {
	Header
	TraderID     model.TraderID
	StrategyID   model.StrategyID
	OrderID      model.OrderID
	CancelReason string
}

func (CollateralInquiry) command() {}
func (SubmitOrder) command()       {}
func (SubmitAtomicOrder) command() {}
func (ModifyOrder) command()       {}
func (CancelOrder) command()       {}

// Kind enumerates the command variants.
type Kind uint8

const (
	_kind_beg Kind = iota
	KindCollateralInquiry
	KindSubmitOrder
	KindSubmitAtomicOrder
	KindModifyOrder
	KindCancelOrder
	_kind_end
)

// KindCount bounds per-kind counters.
const KindCount = int(_kind_end)

var kindNames = [...]string{
	KindCollateralInquiry: "CollateralInquiry",
	KindSubmitOrder:       "SubmitOrder",
	KindSubmitAtomicOrder: "SubmitAtomicOrder",
	KindModifyOrder:       "ModifyOrder",
	KindCancelOrder:       "CancelOrder",
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

// Kinds returns every command variant.
func Kinds() []Kind {
	out := make([]Kind, 0, KindCount-1)
	for k := _kind_beg + 1; k < _kind_end; k++ {
		out = append(out, k)
	}
	return out
}

// KindOf returns the variant of c. Commands are passed by value; anything
// else reports an unavailable kind.
func KindOf(c Command) Kind {
	switch c.(type) {
	case CollateralInquiry:
		return KindCollateralInquiry
	case SubmitOrder:
		return KindSubmitOrder
	case SubmitAtomicOrder:
		return KindSubmitAtomicOrder
	case ModifyOrder:
		return KindModifyOrder
	case CancelOrder:
		return KindCancelOrder
	default:
		return _kind_beg
	}
}
