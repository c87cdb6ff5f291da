package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yanun0323/errors"
)

var ErrEmptyIdentifier = errors.New("model: empty identifier")

type (
	TraderID        string
	StrategyID      string
	PositionID      string
	OrderID         string
	OrderIDBroker   string
	AccountID       string
	AccountNumber   string
	ExecutionID     string
	ExecutionTicket string
	Label           string
)

func newIdentifier[T ~string](kind, value string) (T, error) {
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyIdentifier, kind)
	}
	return T(value), nil
}

func NewTraderID(s string) (TraderID, error)     { return newIdentifier[TraderID]("trader id", s) }
func NewStrategyID(s string) (StrategyID, error) { return newIdentifier[StrategyID]("strategy id", s) }
func NewPositionID(s string) (PositionID, error) { return newIdentifier[PositionID]("position id", s) }
func NewOrderID(s string) (OrderID, error)       { return newIdentifier[OrderID]("order id", s) }
func NewAccountID(s string) (AccountID, error)   { return newIdentifier[AccountID]("account id", s) }
func NewLabel(s string) (Label, error)           { return newIdentifier[Label]("label", s) }

func NewOrderIDBroker(s string) (OrderIDBroker, error) {
	return newIdentifier[OrderIDBroker]("broker order id", s)
}

func NewAccountNumber(s string) (AccountNumber, error) {
	return newIdentifier[AccountNumber]("account number", s)
}

func NewExecutionID(s string) (ExecutionID, error) {
	return newIdentifier[ExecutionID]("execution id", s)
}

func NewExecutionTicket(s string) (ExecutionTicket, error) {
	return newIdentifier[ExecutionTicket]("execution ticket", s)
}

func (id OrderID) String() string    { return string(id) }
func (id StrategyID) String() string { return string(id) }
func (id PositionID) String() string { return string(id) }

// GUID identifies a single command or event. It is minted once at creation
// and never reused.
type GUID uuid.UUID

// NewGUID returns a random (version 4) GUID.
func NewGUID() GUID {
	return GUID(uuid.New())
}

func ParseGUID(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, errors.Wrap(err, "parse guid")
	}
	return GUID(u), nil
}

func (g GUID) String() string {
	return uuid.UUID(g).String()
}

func (g GUID) IsZero() bool {
	return g == GUID{}
}

// GUIDFactory mints GUIDs for new commands and events.
type GUIDFactory interface {
	NewGUID() GUID
}

// RandomGUIDFactory mints version 4 GUIDs.
type RandomGUIDFactory struct{}

func (RandomGUIDFactory) NewGUID() GUID {
	return NewGUID()
}
