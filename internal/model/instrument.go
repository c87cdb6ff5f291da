package model

import (
	"time"

	"tradecore/internal/model/enum"
)

// Instrument is the static market metadata of a tradable symbol.
type Instrument struct {
	Symbol                Symbol
	BrokerSymbol          string
	QuoteCurrency         enum.Currency
	SecurityType          enum.SecurityType
	TickPrecision         int
	TickSize              Decimal
	RoundLotSize          Quantity
	MinStopDistanceEntry  int
	MinLimitDistanceEntry int
	MinStopDistance       int
	MinLimitDistance      int
	MinTradeSize          Quantity
	MaxTradeSize          Quantity
	MarginRequirement     Decimal
	RolloverInterestBuy   Decimal
	RolloverInterestSell  Decimal
	Timestamp             time.Time
}
