// Package stub provides fixed fixtures for tests across packages.
package stub

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"tradecore/internal/model"
	"tradecore/internal/model/enum"
)

var (
	Time0      = time.Date(2026, 3, 2, 9, 30, 0, 123456789, time.UTC)
	AUDUSD     = model.MustSymbol("AUDUSD.FXCM")
	TraderID   = model.TraderID("TESTER-000")
	StrategyID = model.StrategyID("SCALPER-01")
	PositionID = model.PositionID("P-000001")
	AccountID  = model.AccountID("FXCM-D102412895")
)

// GUIDs mints sequential GUIDs so tests can predict them.
type GUIDs struct {
	n atomic.Uint64
}

func (g *GUIDs) NewGUID() model.GUID {
	var id model.GUID
	binary.BigEndian.PutUint64(id[8:], g.n.Add(1))
	id[6] = 0x40
	id[8] |= 0x80
	return id
}

// GUID returns the n-th GUID a fresh GUIDs would mint.
func GUID(n uint64) model.GUID {
	var id model.GUID
	binary.BigEndian.PutUint64(id[8:], n)
	id[6] = 0x40
	id[8] |= 0x80
	return id
}

func Instrument() model.Instrument {
	return model.Instrument{
		Symbol:                AUDUSD,
		BrokerSymbol:          "AUD/USD",
		QuoteCurrency:         enum.CurrencyUSD,
		SecurityType:          enum.SecurityTypeForex,
		TickPrecision:         5,
		TickSize:              model.MustDecimal("0.00001"),
		RoundLotSize:          1000,
		MinStopDistanceEntry:  1,
		MinLimitDistanceEntry: 1,
		MinStopDistance:       0,
		MinLimitDistance:      0,
		MinTradeSize:          1,
		MaxTradeSize:          50000000,
		MarginRequirement:     model.MustDecimal("0.03"),
		RolloverInterestBuy:   model.MustDecimal("-0.0001"),
		RolloverInterestSell:  model.MustDecimal("0.00005"),
		Timestamp:             Time0,
	}
}

func MarketOrder(id model.OrderID, side enum.OrderSide, qty model.Quantity) model.Order {
	return model.Order{
		ID:          id,
		Symbol:      AUDUSD,
		Side:        side,
		Type:        enum.OrderTypeMarket,
		Quantity:    qty,
		TimeInForce: enum.TimeInForceDAY,
		Timestamp:   Time0,
		InitID:      GUID(1000),
	}
}

func LimitOrder(id model.OrderID, side enum.OrderSide, qty model.Quantity, price string) model.Order {
	o := MarketOrder(id, side, qty)
	o.Type = enum.OrderTypeLimit
	o.Price = model.MustPrice(price)
	return o
}

func StopOrder(id model.OrderID, side enum.OrderSide, qty model.Quantity, price string) model.Order {
	o := LimitOrder(id, side, qty, price)
	o.Type = enum.OrderTypeStopMarket
	o.TimeInForce = enum.TimeInForceGTC
	return o
}

// Registry holds the FXCM venue and the AUDUSD instrument.
func Registry() *model.Registry {
	r := model.NewRegistry()
	if err := r.AddVenue(AUDUSD.Venue); err != nil {
		panic(err)
	}
	if err := r.AddInstrument(Instrument()); err != nil {
		panic(err)
	}
	return r
}
