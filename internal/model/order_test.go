package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model/enum"
)

var _ts = time.Date(2018, 1, 1, 12, 0, 0, 0, time.UTC)

func marketOrder(id OrderID) Order {
	return Order{
		ID:          id,
		Symbol:      MustSymbol("AUDUSD.FXCM"),
		Side:        enum.OrderSideBuy,
		Type:        enum.OrderTypeMarket,
		Quantity:    100000,
		TimeInForce: enum.TimeInForceDAY,
		Timestamp:   _ts,
		InitID:      NewGUID(),
	}
}

func TestOrderValidate(t *testing.T) {
	testCases := []struct {
		desc   string
		mutate func(o *Order)
		valid  bool
	}{
		{"market", func(o *Order) {}, true},
		{"limit with price", func(o *Order) {
			o.Type = enum.OrderTypeLimit
			o.Price = MustPrice("1.00000")
		}, true},
		{"gtd stop", func(o *Order) {
			o.Type = enum.OrderTypeStopMarket
			o.Price = MustPrice("1.00000")
			o.TimeInForce = enum.TimeInForceGTD
			o.ExpireTime = _ts.Add(time.Hour)
		}, true},
		{"empty id", func(o *Order) { o.ID = "" }, false},
		{"no symbol", func(o *Order) { o.Symbol = Symbol{} }, false},
		{"zero quantity", func(o *Order) { o.Quantity = 0 }, false},
		{"unknown side", func(o *Order) { o.Side = 0 }, false},
		{"market with price", func(o *Order) { o.Price = MustPrice("1.0") }, false},
		{"limit without price", func(o *Order) { o.Type = enum.OrderTypeLimit }, false},
		{"gtd without expiry", func(o *Order) { o.TimeInForce = enum.TimeInForceGTD }, false},
		{"day with expiry", func(o *Order) { o.ExpireTime = _ts }, false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			o := marketOrder("O-1")
			tc.mutate(&o)
			_, err := NewOrder(o)
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidOrder)
			}
		})
	}
}

func TestAtomicOrder(t *testing.T) {
	entry := marketOrder("O-1")
	sl := marketOrder("O-2")
	sl.Side = enum.OrderSideSell
	sl.Type = enum.OrderTypeStopMarket
	sl.Price = MustPrice("0.99000")

	a := AtomicOrder{Entry: entry, StopLoss: &sl}
	require.NoError(t, a.Validate())
	assert.Equal(t, OrderID("O-1"), a.ID())
	assert.True(t, a.HasStopLoss())
	assert.False(t, a.HasTakeProfit())
	assert.Equal(t, []Order{entry, sl}, a.Orders())

	dup := marketOrder("O-1")
	a.TakeProfit = &dup
	require.ErrorIs(t, a.Validate(), ErrInvalidOrder)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.AddVenue("FXCM"))
	require.Error(t, reg.AddVenue("FXCM"))
	require.Error(t, reg.AddVenue(""))

	inst := Instrument{Symbol: MustSymbol("AUDUSD.FXCM"), TickPrecision: 5}
	require.NoError(t, reg.AddInstrument(inst))
	require.Error(t, reg.AddInstrument(inst))
	require.Error(t, reg.AddInstrument(Instrument{Symbol: MustSymbol("ES.CME")}))

	got, ok := reg.Instrument(inst.Symbol)
	require.True(t, ok)
	assert.Equal(t, inst, got)
	assert.Equal(t, 1, reg.InstrumentCount())
	assert.Equal(t, []Venue{"FXCM"}, reg.Venues())
	assert.True(t, reg.HasVenue("FXCM"))
}
