package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalKeepsScale(t *testing.T) {
	testCases := []struct {
		desc      string
		input     string
		expected  string
		precision int32
	}{
		{"trailing zeros", "1.10000", "1.10000", 5},
		{"integer", "100", "100", 0},
		{"negative", "-0.50", "-0.50", 2},
		{"exponent", "1E-5", "0.00001", 5},
		{"positive exponent", "1.5e3", "1500", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			d, err := ParseDecimal(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, d.String())
			assert.Equal(t, tc.precision, d.Precision())

			again, err := ParseDecimal(d.String())
			require.NoError(t, err)
			assert.Equal(t, d, again)
		})
	}
}

func TestDecimalInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "0x10", "1e-2000000000", "1e33", "0.000000000000000000000000000000001"} {
		_, err := ParseDecimal(s)
		require.ErrorIs(t, err, ErrInvalidDecimal, s)
	}
}

func TestDecimalExponentBound(t *testing.T) {
	d, err := ParseDecimal("1e-32")
	require.NoError(t, err)
	assert.Equal(t, int32(MaxDecimalExponent), d.Precision())

	d, err = ParseDecimal("1e32")
	require.NoError(t, err)
	assert.Len(t, d.String(), MaxDecimalExponent+1)

	_, err = ParsePrice("1e-50000000")
	require.ErrorIs(t, err, ErrInvalidDecimal)
	_, err = ParseMoney("-5e40")
	require.ErrorIs(t, err, ErrInvalidDecimal)
}

func TestDecimalValue(t *testing.T) {
	d := MustDecimal("1.10000")
	assert.True(t, d.Value().Equal(decimal.RequireFromString("1.1")))
	assert.True(t, Decimal{}.Value().IsZero())
	assert.True(t, Decimal{}.IsZero())
	assert.Equal(t, "1.10", DecimalFrom(decimal.RequireFromString("1.1"), 2).String())
}

func TestPrice(t *testing.T) {
	p, err := ParsePrice("1.10000")
	require.NoError(t, err)
	assert.Equal(t, "1.10000", p.String())
	assert.Equal(t, MustPrice("1.10000"), p)
	assert.NotEqual(t, MustPrice("1.1"), p)

	_, err = ParsePrice("0")
	require.ErrorIs(t, err, ErrInvalidPrice)
	_, err = ParsePrice("-1.5")
	require.ErrorIs(t, err, ErrInvalidPrice)
	_, err = NewPrice(Decimal{})
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestMoney(t *testing.T) {
	m, err := ParseMoney("-1500.00")
	require.NoError(t, err)
	assert.Equal(t, "-1500.00", m.String())
	assert.Equal(t, -1, m.Sign())

	_, err = ParseMoney("ten")
	require.ErrorIs(t, err, ErrInvalidDecimal)
}

func TestQuantity(t *testing.T) {
	q, err := NewQuantity(100000)
	require.NoError(t, err)
	assert.Equal(t, "100000", q.String())

	_, err = NewQuantity(-1)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSymbol(t *testing.T) {
	testCases := []struct {
		desc  string
		input string
		code  string
		venue Venue
		valid bool
	}{
		{"fx", "AUDUSD.FXCM", "AUDUSD", "FXCM", true},
		{"dotted code", "BRK.B.NYSE", "BRK.B", "NYSE", true},
		{"no venue", "AUDUSD", "", "", false},
		{"trailing dot", "AUDUSD.", "", "", false},
		{"leading dot", ".FXCM", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			s, err := ParseSymbol(tc.input)
			if !tc.valid {
				require.ErrorIs(t, err, ErrInvalidSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.code, s.Code)
			assert.Equal(t, tc.venue, s.Venue)
			assert.Equal(t, tc.input, s.String())
		})
	}
}

func TestIdentifiers(t *testing.T) {
	id, err := NewOrderID("O-123")
	require.NoError(t, err)
	assert.Equal(t, OrderID("O-123"), id)

	_, err = NewStrategyID("")
	require.ErrorIs(t, err, ErrEmptyIdentifier)
	_, err = NewLabel("")
	require.ErrorIs(t, err, ErrEmptyIdentifier)
}

func TestGUID(t *testing.T) {
	a, b := NewGUID(), NewGUID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
	assert.True(t, GUID{}.IsZero())

	parsed, err := ParseGUID(a.String())
	require.NoError(t, err)
	assert.Equal(t, a, parsed)

	_, err = ParseGUID("not-a-guid")
	require.Error(t, err)

	var factory GUIDFactory = RandomGUIDFactory{}
	assert.NotEqual(t, factory.NewGUID(), factory.NewGUID())
}
