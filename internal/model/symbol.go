package model

import (
	"fmt"
	"strings"

	"github.com/yanun0323/errors"
)

var ErrInvalidSymbol = errors.New("model: invalid symbol")

// Venue is the trading venue part of a symbol.
type Venue string

// Symbol identifies an instrument at a venue, written as CODE.VENUE.
type Symbol struct {
	Code  string
	Venue Venue
}

func NewSymbol(code string, venue Venue) (Symbol, error) {
	if code == "" || venue == "" || strings.Contains(string(venue), ".") {
		return Symbol{}, fmt.Errorf("%w: %q %q", ErrInvalidSymbol, code, venue)
	}
	return Symbol{Code: code, Venue: venue}, nil
}

// ParseSymbol splits on the last dot.
func ParseSymbol(s string) (Symbol, error) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return Symbol{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return Symbol{Code: s[:i], Venue: Venue(s[i+1:])}, nil
}

func MustSymbol(s string) Symbol {
	sym, err := ParseSymbol(s)
	if err != nil {
		panic(err)
	}
	return sym
}

func (s Symbol) String() string {
	return s.Code + "." + string(s.Venue)
}

func (s Symbol) IsZero() bool {
	return s.Code == "" && s.Venue == ""
}
