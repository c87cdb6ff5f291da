package model

import (
	"fmt"
	"sort"
)

// Registry stores venues and the instruments traded on them.
type Registry struct {
	venues      []Venue
	venueIndex  map[Venue]int
	instruments map[Symbol]Instrument
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		venueIndex:  make(map[Venue]int),
		instruments: make(map[Symbol]Instrument),
	}
}

// AddVenue registers a new venue.
func (r *Registry) AddVenue(venue Venue) error {
	if venue == "" {
		return fmt.Errorf("venue name is empty")
	}
	if _, ok := r.venueIndex[venue]; ok {
		return fmt.Errorf("venue already exists: %s", venue)
	}
	r.venueIndex[venue] = len(r.venues)
	r.venues = append(r.venues, venue)
	return nil
}

// AddInstrument registers an instrument on an already registered venue.
func (r *Registry) AddInstrument(inst Instrument) error {
	if inst.Symbol.IsZero() {
		return fmt.Errorf("instrument symbol is empty")
	}
	if _, ok := r.venueIndex[inst.Symbol.Venue]; !ok {
		return fmt.Errorf("venue not found: %s", inst.Symbol.Venue)
	}
	if _, ok := r.instruments[inst.Symbol]; ok {
		return fmt.Errorf("instrument already exists: %s", inst.Symbol)
	}
	r.instruments[inst.Symbol] = inst
	return nil
}

// Instrument returns the instrument for a symbol.
func (r *Registry) Instrument(symbol Symbol) (Instrument, bool) {
	inst, ok := r.instruments[symbol]
	return inst, ok
}

// HasVenue reports whether the venue is registered.
func (r *Registry) HasVenue(venue Venue) bool {
	_, ok := r.venueIndex[venue]
	return ok
}

// Venues returns the venues in registration order.
func (r *Registry) Venues() []Venue {
	out := make([]Venue, len(r.venues))
	copy(out, r.venues)
	return out
}

// Instruments returns every instrument sorted by symbol.
func (r *Registry) Instruments() []Instrument {
	out := make([]Instrument, 0, len(r.instruments))
	for _, inst := range r.instruments {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol.String() < out[j].Symbol.String()
	})
	return out
}

// InstrumentCount returns the number of instruments in the registry.
func (r *Registry) InstrumentCount() int {
	return len(r.instruments)
}
