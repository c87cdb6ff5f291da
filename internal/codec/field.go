package codec

import (
	"fmt"
	"time"

	"tradecore/internal/model"
	"tradecore/pkg/exception"
)

// FieldError reports the wire field a decode failed on.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return "field " + e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func invalid(cause error) error {
	return fmt.Errorf("%w: %w", exception.ErrCodecInvalidField, cause)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{exception.ErrCodecInvalidField}, args...)...)
}

// reader pulls typed values out of a decoded wire map. The first failure is
// kept and every later read is a no-op, so a message is accepted or rejected
// as a whole.
type reader struct {
	m   map[string]any
	err error
}

func newReader(m map[string]any) *reader {
	return &reader{m: m}
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = &FieldError{Field: key, Err: err}
	}
}

func (r *reader) raw(key string) (any, bool) {
	if r.err != nil {
		return nil, false
	}
	v, ok := r.m[key]
	if !ok {
		r.fail(key, exception.ErrCodecMissingField)
		return nil, false
	}
	return v, true
}

func (r *reader) string(key string) string {
	v, ok := r.raw(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, invalidf("want string, got %T", v))
		return ""
	}
	return s
}

// optString reads a field that may carry an explicit nil.
func (r *reader) optString(key string) (string, bool) {
	v, ok := r.raw(key)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, invalidf("want string or nil, got %T", v))
		return "", false
	}
	return s, true
}

func (r *reader) int(key string) int64 {
	v, ok := r.raw(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case uint64:
		if n > 1<<63-1 {
			r.fail(key, invalidf("integer %d overflows", n))
			return 0
		}
		return int64(n)
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint32:
		return int64(n)
	case int16:
		return int64(n)
	case uint16:
		return int64(n)
	case int8:
		return int64(n)
	case uint8:
		return int64(n)
	default:
		r.fail(key, invalidf("want integer, got %T", v))
		return 0
	}
}

func (r *reader) quantity(key string) model.Quantity {
	n := r.int(key)
	if r.err != nil {
		return 0
	}
	q, err := model.NewQuantity(n)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return q
}

func (r *reader) decimal(key string) model.Decimal {
	s := r.string(key)
	if r.err != nil {
		return model.Decimal{}
	}
	d, err := model.ParseDecimal(s)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return d
}

func (r *reader) price(key string) model.Price {
	s := r.string(key)
	if r.err != nil {
		return model.Price{}
	}
	p, err := model.ParsePrice(s)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return p
}

// optPrice reads a price that is nil when absent.
func (r *reader) optPrice(key string) model.Price {
	s, ok := r.optString(key)
	if !ok {
		return model.Price{}
	}
	p, err := model.ParsePrice(s)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return p
}

func (r *reader) money(key string) model.Money {
	s := r.string(key)
	if r.err != nil {
		return model.Money{}
	}
	m, err := model.ParseMoney(s)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return m
}

func (r *reader) time(key string) time.Time {
	s := r.string(key)
	if r.err != nil {
		return time.Time{}
	}
	return r.parseTime(key, s)
}

// optTime reads a timestamp that is nil when absent.
func (r *reader) optTime(key string) time.Time {
	s, ok := r.optString(key)
	if !ok {
		return time.Time{}
	}
	return r.parseTime(key, s)
}

func (r *reader) parseTime(key, s string) time.Time {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		r.fail(key, invalid(err))
		return time.Time{}
	}
	return t
}

func (r *reader) guid(key string) model.GUID {
	s := r.string(key)
	if r.err != nil {
		return model.GUID{}
	}
	g, err := model.ParseGUID(s)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return g
}

func (r *reader) symbol(key string) model.Symbol {
	s := r.string(key)
	if r.err != nil {
		return model.Symbol{}
	}
	sym, err := model.ParseSymbol(s)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return sym
}

// optLabel reads a label that is nil when absent. A present label is never
// empty.
func (r *reader) optLabel(key string) model.Label {
	s, ok := r.optString(key)
	if !ok {
		return ""
	}
	l, err := model.NewLabel(s)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return l
}

func (r *reader) mapField(key string) map[string]any {
	v, ok := r.raw(key)
	if !ok {
		return nil
	}
	m, ok := asMap(v)
	if !ok {
		r.fail(key, invalidf("want map, got %T", v))
		return nil
	}
	return m
}

// identifier reads a non-empty identifier with its model constructor.
func identifier[T ~string](r *reader, key string, build func(string) (T, error)) T {
	s := r.string(key)
	if r.err != nil {
		return ""
	}
	id, err := build(s)
	if err != nil {
		r.fail(key, invalid(err))
	}
	return id
}

// enumerated reads an enum through its name table.
func enumerated[T any](r *reader, key string, parse func(string) (T, error)) T {
	var zero T
	s := r.string(key)
	if r.err != nil {
		return zero
	}
	v, err := parse(s)
	if err != nil {
		r.fail(key, invalid(err))
		return zero
	}
	return v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func optTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func optPrice(p model.Price) any {
	if p.IsZero() {
		return nil
	}
	return p.String()
}

func optLabel(l model.Label) any {
	if l == "" {
		return nil
	}
	return string(l)
}
