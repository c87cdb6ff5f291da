package codec

import (
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
	"tradecore/pkg/exception"
)

// EncodeOrder encodes an order definition. A nil order encodes as the empty
// map, the null-order sentinel.
func EncodeOrder(o *model.Order) ([]byte, error) {
	return pack(orderMap(o))
}

// DecodeOrder decodes an order definition. The null-order sentinel decodes
// as nil with no error.
func DecodeOrder(data []byte) (*model.Order, error) {
	m, err := unpack(data)
	if err != nil {
		return nil, err
	}
	return orderFromMap(m)
}

func orderMap(o *model.Order) map[string]any {
	if o == nil {
		return map[string]any{}
	}
	return map[string]any{
		keyID:          string(o.ID),
		keySymbol:      o.Symbol.String(),
		keyOrderSide:   o.Side.String(),
		keyOrderType:   o.Type.String(),
		keyQuantity:    int64(o.Quantity),
		keyPrice:       optPrice(o.Price),
		keyLabel:       optLabel(o.Label),
		keyTimeInForce: o.TimeInForce.String(),
		keyExpireTime:  optTime(o.ExpireTime),
		keyTimestamp:   formatTime(o.Timestamp),
		keyInitID:      o.InitID.String(),
	}
}

func orderFromMap(m map[string]any) (*model.Order, error) {
	if len(m) == 0 {
		return nil, nil
	}

	r := newReader(m)
	o := model.Order{
		ID:          identifier(r, keyID, model.NewOrderID),
		Symbol:      r.symbol(keySymbol),
		Side:        enumerated(r, keyOrderSide, enum.ParseOrderSide),
		Type:        enumerated(r, keyOrderType, enum.ParseOrderType),
		Quantity:    r.quantity(keyQuantity),
		Price:       r.optPrice(keyPrice),
		Label:       r.optLabel(keyLabel),
		TimeInForce: enumerated(r, keyTimeInForce, enum.ParseTimeInForce),
		ExpireTime:  r.optTime(keyExpireTime),
		Timestamp:   r.time(keyTimestamp),
		InitID:      r.guid(keyInitID),
	}
	if r.err != nil {
		return nil, r.err
	}
	if err := o.Validate(); err != nil {
		return nil, invalid(err)
	}
	return &o, nil
}

// order reads a nested order field that must be present and not null.
func (r *reader) order(key string) model.Order {
	o := r.optOrder(key)
	if r.err != nil {
		return model.Order{}
	}
	if o == nil {
		r.fail(key, exception.ErrCodecNullOrder)
		return model.Order{}
	}
	return *o
}

// optOrder reads a nested order field that may be the null-order sentinel.
func (r *reader) optOrder(key string) *model.Order {
	m := r.mapField(key)
	if r.err != nil {
		return nil
	}
	o, err := orderFromMap(m)
	if err != nil {
		r.fail(key, err)
		return nil
	}
	return o
}
