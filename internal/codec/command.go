package codec

import (
	"fmt"

	"tradecore/internal/command"
	"tradecore/internal/model"
	"tradecore/pkg/exception"
)

// EncodeCommand encodes c as a tagged wire map.
func EncodeCommand(c command.Command) ([]byte, error) {
	kind := command.KindOf(c)
	if !kind.IsAvailable() {
		return nil, fmt.Errorf("%w: %T", exception.ErrCodecUnknownCommand, c)
	}

	h := c.Meta()
	m := map[string]any{
		keyType:             TypeCommand,
		keyCommand:          kind.String(),
		keyCommandID:        h.ID.String(),
		keyCommandTimestamp: formatTime(h.Timestamp),
	}

	switch c := c.(type) {
	case command.CollateralInquiry:
	case command.SubmitOrder:
		m[keyTraderID] = string(c.TraderID)
		m[keyStrategyID] = string(c.StrategyID)
		m[keyPositionID] = string(c.PositionID)
		m[keyOrder] = orderMap(&c.Order)
	case command.SubmitAtomicOrder:
		m[keyTraderID] = string(c.TraderID)
		m[keyStrategyID] = string(c.StrategyID)
		m[keyPositionID] = string(c.PositionID)
		m[keyEntry] = orderMap(&c.AtomicOrder.Entry)
		m[keyStopLoss] = orderMap(c.AtomicOrder.StopLoss)
		m[keyTakeProfit] = orderMap(c.AtomicOrder.TakeProfit)
	case command.ModifyOrder:
		m[keyTraderID] = string(c.TraderID)
		m[keyStrategyID] = string(c.StrategyID)
		m[keyOrderID] = string(c.OrderID)
		m[keyModifiedPrice] = c.ModifiedPrice.String()
	case command.CancelOrder:
		m[keyTraderID] = string(c.TraderID)
		m[keyStrategyID] = string(c.StrategyID)
		m[keyOrderID] = string(c.OrderID)
		m[keyCancelReason] = c.CancelReason
	}
	return pack(m)
}

// DecodeCommand decodes a command wire map. Any missing or malformed field
// rejects the whole message.
func DecodeCommand(data []byte) (command.Command, error) {
	m, err := unpack(data)
	if err != nil {
		return nil, err
	}

	r := newReader(m)
	if typ := r.string(keyType); r.err == nil && typ != TypeCommand {
		return nil, fmt.Errorf("%w: %q", exception.ErrCodecUnknownType, typ)
	}
	name := r.string(keyCommand)
	if r.err != nil {
		return nil, r.err
	}
	kind, ok := command.ParseKind(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", exception.ErrCodecUnknownCommand, name)
	}

	h := command.Header{
		ID:        r.guid(keyCommandID),
		Timestamp: r.time(keyCommandTimestamp),
	}

	var c command.Command
	switch kind {
	case command.KindCollateralInquiry:
		c = command.CollateralInquiry{Header: h}
	case command.KindSubmitOrder:
		c = command.SubmitOrder{
			Header:     h,
			TraderID:   identifier(r, keyTraderID, model.NewTraderID),
			StrategyID: identifier(r, keyStrategyID, model.NewStrategyID),
			PositionID: identifier(r, keyPositionID, model.NewPositionID),
			Order:      r.order(keyOrder),
		}
	case command.KindSubmitAtomicOrder:
		legs := model.AtomicOrder{
			Entry:      r.order(keyEntry),
			StopLoss:   r.optOrder(keyStopLoss),
			TakeProfit: r.optOrder(keyTakeProfit),
		}
		if r.err == nil {
			if err := legs.Validate(); err != nil {
				r.fail(keyEntry, invalid(err))
			}
		}
		c = command.SubmitAtomicOrder{
			Header:      h,
			TraderID:    identifier(r, keyTraderID, model.NewTraderID),
			StrategyID:  identifier(r, keyStrategyID, model.NewStrategyID),
			PositionID:  identifier(r, keyPositionID, model.NewPositionID),
			AtomicOrder: legs,
		}
	case command.KindModifyOrder:
		c = command.ModifyOrder{
			Header:        h,
			TraderID:      identifier(r, keyTraderID, model.NewTraderID),
			StrategyID:    identifier(r, keyStrategyID, model.NewStrategyID),
			OrderID:       identifier(r, keyOrderID, model.NewOrderID),
			ModifiedPrice: r.price(keyModifiedPrice),
		}
	case command.KindCancelOrder:
		c = command.CancelOrder{
			Header:       h,
			TraderID:     identifier(r, keyTraderID, model.NewTraderID),
			StrategyID:   identifier(r, keyStrategyID, model.NewStrategyID),
			OrderID:      identifier(r, keyOrderID, model.NewOrderID),
			CancelReason: r.string(keyCancelReason),
		}
	}

	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}
