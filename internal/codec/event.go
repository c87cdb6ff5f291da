package codec

import (
	"fmt"

	"tradecore/internal/event"
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
	"tradecore/pkg/exception"
)

// EncodeEvent encodes e as a tagged wire map.
func EncodeEvent(e event.Event) ([]byte, error) {
	kind := event.KindOf(e)
	if !kind.IsAvailable() {
		return nil, fmt.Errorf("%w: %T", exception.ErrCodecUnknownEvent, e)
	}

	h := e.Meta()
	m := map[string]any{
		keyType:           TypeEvent,
		keyEvent:          kind.String(),
		keyEventID:        h.ID.String(),
		keyEventTimestamp: formatTime(h.Timestamp),
	}

	switch e := e.(type) {
	case event.OrderInitialized:
		m[keyOrderID] = string(e.OrderID)
		m[keySymbol] = e.Symbol.String()
		m[keyLabel] = optLabel(e.Label)
		m[keyOrderSide] = e.Side.String()
		m[keyOrderType] = e.Type.String()
		m[keyQuantity] = int64(e.Quantity)
		m[keyPrice] = optPrice(e.Price)
		m[keyTimeInForce] = e.TimeInForce.String()
		m[keyExpireTime] = optTime(e.ExpireTime)
	case event.OrderSubmitted:
		m[keyOrderID] = string(e.OrderID)
		m[keySubmittedTime] = formatTime(e.SubmittedTime)
	case event.OrderAccepted:
		m[keyOrderID] = string(e.OrderID)
		m[keyAcceptedTime] = formatTime(e.AcceptedTime)
	case event.OrderRejected:
		m[keyOrderID] = string(e.OrderID)
		m[keyRejectedTime] = formatTime(e.RejectedTime)
		m[keyRejectedReason] = e.RejectedReason
	case event.OrderWorking:
		m[keyOrderID] = string(e.OrderID)
		m[keyOrderIDBroker] = string(e.OrderIDBroker)
		m[keySymbol] = e.Symbol.String()
		m[keyLabel] = optLabel(e.Label)
		m[keyOrderSide] = e.Side.String()
		m[keyOrderType] = e.Type.String()
		m[keyQuantity] = int64(e.Quantity)
		m[keyPrice] = optPrice(e.Price)
		m[keyTimeInForce] = e.TimeInForce.String()
		m[keyExpireTime] = optTime(e.ExpireTime)
		m[keyWorkingTime] = formatTime(e.WorkingTime)
	case event.OrderModified:
		m[keyOrderID] = string(e.OrderID)
		m[keyOrderIDBroker] = string(e.OrderIDBroker)
		m[keyModifiedPrice] = e.ModifiedPrice.String()
		m[keyModifiedTime] = formatTime(e.ModifiedTime)
	case event.OrderCancelled:
		m[keyOrderID] = string(e.OrderID)
		m[keyCancelledTime] = formatTime(e.CancelledTime)
	case event.OrderCancelReject:
		m[keyOrderID] = string(e.OrderID)
		m[keyRejectedTime] = formatTime(e.RejectedTime)
		m[keyRejectedResponse] = e.RejectedResponse
		m[keyRejectedReason] = e.RejectedReason
	case event.OrderExpired:
		m[keyOrderID] = string(e.OrderID)
		m[keyExpiredTime] = formatTime(e.ExpiredTime)
	case event.OrderPartiallyFilled:
		m[keyOrderID] = string(e.OrderID)
		m[keyExecutionID] = string(e.ExecutionID)
		m[keyExecutionTicket] = string(e.ExecutionTicket)
		m[keySymbol] = e.Symbol.String()
		m[keyOrderSide] = e.Side.String()
		m[keyFilledQuantity] = int64(e.FilledQuantity)
		m[keyLeavesQuantity] = int64(e.LeavesQuantity)
		m[keyAveragePrice] = e.AveragePrice.String()
		m[keyExecutionTime] = formatTime(e.ExecutionTime)
	case event.OrderFilled:
		m[keyOrderID] = string(e.OrderID)
		m[keyExecutionID] = string(e.ExecutionID)
		m[keyExecutionTicket] = string(e.ExecutionTicket)
		m[keySymbol] = e.Symbol.String()
		m[keyOrderSide] = e.Side.String()
		m[keyFilledQuantity] = int64(e.FilledQuantity)
		m[keyAveragePrice] = e.AveragePrice.String()
		m[keyExecutionTime] = formatTime(e.ExecutionTime)
	case event.AccountEvent:
		m[keyAccountID] = string(e.AccountID)
		m[keyBroker] = e.Broker.String()
		m[keyAccountNumber] = string(e.AccountNumber)
		m[keyCurrency] = e.Currency.String()
		m[keyCashBalance] = e.CashBalance.String()
		m[keyCashStartDay] = e.CashStartDay.String()
		m[keyCashActivityDay] = e.CashActivityDay.String()
		m[keyMarginUsedLiquidation] = e.MarginUsedLiquidation.String()
		m[keyMarginUsedMaintenance] = e.MarginUsedMaintenance.String()
		m[keyMarginRatio] = e.MarginRatio.String()
		m[keyMarginCallStatus] = e.MarginCallStatus
	}
	return pack(m)
}

// DecodeEvent decodes an event wire map. Any missing or malformed field
// rejects the whole message.
func DecodeEvent(data []byte) (event.Event, error) {
	m, err := unpack(data)
	if err != nil {
		return nil, err
	}

	r := newReader(m)
	if typ := r.string(keyType); r.err == nil && typ != TypeEvent {
		return nil, fmt.Errorf("%w: %q", exception.ErrCodecUnknownType, typ)
	}
	name := r.string(keyEvent)
	if r.err != nil {
		return nil, r.err
	}
	kind, ok := event.ParseKind(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", exception.ErrCodecUnknownEvent, name)
	}

	h := event.Header{
		ID:        r.guid(keyEventID),
		Timestamp: r.time(keyEventTimestamp),
	}
	e := decodeEventBody(r, kind, h)
	if r.err != nil {
		return nil, r.err
	}
	return e, nil
}

func decodeEventBody(r *reader, kind event.Kind, h event.Header) event.Event {
	if kind == event.KindAccountEvent {
		return event.AccountEvent{
			Header:                h,
			AccountID:             identifier(r, keyAccountID, model.NewAccountID),
			Broker:                enumerated(r, keyBroker, enum.ParseBroker),
			AccountNumber:         identifier(r, keyAccountNumber, model.NewAccountNumber),
			Currency:              enumerated(r, keyCurrency, enum.ParseCurrency),
			CashBalance:           r.money(keyCashBalance),
			CashStartDay:          r.money(keyCashStartDay),
			CashActivityDay:       r.money(keyCashActivityDay),
			MarginUsedLiquidation: r.money(keyMarginUsedLiquidation),
			MarginUsedMaintenance: r.money(keyMarginUsedMaintenance),
			MarginRatio:           r.decimal(keyMarginRatio),
			MarginCallStatus:      r.string(keyMarginCallStatus),
		}
	}

	orderID := identifier(r, keyOrderID, model.NewOrderID)
	switch kind {
	case event.KindOrderInitialized:
		return event.OrderInitialized{
			Header:      h,
			OrderID:     orderID,
			Symbol:      r.symbol(keySymbol),
			Label:       r.optLabel(keyLabel),
			Side:        enumerated(r, keyOrderSide, enum.ParseOrderSide),
			Type:        enumerated(r, keyOrderType, enum.ParseOrderType),
			Quantity:    r.quantity(keyQuantity),
			Price:       r.optPrice(keyPrice),
			TimeInForce: enumerated(r, keyTimeInForce, enum.ParseTimeInForce),
			ExpireTime:  r.optTime(keyExpireTime),
		}
	case event.KindOrderSubmitted:
		return event.OrderSubmitted{
			Header:        h,
			OrderID:       orderID,
			SubmittedTime: r.time(keySubmittedTime),
		}
	case event.KindOrderAccepted:
		return event.OrderAccepted{
			Header:       h,
			OrderID:      orderID,
			AcceptedTime: r.time(keyAcceptedTime),
		}
	case event.KindOrderRejected:
		return event.OrderRejected{
			Header:         h,
			OrderID:        orderID,
			RejectedTime:   r.time(keyRejectedTime),
			RejectedReason: r.string(keyRejectedReason),
		}
	case event.KindOrderWorking:
		return event.OrderWorking{
			Header:        h,
			OrderID:       orderID,
			OrderIDBroker: identifier(r, keyOrderIDBroker, model.NewOrderIDBroker),
			Symbol:        r.symbol(keySymbol),
			Label:         r.optLabel(keyLabel),
			Side:          enumerated(r, keyOrderSide, enum.ParseOrderSide),
			Type:          enumerated(r, keyOrderType, enum.ParseOrderType),
			Quantity:      r.quantity(keyQuantity),
			Price:         r.optPrice(keyPrice),
			TimeInForce:   enumerated(r, keyTimeInForce, enum.ParseTimeInForce),
			ExpireTime:    r.optTime(keyExpireTime),
			WorkingTime:   r.time(keyWorkingTime),
		}
	case event.KindOrderModified:
		return event.OrderModified{
			Header:        h,
			OrderID:       orderID,
			OrderIDBroker: identifier(r, keyOrderIDBroker, model.NewOrderIDBroker),
			ModifiedPrice: r.price(keyModifiedPrice),
			ModifiedTime:  r.time(keyModifiedTime),
		}
	case event.KindOrderCancelled:
		return event.OrderCancelled{
			Header:        h,
			OrderID:       orderID,
			CancelledTime: r.time(keyCancelledTime),
		}
	case event.KindOrderCancelReject:
		return event.OrderCancelReject{
			Header:           h,
			OrderID:          orderID,
			RejectedTime:     r.time(keyRejectedTime),
			RejectedResponse: r.string(keyRejectedResponse),
			RejectedReason:   r.string(keyRejectedReason),
		}
	case event.KindOrderExpired:
		return event.OrderExpired{
			Header:      h,
			OrderID:     orderID,
			ExpiredTime: r.time(keyExpiredTime),
		}
	case event.KindOrderPartiallyFilled:
		return event.OrderPartiallyFilled{
			Header:          h,
			OrderID:         orderID,
			ExecutionID:     identifier(r, keyExecutionID, model.NewExecutionID),
			ExecutionTicket: identifier(r, keyExecutionTicket, model.NewExecutionTicket),
			Symbol:          r.symbol(keySymbol),
			Side:            enumerated(r, keyOrderSide, enum.ParseOrderSide),
			FilledQuantity:  r.quantity(keyFilledQuantity),
			LeavesQuantity:  r.quantity(keyLeavesQuantity),
			AveragePrice:    r.price(keyAveragePrice),
			ExecutionTime:   r.time(keyExecutionTime),
		}
	case event.KindOrderFilled:
		return event.OrderFilled{
			Header:          h,
			OrderID:         orderID,
			ExecutionID:     identifier(r, keyExecutionID, model.NewExecutionID),
			ExecutionTicket: identifier(r, keyExecutionTicket, model.NewExecutionTicket),
			Symbol:          r.symbol(keySymbol),
			Side:            enumerated(r, keyOrderSide, enum.ParseOrderSide),
			FilledQuantity:  r.quantity(keyFilledQuantity),
			AveragePrice:    r.price(keyAveragePrice),
			ExecutionTime:   r.time(keyExecutionTime),
		}
	}
	return nil
}
