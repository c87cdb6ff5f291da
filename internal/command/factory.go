package command

import (
	"tradecore/internal/clock"
	"tradecore/internal/model"
)

// Factory stamps new commands for one trader with a fresh GUID and the
// current instant.
type Factory struct {
	traderID model.TraderID
	guids    model.GUIDFactory
	clock    clock.Clock
}

func NewFactory(traderID model.TraderID, guids model.GUIDFactory, clk clock.Clock) *Factory {
	return &Factory{traderID: traderID, guids: guids, clock: clk}
}

func (f *Factory) header() Header {
	return Header{ID: f.guids.NewGUID(), Timestamp: f.clock.Now()}
}

func (f *Factory) CollateralInquiry() CollateralInquiry {
	return CollateralInquiry{Header: f.header()}
}

func (f *Factory) SubmitOrder(strategyID model.StrategyID, positionID model.PositionID, order model.Order) SubmitOrder {
	return SubmitOrder{
		Header:     f.header(),
		TraderID:   f.traderID,
		StrategyID: strategyID,
		PositionID: positionID,
		Order:      order,
	}
}

func (f *Factory) SubmitAtomicOrder(strategyID model.StrategyID, positionID model.PositionID, atomic model.AtomicOrder) SubmitAtomicOrder {
	return SubmitAtomicOrder{
		Header:      f.header(),
		TraderID:    f.traderID,
		StrategyID:  strategyID,
		PositionID:  positionID,
		AtomicOrder: atomic,
	}
}

func (f *Factory) ModifyOrder(strategyID model.StrategyID, orderID model.OrderID, price model.Price) ModifyOrder {
	return ModifyOrder{
		Header:        f.header(),
		TraderID:      f.traderID,
		StrategyID:    strategyID,
		OrderID:       orderID,
		ModifiedPrice: price,
	}
}

func (f *Factory) CancelOrder(strategyID model.StrategyID, orderID model.OrderID, reason string) CancelOrder {
	return CancelOrder{
		Header:       f.header(),
		TraderID:     f.traderID,
		StrategyID:   strategyID,
		OrderID:      orderID,
		CancelReason: reason,
	}
}
