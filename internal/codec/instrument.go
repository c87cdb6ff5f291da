package codec

import (
	"tradecore/internal/model"
	"tradecore/internal/model/enum"
)

func EncodeInstrument(inst model.Instrument) ([]byte, error) {
	return pack(map[string]any{
		keySymbol:                inst.Symbol.String(),
		keyBrokerSymbol:          inst.BrokerSymbol,
		keyQuoteCurrency:         inst.QuoteCurrency.String(),
		keySecurityType:          inst.SecurityType.String(),
		keyTickPrecision:         int64(inst.TickPrecision),
		keyTickSize:              inst.TickSize.String(),
		keyRoundLotSize:          int64(inst.RoundLotSize),
		keyMinStopDistanceEntry:  int64(inst.MinStopDistanceEntry),
		keyMinLimitDistanceEntry: int64(inst.MinLimitDistanceEntry),
		keyMinStopDistance:       int64(inst.MinStopDistance),
		keyMinLimitDistance:      int64(inst.MinLimitDistance),
		keyMinTradeSize:          int64(inst.MinTradeSize),
		keyMaxTradeSize:          int64(inst.MaxTradeSize),
		keyMarginRequirement:     inst.MarginRequirement.String(),
		keyRolloverInterestBuy:   inst.RolloverInterestBuy.String(),
		keyRolloverInterestSell:  inst.RolloverInterestSell.String(),
		keyTimestamp:             formatTime(inst.Timestamp),
	})
}

func DecodeInstrument(data []byte) (model.Instrument, error) {
	m, err := unpack(data)
	if err != nil {
		return model.Instrument{}, err
	}

	r := newReader(m)
	inst := model.Instrument{
		Symbol:                r.symbol(keySymbol),
		BrokerSymbol:          r.string(keyBrokerSymbol),
		QuoteCurrency:         enumerated(r, keyQuoteCurrency, enum.ParseCurrency),
		SecurityType:          enumerated(r, keySecurityType, enum.ParseSecurityType),
		TickPrecision:         int(r.int(keyTickPrecision)),
		TickSize:              r.decimal(keyTickSize),
		RoundLotSize:          r.quantity(keyRoundLotSize),
		MinStopDistanceEntry:  int(r.int(keyMinStopDistanceEntry)),
		MinLimitDistanceEntry: int(r.int(keyMinLimitDistanceEntry)),
		MinStopDistance:       int(r.int(keyMinStopDistance)),
		MinLimitDistance:      int(r.int(keyMinLimitDistance)),
		MinTradeSize:          r.quantity(keyMinTradeSize),
		MaxTradeSize:          r.quantity(keyMaxTradeSize),
		MarginRequirement:     r.decimal(keyMarginRequirement),
		RolloverInterestBuy:   r.decimal(keyRolloverInterestBuy),
		RolloverInterestSell:  r.decimal(keyRolloverInterestSell),
		Timestamp:             r.time(keyTimestamp),
	}
	if r.err != nil {
		return model.Instrument{}, r.err
	}
	return inst, nil
}
