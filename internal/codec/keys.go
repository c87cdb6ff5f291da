package codec

// Field names of the wire vocabulary. Encoders and decoders read these
// constants only, so every name written is a name that can be read back.
const (
	keyType    = "Type"
	keyCommand = "Command"
	keyEvent   = "Event"

	keyCommandID        = "CommandId"
	keyCommandTimestamp = "CommandTimestamp"
	keyEventID          = "EventId"
	keyEventTimestamp   = "EventTimestamp"

	keyTraderID   = "TraderId"
	keyStrategyID = "StrategyId"
	keyPositionID = "PositionId"
	keyOrder      = "Order"
	keyEntry      = "Entry"
	keyStopLoss   = "StopLoss"
	keyTakeProfit = "TakeProfit"

	keyID            = "Id"
	keyOrderID       = "OrderId"
	keyOrderIDBroker = "OrderIdBroker"
	keySymbol        = "Symbol"
	keyLabel         = "Label"
	keyOrderSide     = "OrderSide"
	keyOrderType     = "OrderType"
	keyQuantity      = "Quantity"
	keyPrice         = "Price"
	keyTimeInForce   = "TimeInForce"
	keyExpireTime    = "ExpireTime"
	keyTimestamp     = "Timestamp"
	keyInitID        = "InitId"

	keyModifiedPrice    = "ModifiedPrice"
	keyCancelReason     = "CancelReason"
	keySubmittedTime    = "SubmittedTime"
	keyAcceptedTime     = "AcceptedTime"
	keyRejectedTime     = "RejectedTime"
	keyRejectedReason   = "RejectedReason"
	keyRejectedResponse = "RejectedResponse"
	keyWorkingTime      = "WorkingTime"
	keyModifiedTime     = "ModifiedTime"
	keyCancelledTime    = "CancelledTime"
	keyExpiredTime      = "ExpiredTime"

	keyExecutionID     = "ExecutionId"
	keyExecutionTicket = "ExecutionTicket"
	keyFilledQuantity  = "FilledQuantity"
	keyLeavesQuantity  = "LeavesQuantity"
	keyAveragePrice    = "AveragePrice"
	keyExecutionTime   = "ExecutionTime"

	keyAccountID             = "AccountId"
	keyBroker                = "Broker"
	keyAccountNumber         = "AccountNumber"
	keyCurrency              = "Currency"
	keyCashBalance           = "CashBalance"
	keyCashStartDay          = "CashStartDay"
	keyCashActivityDay       = "CashActivityDay"
	keyMarginUsedLiquidation = "MarginUsedLiquidation"
	keyMarginUsedMaintenance = "MarginUsedMaintenance"
	keyMarginRatio           = "MarginRatio"
	keyMarginCallStatus      = "MarginCallStatus"

	keyBrokerSymbol          = "BrokerSymbol"
	keyQuoteCurrency         = "QuoteCurrency"
	keySecurityType          = "SecurityType"
	keyTickPrecision         = "TickPrecision"
	keyTickSize              = "TickSize"
	keyRoundLotSize          = "RoundLotSize"
	keyMinStopDistanceEntry  = "MinStopDistanceEntry"
	keyMinLimitDistanceEntry = "MinLimitDistanceEntry"
	keyMinStopDistance       = "MinStopDistance"
	keyMinLimitDistance      = "MinLimitDistance"
	keyMinTradeSize          = "MinTradeSize"
	keyMaxTradeSize          = "MaxTradeSize"
	keyMarginRequirement     = "MarginRequirement"
	keyRolloverInterestBuy   = "RolloverInterestBuy"
	keyRolloverInterestSell  = "RolloverInterestSell"
)

// Values of the Type discriminator.
const (
	TypeCommand = "Command"
	TypeEvent   = "Event"
)

// TimeLayout is the fixed timestamp format on the wire. Instants are written
// in UTC with nanosecond digits so they parse back to the identical instant.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"
