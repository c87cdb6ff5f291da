package exception

import "github.com/yanun0323/errors"

// Execution client errors
var (
	ErrExecutionDuplicateOrder       = errors.New("execution: order id already registered")
	ErrExecutionDuplicateStrategy    = errors.New("execution: strategy already registered")
	ErrExecutionUnknownStrategy      = errors.New("execution: strategy not registered")
	ErrExecutionStrategyBound        = errors.New("execution: strategy registered with another client")
	ErrExecutionUnknownOrder         = errors.New("execution: order not found")
	ErrExecutionInvalidOrder         = errors.New("execution: invalid order")
	ErrExecutionUnsupportedCommand   = errors.New("execution: unsupported command")
	ErrExecutionUnsupportedEvent     = errors.New("execution: unsupported event")
	ErrExecutionOrderNotActive       = errors.New("execution: order is not active")
	ErrExecutionStrategyOrderForeign = errors.New("execution: order belongs to another strategy")
)
