package strategy

import (
	"fmt"
	"sync"

	"tradecore/internal/execution"
	"tradecore/internal/model"
	"tradecore/pkg/exception"
)

// Base carries the identity and client binding every strategy needs. Embed
// it and implement HandleEvent.
type Base struct {
	id model.StrategyID

	mu     sync.Mutex
	client *execution.Client
}

func NewBase(id model.StrategyID) *Base {
	return &Base{id: id}
}

func (b *Base) ID() model.StrategyID {
	return b.id
}

// RegisterExecutionClient binds the strategy to c. Rebinding to the same
// client is allowed; binding to another one fails.
func (b *Base) RegisterExecutionClient(c *execution.Client) error {
	if c == nil {
		return fmt.Errorf("%w: execution client", exception.ErrNilInstance)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil && b.client != c {
		return fmt.Errorf("%w: %s", exception.ErrExecutionStrategyBound, b.id)
	}
	b.client = c
	return nil
}

// Client returns the bound client, or nil before registration.
func (b *Base) Client() *execution.Client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.client
}
