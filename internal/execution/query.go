package execution

import (
	"tradecore/internal/model"
	"tradecore/internal/og"
)

func (c *Client) OrderExists(id model.OrderID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.orders[id]
	return ok
}

func (c *Client) OrderActive(id model.OrderID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.active[id]
	return ok
}

func (c *Client) OrderComplete(id model.OrderID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.completed[id]
	return ok
}

// GetOrder returns the order definition, which is kept after the order
// completes.
func (c *Client) GetOrder(id model.OrderID) (model.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.orders[id]
	return o, ok
}

// GetOrderState returns the lifecycle state of an order.
func (c *Client) GetOrderState(id model.OrderID) (og.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lifecycle.Order(id)
}

func (c *Client) GetStrategyForOrder(id model.OrderID) (model.StrategyID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sid, ok := c.orderStrategy[id]
	return sid, ok
}

func (c *Client) GetPositionForOrder(id model.OrderID) (model.PositionID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pid, ok := c.orderPosition[id]
	return pid, ok
}

// GetOrders returns every order of a strategy.
func (c *Client) GetOrders(sid model.StrategyID) map[model.OrderID]model.Order {
	return c.strategyOrders(sid, nil)
}

// GetOrdersActive returns the active orders of a strategy.
func (c *Client) GetOrdersActive(sid model.StrategyID) map[model.OrderID]model.Order {
	return c.strategyOrders(sid, c.active)
}

// GetOrdersCompleted returns the completed orders of a strategy.
func (c *Client) GetOrdersCompleted(sid model.StrategyID) map[model.OrderID]model.Order {
	return c.strategyOrders(sid, c.completed)
}

func (c *Client) GetOrdersAll() map[model.OrderID]model.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[model.OrderID]model.Order, len(c.orders))
	for id, o := range c.orders {
		out[id] = o
	}
	return out
}

func (c *Client) GetOrdersActiveAll() map[model.OrderID]model.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(c.active)
}

func (c *Client) GetOrdersCompletedAll() map[model.OrderID]model.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(c.completed)
}

// EventCount is the number of events applied since the last reset.
func (c *Client) EventCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.eventCount
}

// CommandCount is the number of commands dispatched since the last reset.
func (c *Client) CommandCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commandCount
}

// strategyOrders filters the orders of sid by set; a nil set selects all.
func (c *Client) strategyOrders(sid model.StrategyID, set map[model.OrderID]struct{}) map[model.OrderID]model.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()

	owned := c.byStrategy[sid]
	out := make(map[model.OrderID]model.Order, len(owned))
	for id := range owned {
		if set != nil {
			if _, ok := set[id]; !ok {
				continue
			}
		}
		out[id] = c.orders[id]
	}
	return out
}

func (c *Client) collect(set map[model.OrderID]struct{}) map[model.OrderID]model.Order {
	out := make(map[model.OrderID]model.Order, len(set))
	for id := range set {
		out[id] = c.orders[id]
	}
	return out
}
