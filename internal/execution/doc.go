/*
Execution routes strategy commands to a broker adapter and broker events back
to the strategy that owns the order.

# Module
  - client: strategy registry, order registry and command routing
  - order state: one lifecycle state machine per registered order
  - queries: order, strategy and position lookups over the registries

# Source
 1. commands from registered strategies
 2. events from the broker adapter (backend socket or in-process paper broker)
 3. journal replay from the replay tool

# Produce
  - commands to the broker adapter
  - order events to the owning strategy

# Sharded
  - none
*/
package execution
