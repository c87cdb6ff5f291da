/*
Journal records every wire frame crossing the backend socket, in order.

# Module
  - writer: append one row per frame with its decoded header
  - reader: batched replay in sequence order

# Source
  - command frames sent by the backend adapter
  - event frames received by the backend adapter

# Produce
  - frames to the replay tool

# Sharded
  - none
*/
package journal
