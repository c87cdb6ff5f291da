package obs

import (
	"sync/atomic"
	"time"

	"tradecore/internal/command"
	"tradecore/internal/event"
)

// Metrics collects lightweight counters and latency stats of an execution
// client and its transport. A nil *Metrics discards everything.
type Metrics struct {
	eventCounts        [event.KindCount]uint64
	commandCounts      [command.KindCount]uint64
	unknownOrders      uint64
	invalidTransitions uint64
	commandErrors      uint64
	decodeErrors       uint64
	queueStalls        uint64
	queueClosed        uint64

	eventLatency   LatencyStats
	commandLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	EventCounts        map[event.Kind]uint64
	CommandCounts      map[command.Kind]uint64
	UnknownOrders      uint64
	InvalidTransitions uint64
	CommandErrors      uint64
	DecodeErrors       uint64
	QueueStalls        uint64
	QueueClosed        uint64
	EventLatency       LatencySnapshot
	CommandLatency     LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveEvent counts an applied event and, when the receive time is known,
// the delay between the broker stamping it and its arrival.
func (m *Metrics) ObserveEvent(kind event.Kind, stamped, received time.Time) {
	if m == nil {
		return
	}
	idx := int(kind)
	if idx >= 0 && idx < len(m.eventCounts) {
		atomic.AddUint64(&m.eventCounts[idx], 1)
	}
	if !stamped.IsZero() && !received.IsZero() {
		m.eventLatency.Observe(received.Sub(stamped))
	}
}

// ObserveCommand counts a dispatched command and the adapter call duration.
func (m *Metrics) ObserveCommand(kind command.Kind, d time.Duration) {
	if m == nil {
		return
	}
	idx := int(kind)
	if idx >= 0 && idx < len(m.commandCounts) {
		atomic.AddUint64(&m.commandCounts[idx], 1)
	}
	m.commandLatency.Observe(d)
}

// IncUnknownOrder records an event dropped for an unregistered order.
func (m *Metrics) IncUnknownOrder() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.unknownOrders, 1)
}

// IncInvalidTransition records an event dropped by the lifecycle rules.
func (m *Metrics) IncInvalidTransition() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.invalidTransitions, 1)
}

// IncCommandError records a command the client refused or the adapter failed.
func (m *Metrics) IncCommandError() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.commandErrors, 1)
}

// IncDecodeError records an inbound frame that failed to decode.
func (m *Metrics) IncDecodeError() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.decodeErrors, 1)
}

// IncQueueStall records a publisher that found the queue full and had to wait.
func (m *Metrics) IncQueueStall() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueStalls, 1)
}

// IncQueueClosed records a closed-queue publish attempt.
func (m *Metrics) IncQueueClosed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueClosed, 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	eventCounts := make(map[event.Kind]uint64)
	for i := range m.eventCounts {
		if v := atomic.LoadUint64(&m.eventCounts[i]); v > 0 {
			eventCounts[event.Kind(i)] = v
		}
	}
	commandCounts := make(map[command.Kind]uint64)
	for i := range m.commandCounts {
		if v := atomic.LoadUint64(&m.commandCounts[i]); v > 0 {
			commandCounts[command.Kind(i)] = v
		}
	}
	return Snapshot{
		EventCounts:        eventCounts,
		CommandCounts:      commandCounts,
		UnknownOrders:      atomic.LoadUint64(&m.unknownOrders),
		InvalidTransitions: atomic.LoadUint64(&m.invalidTransitions),
		CommandErrors:      atomic.LoadUint64(&m.commandErrors),
		DecodeErrors:       atomic.LoadUint64(&m.decodeErrors),
		QueueStalls:        atomic.LoadUint64(&m.queueStalls),
		QueueClosed:        atomic.LoadUint64(&m.queueClosed),
		EventLatency:       m.eventLatency.Snapshot(),
		CommandLatency:     m.commandLatency.Snapshot(),
	}
}

// Observe records a duration sample. Negative samples, from clock skew
// between hosts, are ignored.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	// min holds nanos+1 so that zero means no sample yet.
	for {
		cur := atomic.LoadUint64(&l.min)
		if cur != 0 && nanos+1 >= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, cur, nanos+1) {
			break
		}
	}

	for {
		cur := atomic.LoadUint64(&l.max)
		if nanos <= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, cur, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min) - 1),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(sum / count),
	}
}
