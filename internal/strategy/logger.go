package strategy

import (
	"sync/atomic"

	"github.com/yanun0323/logs"

	"tradecore/internal/event"
	"tradecore/internal/model"
)

// Logger is a passive strategy that logs every event it receives.
type Logger struct {
	*Base
	received atomic.Uint64
}

func NewLogger(id model.StrategyID) *Logger {
	return &Logger{Base: NewBase(id)}
}

func (l *Logger) HandleEvent(e event.Event) {
	l.received.Add(1)
	id, _ := event.OrderIDOf(e)
	logs.Infof("strategy: %s, event: %s, order: %s, id: %s", l.ID(), event.KindOf(e), id, e.Meta().ID)
}

// Received is the number of events handled.
func (l *Logger) Received() uint64 {
	return l.received.Load()
}
