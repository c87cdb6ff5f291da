package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/clock"
	"tradecore/internal/model"
)

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		parsed, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}
	_, ok := ParseKind("OrderFilled")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Kind(0).String())
}

func TestFactory(t *testing.T) {
	now := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFactory("TESTER-000", model.RandomGUIDFactory{}, clock.NewStopped(now))

	cmds := []Command{
		f.CollateralInquiry(),
		f.SubmitOrder("S-1", "P-1", model.Order{ID: "O-1"}),
		f.SubmitAtomicOrder("S-1", "P-1", model.AtomicOrder{Entry: model.Order{ID: "O-2"}}),
		f.ModifyOrder("S-1", "O-1", model.MustPrice("1.00010")),
		f.CancelOrder("S-1", "O-1", "EXPIRED"),
	}

	seen := make(map[model.GUID]struct{}, len(cmds))
	for i, c := range cmds {
		assert.Equal(t, Kinds()[i], KindOf(c))
		assert.Equal(t, now, c.Meta().Timestamp)
		_, dup := seen[c.Meta().ID]
		assert.False(t, dup, "guid reused")
		seen[c.Meta().ID] = struct{}{}
	}

	submit := cmds[1].(SubmitOrder)
	assert.Equal(t, model.TraderID("TESTER-000"), submit.TraderID)
	assert.Equal(t, model.PositionID("P-1"), submit.PositionID)
}

func TestKindOfPointerIsUnavailable(t *testing.T) {
	assert.False(t, KindOf(&CancelOrder{}).IsAvailable())
}
