package events

import (
	"testing"

	"github.com/hugohenrick/erp-ledger/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker(logger.NewNop())
	first, cancelFirst := b.Subscribe(4)
	second, cancelSecond := b.Subscribe(4)
	defer cancelSecond()

	b.Publish(ChangeEvent{Collection: CollectionSales, ID: "s1", Kind: KindCreated})

	ev := <-first
	assert.Equal(t, "s1", ev.ID)
	assert.False(t, ev.At.IsZero())
	assert.Equal(t, "s1", (<-second).ID)

	cancelFirst()
	cancelFirst()
	_, open := <-first
	assert.False(t, open)
	assert.Equal(t, 1, b.Subscribers())
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := NewBroker(logger.NewNop())
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(
		ChangeEvent{Collection: CollectionAccounts, ID: "a1", Kind: KindUpdated},
		ChangeEvent{Collection: CollectionAccounts, ID: "a2", Kind: KindUpdated},
	)

	require.Len(t, ch, 1)
	assert.Equal(t, "a1", (<-ch).ID)
}

func TestBrokerCloseEndsSubscriptions(t *testing.T) {
	b := NewBroker(logger.NewNop())
	ch, cancel := b.Subscribe(4)

	b.Close()
	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, b.Subscribers())

	require.NotPanics(t, cancel)
	require.NotPanics(t, func() {
		b.Publish(ChangeEvent{Collection: CollectionSales, ID: "s1", Kind: KindCreated})
	})

	late, cancelLate := b.Subscribe(4)
	defer cancelLate()
	_, open = <-late
	assert.False(t, open)
	assert.Zero(t, b.Subscribers())
}
