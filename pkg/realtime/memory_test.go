package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, ch <-chan Event) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		return ev, ok
	case <-time.After(200 * time.Millisecond):
		return Event{}, false
	}
}

func TestMemoryBrokerFiltersByBusiness(t *testing.T) {
	b := NewMemoryBroker(zap.NewNop())
	defer b.Close()

	bizA, bizB := uuid.New(), uuid.New()
	chA, unsubA := b.Subscribe(bizA)
	defer unsubA()
	chAll, unsubAll := b.Subscribe(uuid.Nil)
	defer unsubAll()

	require.NoError(t, b.Publish(context.Background(), Event{Type: EventTestimonialCreated, BusinessID: bizB, Name: "Bo"}))
	require.NoError(t, b.Publish(context.Background(), Event{Type: EventTestimonialCreated, BusinessID: bizA, Name: "Al"}))

	ev, ok := receive(t, chA)
	require.True(t, ok)
	assert.Equal(t, "Al", ev.Name)

	first, ok := receive(t, chAll)
	require.True(t, ok)
	second, ok := receive(t, chAll)
	require.True(t, ok)
	assert.Equal(t, []string{"Bo", "Al"}, []string{first.Name, second.Name})
}

func TestMemoryBrokerDropsWhenFull(t *testing.T) {
	b := NewMemoryBroker(zap.NewNop())
	defer b.Close()

	biz := uuid.New()
	ch, unsub := b.Subscribe(biz)
	defer unsub()

	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, b.Publish(context.Background(), Event{BusinessID: biz}))
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewMemoryBroker(zap.NewNop())
	ch, unsub := b.Subscribe(uuid.New())
	unsub()
	unsub()

	_, ok := <-ch
	assert.False(t, ok)

	require.NoError(t, b.Close())
	late, _ := b.Subscribe(uuid.New())
	_, ok = <-late
	assert.False(t, ok)
}
