package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const subscriberBuffer = 32

type subscriber struct {
	businessID uuid.UUID
	ch         chan Event
}

type MemoryBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
	closed bool
	logger *zap.Logger
}

func NewMemoryBroker(logger *zap.Logger) *MemoryBroker {
	return &MemoryBroker{
		subs:   make(map[int]*subscriber),
		logger: logger,
	}
}

func (b *MemoryBroker) Publish(_ context.Context, ev Event) error {
	b.dispatch(ev)
	return nil
}

// dispatch hands ev to every matching subscriber, dropping it for any whose buffer is full.
func (b *MemoryBroker) dispatch(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs {
		if s.businessID != uuid.Nil && s.businessID != ev.BusinessID {
			continue
		}
		select {
		case s.ch <- ev:
		default:
			b.logger.Warn("dropping realtime event for slow subscriber",
				zap.String("type", string(ev.Type)),
				zap.String("business_id", ev.BusinessID.String()))
		}
	}
}

func (b *MemoryBroker) Subscribe(businessID uuid.UUID) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = &subscriber{businessID: businessID, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if s, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(s.ch)
			}
		})
	}
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, s := range b.subs {
		close(s.ch)
		delete(b.subs, id)
	}
	return nil
}
