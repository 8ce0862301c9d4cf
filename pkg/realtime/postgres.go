package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notifyChannel = "trustly_events"

// PostgresBroker publishes through pg_notify and receives through LISTEN, so every instance
// sharing the database sees every event. Local delivery is delegated to a MemoryBroker.
type PostgresBroker struct {
	db       *gorm.DB
	listener *pq.Listener
	local    *MemoryBroker
	logger   *zap.Logger

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewPostgresBroker(dsn string, db *gorm.DB, logger *zap.Logger) (*PostgresBroker, error) {
	report := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("postgres listener event", zap.Int("event", int(ev)), zap.Error(err))
		}
	}

	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, report)
	if err := listener.Listen(notifyChannel); err != nil {
		listener.Close()
		return nil, errors.Wrapf(err, "listen on %s", notifyChannel)
	}

	b := &PostgresBroker{
		db:       db,
		listener: listener,
		local:    NewMemoryBroker(logger),
		logger:   logger,
		done:     make(chan struct{}),
	}
	b.wg.Add(1)
	go b.loop()

	return b, nil
}

func (b *PostgresBroker) loop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			return
		case n, ok := <-b.listener.Notify:
			if !ok {
				return
			}
			// nil is sent after a reconnect; events in the gap are lost
			if n == nil {
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(n.Extra), &ev); err != nil {
				b.logger.Warn("discarding malformed realtime payload", zap.Error(err))
				continue
			}
			b.local.dispatch(ev)
		case <-time.After(90 * time.Second):
			go func() {
				if err := b.listener.Ping(); err != nil {
					b.logger.Warn("postgres listener ping failed", zap.Error(err))
				}
			}()
		}
	}
}

func (b *PostgresBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "encode realtime event")
	}
	err = b.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", notifyChannel, string(payload)).Error
	return errors.Wrap(err, "pg_notify")
}

func (b *PostgresBroker) Subscribe(businessID uuid.UUID) (<-chan Event, func()) {
	return b.local.Subscribe(businessID)
}

func (b *PostgresBroker) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		err = b.listener.Close()
		b.wg.Wait()
		b.local.Close()
	})
	return err
}
