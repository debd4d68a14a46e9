package services

import (
	"context"
	"errors"
	"sync"

	"eventbook-backend/internal/apperr"
	"eventbook-backend/internal/models"
	"eventbook-backend/internal/pubsub"
)

var errFeedClosed = errors.New("change feed closed")

// EventFeed streams snapshots of a user's events. Each snapshot is a fresh
// slice owned by the receiver. The channel is closed when the feed ends.
type EventFeed struct {
	snapshots chan []models.Event
	cancel    context.CancelFunc
	done      chan struct{}

	mu  sync.Mutex
	err error
}

// WatchOwned subscribes to the events created by userID. The first snapshot
// reflects the state at subscription time; another follows every change.
// Call Close, or cancel ctx, to stop the feed.
func (s *EventService) WatchOwned(ctx context.Context, userID string) (*EventFeed, error) {
	// Subscribe before the first read so no change can fall between the two.
	sub, err := s.broker.Subscribe(ctx, pubsub.EventsTopic(userID))
	if err != nil {
		return nil, apperr.Remote("failed to subscribe to event changes", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	feed := &EventFeed{
		snapshots: make(chan []models.Event),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go feed.run(ctx, sub, func(ctx context.Context) ([]models.Event, error) {
		return s.eventRepo.ListByCreator(ctx, userID)
	})

	return feed, nil
}

// Snapshots returns the snapshot channel
func (f *EventFeed) Snapshots() <-chan []models.Event {
	return f.snapshots
}

// Err returns the error that ended the feed, or nil if it was closed by the consumer
func (f *EventFeed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close stops the feed and releases its subscription. It is safe to call more than once.
func (f *EventFeed) Close() {
	f.cancel()
	<-f.done
}

func (f *EventFeed) run(ctx context.Context, sub pubsub.Subscription, list func(context.Context) ([]models.Event, error)) {
	defer close(f.done)
	defer close(f.snapshots)
	defer sub.Close()

	for {
		events, err := list(ctx)
		if err != nil {
			if ctx.Err() == nil {
				f.fail(err)
			}
			return
		}

		select {
		case f.snapshots <- events:
		case <-ctx.Done():
			return
		}

		select {
		case _, ok := <-sub.C():
			if !ok {
				f.fail(apperr.Remote("event subscription ended", errFeedClosed))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (f *EventFeed) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}
