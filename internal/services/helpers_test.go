package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"eventbook-backend/internal/models"
	"eventbook-backend/internal/pubsub"
	"eventbook-backend/internal/repository"
)

// countingEventRepo records every call that reaches storage
type countingEventRepo struct {
	*repository.MemoryEventRepository

	mu    sync.Mutex
	calls int
}

func (r *countingEventRepo) count() {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
}

func (r *countingEventRepo) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *countingEventRepo) Upsert(ctx context.Context, e *models.Event) (*models.Event, error) {
	r.count()
	return r.MemoryEventRepository.Upsert(ctx, e)
}

func (r *countingEventRepo) GetByID(ctx context.Context, id string) (*models.Event, error) {
	r.count()
	return r.MemoryEventRepository.GetByID(ctx, id)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	clock     *testClock
	events    *countingEventRepo
	favorites *repository.MemoryFavoriteRepository
	broker    *pubsub.LocalBroker

	eventService    *EventService
	favoriteService *FavoriteService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock:     newTestClock(),
		events:    &countingEventRepo{MemoryEventRepository: repository.NewMemoryEventRepository()},
		favorites: repository.NewMemoryFavoriteRepository(),
		broker:    pubsub.NewLocalBroker(),
	}
	f.eventService = NewEventService(f.events, f.broker)
	f.eventService.now = f.clock.Now
	f.favoriteService = NewFavoriteService(f.favorites, f.events)
	f.favoriteService.now = f.clock.Now

	t.Cleanup(func() { _ = f.broker.Close() })
	return f
}

func (f *fixture) create(t *testing.T, userID, title string) *models.Event {
	t.Helper()
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	event, err := f.eventService.Save(context.Background(), userID, models.EventInput{
		Title:       title,
		Description: title + " description",
		Date:        &date,
	})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return event
}
