package pubsub

import (
	"context"
	"sync"
)

// LocalBroker fans notifications out to subscribers in the same process
type LocalBroker struct {
	mu     sync.RWMutex
	topics map[string]map[*localSubscription]struct{}
}

// NewLocalBroker creates an in-process broker
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{topics: make(map[string]map[*localSubscription]struct{})}
}

// Publish notifies every current subscriber of topic
func (b *LocalBroker) Publish(_ context.Context, topic string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.topics[topic] {
		signal(sub.ch)
	}
	return nil
}

// Subscribe registers a new subscriber for topic
func (b *LocalBroker) Subscribe(_ context.Context, topic string) (Subscription, error) {
	sub := &localSubscription{
		broker: b,
		topic:  topic,
		ch:     make(chan struct{}, 1),
	}

	b.mu.Lock()
	subs, ok := b.topics[topic]
	if !ok {
		subs = make(map[*localSubscription]struct{})
		b.topics[topic] = subs
	}
	subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub, nil
}

// Close drops every subscriber
func (b *LocalBroker) Close() error {
	b.mu.Lock()
	topics := b.topics
	b.topics = make(map[string]map[*localSubscription]struct{})
	b.mu.Unlock()

	for _, subs := range topics {
		for sub := range subs {
			sub.closeChannel()
		}
	}
	return nil
}

func (b *LocalBroker) remove(sub *localSubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.topics[sub.topic]
	delete(subs, sub)
	if len(subs) == 0 {
		delete(b.topics, sub.topic)
	}
}

// subscribers returns the number of live subscriptions on topic
func (b *LocalBroker) subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

type localSubscription struct {
	broker *LocalBroker
	topic  string
	ch     chan struct{}
	once   sync.Once
}

func (s *localSubscription) C() <-chan struct{} {
	return s.ch
}

func (s *localSubscription) Close() error {
	s.broker.remove(s)
	s.closeChannel()
	return nil
}

// closeChannel runs after the subscription left the broker's map, so no
// Publish can send on the closed channel.
func (s *localSubscription) closeChannel() {
	s.once.Do(func() { close(s.ch) })
}
