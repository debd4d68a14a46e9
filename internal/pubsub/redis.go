package pubsub

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisChannelPrefix = "eventbook:"

// RedisBroker carries notifications between server instances over Redis pub/sub
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker creates a broker on an existing client. The caller owns the client.
func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

// Publish notifies subscribers of topic on every instance
func (b *RedisBroker) Publish(ctx context.Context, topic string) error {
	if err := b.client.Publish(ctx, redisChannelPrefix+topic, "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe waits for Redis to confirm the subscription before returning,
// so a Publish issued afterwards is never missed.
func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	ps := b.client.Subscribe(ctx, redisChannelPrefix+topic)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	sub := &redisSubscription{
		ps:    ps,
		topic: topic,
		ch:    make(chan struct{}, 1),
	}
	go sub.forward()

	return sub, nil
}

// Close is a no-op; the Redis client is closed by its owner
func (b *RedisBroker) Close() error {
	return nil
}

type redisSubscription struct {
	ps    *redis.PubSub
	topic string
	ch    chan struct{}
}

func (s *redisSubscription) forward() {
	defer close(s.ch)
	for range s.ps.Channel() {
		signal(s.ch)
	}
	log.Debug().Str("topic", s.topic).Msg("Redis subscription closed")
}

func (s *redisSubscription) C() <-chan struct{} {
	return s.ch
}

func (s *redisSubscription) Close() error {
	return s.ps.Close()
}
