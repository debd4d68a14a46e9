// Package pubsub delivers "something changed" notifications for a topic.
//
// Notifications carry no payload: subscribers re-read the current state when
// one arrives. Pending notifications are coalesced, so a slow subscriber sees
// at most one queued signal per topic no matter how many writes happened.
package pubsub

import "context"

// Broker publishes and subscribes to change notifications
type Broker interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(ctx context.Context, topic string) (Subscription, error)
	Close() error
}

// Subscription receives notifications for one topic until closed
type Subscription interface {
	C() <-chan struct{}
	Close() error
}

// EventsTopic is the topic carrying changes to the events owned by a user
func EventsTopic(ownerID string) string {
	return "events:owner:" + ownerID
}

// signal queues a notification without blocking, dropping it if one is already pending
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
