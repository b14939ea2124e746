// Package pubsub provides a simple publish-subscribe mechanism for plot
// change notifications.
package pubsub

import (
	"sync"

	"github.com/lucsky/cuid"
)

// Topic represents a subscription topic.
type Topic string

const (
	TopicPlotUpdated Topic = "PLOT_UPDATED"
	TopicPlotDeleted Topic = "PLOT_DELETED"
)

// PlotEvent is the message published on plot topics.
type PlotEvent struct {
	Type   string `json:"type"` // "saved" or "deleted"
	PlotID string `json:"plotId"`
}

// Subscriber represents a subscription channel.
type Subscriber struct {
	ID      string
	Topic   Topic
	Filter  string // Optional filter value (the owning user id)
	Channel chan interface{}
	done    chan struct{}
}

// Done is closed when the subscription has been removed. The message channel
// itself is never closed, so a concurrent Publish can always send safely.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// PubSub manages subscriptions and message distribution.
type PubSub struct {
	mu          sync.RWMutex
	subscribers map[Topic][]*Subscriber
}

// New creates a new PubSub instance.
func New() *PubSub {
	return &PubSub{
		subscribers: make(map[Topic][]*Subscriber),
	}
}

// Subscribe creates a new subscription for a topic.
func (ps *PubSub) Subscribe(topic Topic, filter string, bufferSize int) *Subscriber {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sub := &Subscriber{
		ID:      cuid.New(),
		Topic:   topic,
		Filter:  filter,
		Channel: make(chan interface{}, bufferSize),
		done:    make(chan struct{}),
	}

	ps.subscribers[topic] = append(ps.subscribers[topic], sub)
	return sub
}

// Unsubscribe removes a subscription and closes its done channel. The
// message channel stays open: a Publish that snapshotted the subscriber list
// before the removal may still be sending on it.
func (ps *PubSub) Unsubscribe(sub *Subscriber) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	subs := ps.subscribers[sub.Topic]
	for i, s := range subs {
		if s.ID == sub.ID {
			ps.subscribers[sub.Topic] = append(subs[:i], subs[i+1:]...)
			close(s.done)
			return
		}
	}
}

// Publish sends a message to all subscribers of a topic.
// If filter is non-empty, only sends to subscribers with matching filter or empty filter.
func (ps *PubSub) Publish(topic Topic, filter string, message interface{}) {
	ps.mu.RLock()
	subs := ps.subscribers[topic]
	ps.mu.RUnlock()

	for _, sub := range subs {
		// Send if no filter or filters match
		if sub.Filter == "" || filter == "" || sub.Filter == filter {
			select {
			case sub.Channel <- message:
				// Message sent
			default:
				// Channel full, skip (non-blocking)
			}
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic.
func (ps *PubSub) SubscriberCount(topic Topic) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers[topic])
}
