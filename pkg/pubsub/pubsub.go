// Package pubsub is the in-process event bus between the simulation
// engine and its consumers (TUI, HTTP API). Publishing never blocks:
// a subscriber that falls behind loses events rather than stalling
// the step loop.
package pubsub

import (
	"context"
	"sync"
)

// Topic identifies an event stream
type Topic string

const (
	// TopicStep carries one event per applied simulation step
	TopicStep Topic = "sim.step"
	// TopicTransition carries individual node/connection state changes
	TopicTransition Topic = "sim.transition"
	// TopicReset fires when the graph is rebuilt for a process type
	TopicReset Topic = "sim.reset"
)

// subscriberBuffer bounds how far a slow consumer can lag
const subscriberBuffer = 64

// Bus provides publish/subscribe for simulation events
type Bus struct {
	subscribers map[Topic]map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
}

// Subscription represents a subscription to a topic
type Subscription struct {
	topic     Topic
	channel   chan any
	bus       *Bus
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[Topic]map[*Subscription]bool),
		shutdown:    make(chan struct{}),
	}
}

// Subscribe creates a new subscription to a topic. The subscription
// is torn down when ctx is cancelled or the bus shuts down.
func (b *Bus) Subscribe(ctx context.Context, topic Topic) *Subscription {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return nil
	}
	b.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:   topic,
		channel: make(chan any, subscriberBuffer),
		bus:     b,
		cancel:  cancel,
	}

	b.mu.Lock()
	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[*Subscription]bool)
	}
	b.subscribers[topic][sub] = true
	b.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			// Shutdown closes every channel under the lock
		}
	}()

	return sub
}

// Publish sends an event to every subscriber of a topic. Sends are
// non-blocking; a full subscriber channel drops the event. The read
// lock is held across the sends so a concurrent Unsubscribe or
// Shutdown cannot close a channel mid-send.
func (b *Bus) Publish(topic Topic, event any) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.shutdownMu.Unlock()

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers[topic] {
		select {
		case sub.channel <- event:
		default:
			// Slow consumer, drop
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}

// Shutdown closes all subscriptions and stops the bus
func (b *Bus) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	b.mu.Lock()
	for topic := range b.subscribers {
		for sub := range b.subscribers[topic] {
			sub.close()
		}
		delete(b.subscribers, topic)
	}
	b.mu.Unlock()
}

// Channel returns the subscription's event channel
func (s *Subscription) Channel() <-chan any {
	return s.channel
}

// Unsubscribe removes the subscription. The channel is closed under
// the bus lock, after the subscription is out of the map, so no
// publish can race the close.
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if s.bus.subscribers[s.topic] != nil {
		delete(s.bus.subscribers[s.topic], s)
		if len(s.bus.subscribers[s.topic]) == 0 {
			delete(s.bus.subscribers, s.topic)
		}
	}

	s.close()
}

// close closes the subscription channel safely (idempotent)
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
