/*
Package events provides the in-process publish/subscribe bus.

PURPOSE:
  Record mutations (a debt edited, an expense logged) need to reach
  interested parts of the application shell - audit logging, cache
  warming, future websocket pushes - without the handlers knowing who
  listens. The bus replaces the ad hoc cross-component notification
  hacks this grew out of.

OWNERSHIP:
  The bus belongs to the application shell. Engine packages never
  publish or subscribe; they stay pure.

DELIVERY SEMANTICS:
  Subscribers get buffered channels. Publish never blocks: if a
  subscriber's buffer is full the event is dropped for that subscriber
  and the drop is logged. Fine for advisory notifications, wrong for
  anything transactional - don't put transactional work here.
*/
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Topic identifies a class of record change.
type Topic string

const (
	TopicDebtChanged       Topic = "debt.changed"
	TopicIncomeChanged     Topic = "income.changed"
	TopicInvestmentChanged Topic = "investment.changed"
	TopicExpenseChanged    Topic = "expense.changed"
	TopicGoalChanged       Topic = "goal.changed"
)

// Event is one change notification.
type Event struct {
	Topic  Topic     `json:"topic"`
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
}

const subscriberBuffer = 16

type subscriber struct {
	ch     chan Event
	topics map[Topic]bool
}

// Bus fans events out to subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
	log  zerolog.Logger
}

// NewBus creates an empty bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[*subscriber]struct{}),
		log:  log.With().Str("component", "events").Logger(),
	}
}

// Subscribe registers interest in the given topics (all topics when none
// are given). The returned cancel func unregisters and closes the
// channel; call it exactly once.
func (b *Bus) Subscribe(topics ...Topic) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	if len(topics) > 0 {
		sub.topics = make(map[Topic]bool, len(topics))
		for _, t := range topics {
			sub.topics[t] = true
		}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers an event to every matching subscriber without
// blocking.
func (b *Bus) Publish(topic Topic, userID string) {
	event := Event{Topic: topic, UserID: userID, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for sub := range b.subs {
		if sub.topics != nil && !sub.topics[topic] {
			continue
		}
		select {
		case sub.ch <- event:
			delivered++
		default:
			b.log.Warn().Str("topic", string(topic)).Msg("subscriber buffer full, event dropped")
		}
	}
	b.log.Debug().
		Str("topic", string(topic)).
		Str("user_id", userID).
		Int("delivered", delivered).
		Msg("event published")
}
