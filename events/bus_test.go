package events_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-engine/events"
)

func newBus() *events.Bus {
	return events.NewBus(zerolog.Nop())
}

func receive(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return events.Event{}
	}
}

func TestBus_DeliversToTopicSubscriber(t *testing.T) {
	bus := newBus()
	ch, cancel := bus.Subscribe(events.TopicDebtChanged)
	defer cancel()

	bus.Publish(events.TopicDebtChanged, "user-1")

	e := receive(t, ch)
	assert.Equal(t, events.TopicDebtChanged, e.Topic)
	assert.Equal(t, "user-1", e.UserID)
}

func TestBus_FiltersOtherTopics(t *testing.T) {
	bus := newBus()
	ch, cancel := bus.Subscribe(events.TopicGoalChanged)
	defer cancel()

	bus.Publish(events.TopicDebtChanged, "user-1")

	select {
	case e := <-ch:
		t.Fatalf("unexpected event %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBus_WildcardSubscriberSeesEverything(t *testing.T) {
	bus := newBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	bus.Publish(events.TopicDebtChanged, "user-1")
	bus.Publish(events.TopicExpenseChanged, "user-1")

	require.Equal(t, events.TopicDebtChanged, receive(t, ch).Topic)
	require.Equal(t, events.TopicExpenseChanged, receive(t, ch).Topic)
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := newBus()
	ch, cancel := bus.Subscribe(events.TopicDebtChanged)
	cancel()

	_, open := <-ch
	assert.False(t, open, "channel should be closed after cancel")

	// Publishing after cancel must not panic.
	bus.Publish(events.TopicDebtChanged, "user-1")
}

func TestBus_PublishNeverBlocks(t *testing.T) {
	bus := newBus()
	_, cancel := bus.Subscribe(events.TopicDebtChanged)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ { // well past the buffer size
			bus.Publish(events.TopicDebtChanged, "user-1")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
