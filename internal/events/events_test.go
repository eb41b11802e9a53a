package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishDeliversToSubscribers(t *testing.T) {
	bus := NewEventBus()

	var got *Event
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		got = event
		return nil
	})

	bus.Publish(&Event{Type: EventBookingCreated, Payload: []byte(`{}`)})

	require.NotNil(t, got)
	assert.Equal(t, EventBookingCreated, got.Type)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestEventBus_PublishJSON(t *testing.T) {
	bus := NewEventBus()

	var payloads []BookingEventPayload
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		var p BookingEventPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return err
		}
		payloads = append(payloads, p)
		return nil
	})

	err := bus.PublishJSON(EventBookingCreated, BookingEventPayload{
		BookingID: 7,
		RoomID:    3,
		GuestName: "Alice",
		Nights:    2,
	})
	require.NoError(t, err)

	require.Len(t, payloads, 1)
	assert.Equal(t, int64(7), payloads[0].BookingID)
	assert.Equal(t, int64(3), payloads[0].RoomID)
	assert.Equal(t, "Alice", payloads[0].GuestName)
}

func TestEventBus_SubscribersAreTypeScoped(t *testing.T) {
	bus := NewEventBus()

	var created, cancelled int
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		created++
		return nil
	})
	bus.Subscribe(EventBookingCancelled, func(event *Event) error {
		cancelled++
		return nil
	})

	bus.Publish(&Event{Type: EventBookingCancelled})

	assert.Equal(t, 0, created)
	assert.Equal(t, 1, cancelled)
}

func TestEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewEventBus()

	var second bool
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		return fmt.Errorf("handler failed")
	})
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		second = true
		return nil
	})

	bus.Publish(&Event{Type: EventBookingCreated})

	assert.True(t, second)
}

func TestEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewEventBus()

	var count atomic.Int64
	bus.Subscribe(EventBookingCreated, func(event *Event) error {
		count.Add(1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: 1})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(20), count.Load())
}

func TestEventBus_PublishJSONOnNilBus(t *testing.T) {
	var bus *EventBus
	assert.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{}))
}
