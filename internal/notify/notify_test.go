package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusPublish(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(SourceChanged, func(n Notification) { got = append(got, "first:"+n.Period) })
	bus.Subscribe(SourceChanged, func(n Notification) { got = append(got, "second:"+n.Period) })
	bus.Subscribe(TargetChanged, func(Notification) { got = append(got, "target") })

	bus.Publish(Notification{Event: SourceChanged, Period: "2024-03"})
	assert.Equal(t, []string{"first:2024-03", "second:2024-03"}, got, "handlers run in subscription order")
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(GroupsChanged, func(Notification) { calls++ })
	other := 0
	bus.Subscribe(GroupsChanged, func(Notification) { other++ })

	bus.Publish(Notification{Event: GroupsChanged})
	unsubscribe()
	unsubscribe()
	bus.Publish(Notification{Event: GroupsChanged})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
}

func TestBusHandlerMaySubscribe(t *testing.T) {
	bus := NewBus()

	late := 0
	bus.Subscribe(Reset, func(Notification) {
		bus.Subscribe(Reset, func(Notification) { late++ })
	})

	bus.Publish(Notification{Event: Reset})
	assert.Equal(t, 0, late, "subscriptions added during delivery wait for the next publish")
	bus.Publish(Notification{Event: Reset})
	assert.Equal(t, 1, late)
}

func TestEventString(t *testing.T) {
	tests := map[Event]string{
		GroupsChanged: "groups-changed",
		SourceChanged: "source-changed",
		TargetChanged: "target-changed",
		Reset:         "reset",
		Event(99):     "unknown",
	}
	for event, want := range tests {
		assert.Equal(t, want, event.String())
	}
}

func TestBusImplementsPublisher(t *testing.T) {
	var _ Publisher = NewBus()
}
