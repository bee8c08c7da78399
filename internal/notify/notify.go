// Package notify delivers change notifications to registered handlers.
//
// Notifications carry only identifiers; handlers re-read whatever document
// they care about, so duplicate or reordered deliveries are harmless.
package notify

import (
	"sync"
)

// Event identifies what changed.
type Event int

const (
	// GroupsChanged fires after group membership or metadata changes.
	GroupsChanged Event = iota + 1
	// SourceChanged fires after the source ledger changes.
	SourceChanged
	// TargetChanged fires after the target ledger changes.
	TargetChanged
	// Reset fires after every dataset was cleared.
	Reset
)

func (e Event) String() string {
	switch e {
	case GroupsChanged:
		return "groups-changed"
	case SourceChanged:
		return "source-changed"
	case TargetChanged:
		return "target-changed"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Notification is the payload passed to handlers.
type Notification struct {
	Period   string
	SourceID string
	GroupID  string
	Event    Event
}

// Handler receives notifications.
type Handler func(Notification)

type subscription struct {
	handler Handler
	id      int
}

// Bus is a synchronous observer registry. Handlers run on the publishing
// goroutine, in subscription order, after the publisher has committed its
// change.
type Bus struct {
	subs   map[Event][]subscription
	mu     sync.RWMutex
	nextID int
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Event][]subscription)}
}

// Subscribe registers h for event and returns a function that removes it.
// Calling the returned function more than once is safe.
func (b *Bus) Subscribe(event Event, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[event] = append(b.subs[event], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(event, id) })
	}
}

func (b *Bus) remove(event Event, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[event]
	for i, s := range subs {
		if s.id == id {
			b.subs[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers n to every handler subscribed to n.Event.
func (b *Bus) Publish(n Notification) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[n.Event]))
	copy(subs, b.subs[n.Event])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(n)
	}
}

// Publisher is the sending side of a Bus.
type Publisher interface {
	Publish(Notification)
}
