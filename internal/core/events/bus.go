package events

import "sync"

// Event names published by the application
const (
	BookModified       = "LIVRE_MODIFIED"
	MemberModified     = "MEMBRE_MODIFIED"
	LoanModified       = "EMPRUNT_MODIFIED"
	LoanViewActivated  = "EMPRUNT_VIEW_ACTIVATED"
	OverdueLoansListed = "EMPRUNTS_EN_RETARD"
)

// Handler receives the payload of a published event
type Handler func(payload any) error

// Subscription identifies one registered handler
type Subscription struct {
	name string
	id   uint64
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus is an in-memory publish/subscribe registry keyed by event name.
//
// Handlers run synchronously on the publisher's goroutine, in subscription
// order. A handler that publishes the event it is handling recurses.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[string][]subscriber
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscribe appends a handler for name
func (b *Bus) Subscribe(name string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[name] = append(b.subs[name], subscriber{id: b.nextID, handler: handler})
	return Subscription{name: name, id: b.nextID}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.name]
	for i, s := range list {
		if s.id == sub.id {
			// copy so a Publish iterating the old slice is unaffected
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			if len(next) == 0 {
				delete(b.subs, sub.name)
			} else {
				b.subs[sub.name] = next
			}
			return
		}
	}
}

// Publish calls every current handler for name and stops at the first error
func (b *Bus) Publish(name string, payload any) error {
	b.mu.RLock()
	list := b.subs[name]
	b.mu.RUnlock()

	for _, s := range list {
		if err := s.handler(payload); err != nil {
			return err
		}
	}
	return nil
}

// Subscribers returns how many handlers are registered for name
func (b *Bus) Subscribers(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}
