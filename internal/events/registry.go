package events

import (
	"context"
	"log/slog"
	"sync"

	"philcali.me/groceries/internal/data"
)

const DEFAULT_BUFFER = 32

// Subscription is one open event stream on a list. Events is closed when the
// subscription is removed, either by Unsubscribe or because it fell behind.
type Subscription struct {
	ListId string
	Events <-chan data.DomainEvent
	events chan data.DomainEvent
}

// Registry tracks who is listening to which list.
type Registry struct {
	mutex       sync.Mutex
	buffer      int
	subscribers map[string]map[*Subscription]struct{}
}

func NewRegistry(buffer int) *Registry {
	if buffer <= 0 {
		buffer = DEFAULT_BUFFER
	}
	return &Registry{
		buffer:      buffer,
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

func (r *Registry) Subscribe(listId string) *Subscription {
	events := make(chan data.DomainEvent, r.buffer)
	subscription := &Subscription{
		ListId: listId,
		Events: events,
		events: events,
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	listeners, ok := r.subscribers[listId]
	if !ok {
		listeners = make(map[*Subscription]struct{})
		r.subscribers[listId] = listeners
	}
	listeners[subscription] = struct{}{}
	return subscription
}

// Unsubscribe removes the subscription. Calling it more than once is safe.
func (r *Registry) Unsubscribe(subscription *Subscription) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.remove(subscription)
}

func (r *Registry) remove(subscription *Subscription) {
	listeners, ok := r.subscribers[subscription.ListId]
	if !ok {
		return
	}
	if _, ok := listeners[subscription]; !ok {
		return
	}
	delete(listeners, subscription)
	close(subscription.events)
	if len(listeners) == 0 {
		delete(r.subscribers, subscription.ListId)
	}
}

// Broadcast queues the event for every subscriber of its list without
// blocking. Subscribers with a full buffer are dropped. It returns how many
// subscribers received the event.
func (r *Registry) Broadcast(event data.DomainEvent) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	delivered := 0
	for subscription := range r.subscribers[event.ListId] {
		select {
		case subscription.events <- event:
			delivered++
		default:
			slog.Warn("dropping slow subscriber", "list", event.ListId, "event", event.Name())
			r.remove(subscription)
		}
	}
	return delivered
}

func (r *Registry) Count(listId string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.subscribers[listId])
}

func (r *Registry) Filter(event data.DomainEvent) bool {
	return r.Count(event.ListId) > 0
}

func (r *Registry) Apply(ctx context.Context, event data.DomainEvent) error {
	r.Broadcast(event)
	return nil
}
