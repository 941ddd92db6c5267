package events

import (
	"context"

	"philcali.me/groceries/internal/data"
)

// EventFilter is a handler of committed domain events. Apply is only called
// for events Filter accepts.
type EventFilter interface {
	Filter(event data.DomainEvent) bool
	Apply(ctx context.Context, event data.DomainEvent) error
}
