package events

import (
	"context"
	"log/slog"

	"philcali.me/groceries/internal/data"
)

type Emitter struct {
	handlers []EventFilter
}

func NewEmitter(handlers ...EventFilter) *Emitter {
	return &Emitter{handlers: handlers}
}

// Emit hands the event to every interested handler in registration order.
// A failing handler is logged and does not stop the others.
func (e *Emitter) Emit(ctx context.Context, event data.DomainEvent) {
	for _, handler := range e.handlers {
		if !handler.Filter(event) {
			continue
		}
		if err := handler.Apply(ctx, event); err != nil {
			slog.ErrorContext(ctx, "failed to handle event",
				"event", event.Name(),
				"list", event.ListId,
				"item", event.Payload.ItemId(),
				"error", err,
			)
		}
	}
}
