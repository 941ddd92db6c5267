package shopping

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/events"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/routes/filters"
	"philcali.me/groceries/internal/sse"
)

const DEFAULT_KEEPALIVE = 15 * time.Second

// EventStream serves GET /shopping-list/{listId}/events. It streams, so it is
// mounted next to the router rather than behind it.
type EventStream struct {
	Registry  *events.Registry
	Lists     data.ShoppingListDataService
	Cors      *filters.CorsFilter
	KeepAlive time.Duration
}

func (es *EventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()
	listId := mux.Vars(r)["listId"]
	var list data.ShoppingListDTO
	var err error
	if listId == CURRENT_LIST {
		list, err = es.Lists.Current(ctx)
	} else {
		list, err = es.Lists.Get(ctx, listId)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Registered before the response starts so nothing committed after the
	// client sees the headers is missed.
	subscription := es.Registry.Subscribe(list.ID)
	defer es.Registry.Unsubscribe(subscription)

	w.Header().Set("Content-Type", sse.CONTENT_TYPE)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	if es.Cors != nil {
		if allowed := es.Cors.AllowOrigin(r.Header.Get("Origin")); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
		}
	}
	w.WriteHeader(http.StatusOK)

	encoder := sse.NewEncoder(w)
	if err := encoder.Comment("connected"); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := es.KeepAlive
	if keepAlive <= 0 {
		keepAlive = DEFAULT_KEEPALIVE
	}
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	slog.DebugContext(ctx, "stream opened", "list", list.ID)
	defer slog.DebugContext(ctx, "stream closed", "list", list.ID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := encoder.Comment("keep-alive"); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-subscription.Events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event.Payload)
			if err != nil {
				slog.ErrorContext(ctx, "failed to encode event", "event", event.Name(), "error", err)
				continue
			}
			if err := encoder.Encode(sse.Event{Name: string(event.Name()), Data: payload}); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := map[string]interface{}{"message": "Internal server error"}
	if re, ok := exceptions.AsRequestError(err); ok && re.ToServiceError().StatusCode < 500 {
		status = re.ToServiceError().StatusCode
		body = map[string]interface{}{"message": re.Error(), "extra": re.Extra()}
	} else {
		slog.ErrorContext(r.Context(), "failed to open stream", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
