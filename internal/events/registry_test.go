package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/groceries/internal/data"
)

func deleted(listId string, itemId string) data.DomainEvent {
	return data.DomainEvent{ListId: listId, Payload: data.ItemDeleted{Id: itemId}}
}

func TestRegistry(t *testing.T) {
	t.Run("ScopedToList", func(t *testing.T) {
		registry := NewRegistry(4)
		first := registry.Subscribe("a")
		second := registry.Subscribe("a")
		other := registry.Subscribe("b")

		assert.Equal(t, 2, registry.Broadcast(deleted("a", "x")))
		assert.Equal(t, "x", (<-first.Events).Payload.ItemId())
		assert.Equal(t, "x", (<-second.Events).Payload.ItemId())
		assert.Empty(t, other.Events)
	})

	t.Run("PreservesOrder", func(t *testing.T) {
		registry := NewRegistry(8)
		subscription := registry.Subscribe("a")
		for _, id := range []string{"1", "2", "3"} {
			registry.Broadcast(deleted("a", id))
		}
		for _, id := range []string{"1", "2", "3"} {
			assert.Equal(t, id, (<-subscription.Events).Payload.ItemId())
		}
	})

	t.Run("DropsSlowSubscriber", func(t *testing.T) {
		registry := NewRegistry(1)
		slow := registry.Subscribe("a")
		fast := registry.Subscribe("a")

		assert.Equal(t, 2, registry.Broadcast(deleted("a", "1")))
		<-fast.Events
		assert.Equal(t, 1, registry.Broadcast(deleted("a", "2")))
		assert.Equal(t, 1, registry.Count("a"))

		event, ok := <-slow.Events
		require.True(t, ok)
		assert.Equal(t, "1", event.Payload.ItemId())
		_, ok = <-slow.Events
		assert.False(t, ok, "dropped subscription is closed")
		assert.Equal(t, "2", (<-fast.Events).Payload.ItemId())
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		registry := NewRegistry(1)
		subscription := registry.Subscribe("a")
		registry.Unsubscribe(subscription)
		registry.Unsubscribe(subscription)

		_, ok := <-subscription.Events
		assert.False(t, ok)
		assert.Equal(t, 0, registry.Count("a"))
		assert.False(t, registry.Filter(deleted("a", "1")))
		assert.Equal(t, 0, registry.Broadcast(deleted("a", "1")))
	})

	t.Run("Handler", func(t *testing.T) {
		registry := NewRegistry(1)
		subscription := registry.Subscribe("a")
		event := deleted("a", "1")
		require.True(t, registry.Filter(event))
		require.NoError(t, registry.Apply(context.Background(), event))
		assert.Equal(t, event, <-subscription.Events)
	})
}
