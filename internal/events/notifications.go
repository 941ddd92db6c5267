package events

import (
	"context"
	"encoding/json"

	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/notifications"
)

// PublishNotificationHandler forwards every event to the notification topic
// so consumers outside this process can follow list changes.
type PublishNotificationHandler struct {
	Notifications notifications.NotificationService
}

func (ph *PublishNotificationHandler) Filter(event data.DomainEvent) bool {
	return ph.Notifications != nil
}

func (ph *PublishNotificationHandler) Apply(ctx context.Context, event data.DomainEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	_, err = ph.Notifications.Publish(ctx, notifications.PublishInput{
		Subject: string(event.Name()),
		Message: string(payload),
		Attributes: map[string]string{
			"eventName":      string(event.Name()),
			"shoppingListId": event.ListId,
		},
	})
	return err
}
