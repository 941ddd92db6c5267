package events

import (
	"context"
	"fmt"

	"philcali.me/groceries/internal/data"
)

const ITEM_RESOURCE_TYPE = "ShoppingListItem"

type AuditMessageFormat func(event data.DomainEvent) *string

func _formatCreated(event data.DomainEvent) *string {
	created, ok := event.Payload.(data.ItemCreated)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Item %s (%s) was added to shopping list %s at position %d", created.Id, created.Label, event.ListId, created.Position)
	return &message
}

func _formatUpdated(event data.DomainEvent) *string {
	updated, ok := event.Payload.(data.ItemUpdated)
	if !ok {
		return nil
	}
	var change string
	switch {
	case updated.Checked != nil && *updated.Checked:
		change = "was checked"
	case updated.Checked != nil:
		change = "was unchecked"
	}
	var quantity string
	if updated.QuantityCleared {
		quantity = "quantity removed"
	} else if updated.Quantity != nil {
		quantity = "quantity set to " + updated.Quantity.String()
	}
	switch {
	case change != "" && quantity != "":
		change = change + ", " + quantity
	case quantity != "":
		change = "had its " + quantity
	case change == "":
		return nil
	}
	message := fmt.Sprintf("Item %s on shopping list %s %s", updated.Id, event.ListId, change)
	return &message
}

func _formatDeleted(event data.DomainEvent) *string {
	message := fmt.Sprintf("Item %s was removed from shopping list %s", event.Payload.ItemId(), event.ListId)
	return &message
}

type CreateAuditEntryHandler struct {
	Audit   data.AuditRepository
	Formats map[data.EventName]AuditMessageFormat
}

func (ch *CreateAuditEntryHandler) Filter(event data.DomainEvent) bool {
	_, ok := ch.Formats[event.Name()]
	return ok
}

func _action(name data.EventName) string {
	switch name {
	case data.SHOPPING_LIST_ITEM_CREATED:
		return "CREATED"
	case data.SHOPPING_LIST_ITEM_DELETED:
		return "DELETED"
	default:
		return "UPDATED"
	}
}

func (ch *CreateAuditEntryHandler) Apply(ctx context.Context, event data.DomainEvent) error {
	format := ch.Formats[event.Name()]
	message := format(event)
	if message == nil {
		return nil
	}
	resourceId := event.Payload.ItemId()
	resourceType := ITEM_RESOURCE_TYPE
	action := _action(event.Name())
	_, err := ch.Audit.Create(ctx, data.AuditInputDTO{
		ResourceId:   &resourceId,
		ResourceType: &resourceType,
		Action:       &action,
		Message:      message,
	})
	return err
}

func DefaultAuditHandler(db data.AuditRepository) *CreateAuditEntryHandler {
	return &CreateAuditEntryHandler{
		Audit: db,
		Formats: map[data.EventName]AuditMessageFormat{
			data.SHOPPING_LIST_ITEM_CREATED: _formatCreated,
			data.SHOPPING_LIST_ITEM_UPDATED: _formatUpdated,
			data.SHOPPING_LIST_ITEM_DELETED: _formatDeleted,
		},
	}
}
