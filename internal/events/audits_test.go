package events

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/audits"
	"philcali.me/groceries/internal/test"
)

func NewAuditRepository(t *testing.T) data.AuditRepository {
	db := test.NewDatabase(t)
	return audits.NewAuditService(db.Gorm, test.NewMarshaler())
}

func TestAudits(t *testing.T) {
	auditData := NewAuditRepository(t)
	handler := DefaultAuditHandler(auditData)
	ctx := context.Background()

	checked := true
	quantity := decimal.NewFromInt(3)
	records := []struct {
		event   data.DomainEvent
		action  string
		message string
	}{
		{
			event: data.DomainEvent{ListId: "list", Payload: data.ItemCreated{
				Id:       "item",
				Label:    "Milk",
				Position: 2,
			}},
			action:  "CREATED",
			message: "Item item (Milk) was added to shopping list list at position 2",
		},
		{
			event:   data.DomainEvent{ListId: "list", Payload: data.ItemUpdated{Id: "item", Checked: &checked}},
			action:  "UPDATED",
			message: "Item item on shopping list list was checked",
		},
		{
			event:   data.DomainEvent{ListId: "list", Payload: data.ItemUpdated{Id: "item", Quantity: &quantity}},
			action:  "UPDATED",
			message: "Item item on shopping list list had its quantity set to 3",
		},
		{
			event:   data.DomainEvent{ListId: "list", Payload: data.ItemDeleted{Id: "item"}},
			action:  "DELETED",
			message: "Item item was removed from shopping list list",
		},
	}

	for _, record := range records {
		if !handler.Filter(record.event) {
			t.Fatalf("Expected true for %v", record.event)
		}
		if err := handler.Apply(ctx, record.event); err != nil {
			t.Fatalf("Failed to create audit entry for %v: %v", record.event, err)
		}
		listEntry, err := auditData.List(ctx, data.QueryParams{Limit: 1})
		if err != nil {
			t.Fatalf("Failed to list audit entry for %v", err)
		}
		item := listEntry.Items[0]
		if item.Action != record.action {
			t.Fatalf("Expected %s, but got %s", record.action, item.Action)
		}
		if item.ResourceType != ITEM_RESOURCE_TYPE {
			t.Fatalf("Expected type to be '%s', but got %s", ITEM_RESOURCE_TYPE, item.ResourceType)
		}
		if item.Message != record.message {
			t.Fatalf("Expected message %q, but got %q", record.message, item.Message)
		}
		if err := handler.Audit.Delete(ctx, item.ID); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
	}

	t.Run("EmptyUpdateSkipped", func(t *testing.T) {
		event := data.DomainEvent{ListId: "list", Payload: data.ItemUpdated{Id: "other"}}
		if err := handler.Apply(ctx, event); err != nil {
			t.Fatalf("Expected no error, but got %v", err)
		}
		listEntry, err := auditData.List(ctx, data.QueryParams{})
		if err != nil {
			t.Fatalf("Failed to list audit entries: %v", err)
		}
		if len(listEntry.Items) != 0 {
			t.Fatalf("Expected no entries, but got %d", len(listEntry.Items))
		}
	})
}
