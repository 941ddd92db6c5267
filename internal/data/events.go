package data

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type EventName string

const (
	SHOPPING_LIST_ITEM_CREATED EventName = "shoppingListItemCreated"
	SHOPPING_LIST_ITEM_UPDATED EventName = "shoppingListItemUpdated"
	SHOPPING_LIST_ITEM_DELETED EventName = "shoppingListItemDeleted"
)

// EventPayload is one of ItemCreated, ItemUpdated or ItemDeleted.
type EventPayload interface {
	EventName() EventName
	ItemId() string
}

// DomainEvent is a committed shopping list mutation. ListId scopes delivery
// and is not part of the wire payload.
type DomainEvent struct {
	ListId  string
	Payload EventPayload
}

func (e DomainEvent) Name() EventName {
	return e.Payload.EventName()
}

type ItemCreated struct {
	Id             string           `json:"id"`
	ShoppingListId string           `json:"shoppingListId"`
	ProductId      *string          `json:"productId,omitempty"`
	Label          string           `json:"label"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	Checked        bool             `json:"checked"`
	Unit           *Unit            `json:"unit,omitempty"`
	Position       int              `json:"position"`
}

func (ItemCreated) EventName() EventName {
	return SHOPPING_LIST_ITEM_CREATED
}

func (e ItemCreated) ItemId() string {
	return e.Id
}

func NewItemCreated(item ShoppingListItemDTO) ItemCreated {
	return ItemCreated{
		Id:             item.ID,
		ShoppingListId: item.ShoppingListID,
		ProductId:      item.ProductID,
		Label:          item.DisplayLabel(),
		Quantity:       item.Quantity,
		Checked:        item.Checked,
		Unit:           item.DisplayUnit(),
		Position:       item.Position,
	}
}

// ItemUpdated carries the id plus only the fields that changed. A removed
// quantity is encoded as "quantity": null.
type ItemUpdated struct {
	Id              string
	Quantity        *decimal.Decimal
	QuantityCleared bool
	Checked         *bool
}

func (ItemUpdated) EventName() EventName {
	return SHOPPING_LIST_ITEM_UPDATED
}

func (e ItemUpdated) ItemId() string {
	return e.Id
}

func NewItemUpdated(itemId string, update ItemUpdate) ItemUpdated {
	event := ItemUpdated{
		Id:      itemId,
		Checked: update.Checked,
	}
	if update.ClearQuantity {
		event.QuantityCleared = true
	} else {
		event.Quantity = update.Quantity
	}
	return event
}

func (e ItemUpdated) MarshalJSON() ([]byte, error) {
	fields := map[string]interface{}{
		"id": e.Id,
	}
	if e.QuantityCleared {
		fields["quantity"] = nil
	} else if e.Quantity != nil {
		fields["quantity"] = e.Quantity
	}
	if e.Checked != nil {
		fields["checked"] = *e.Checked
	}
	return json.Marshal(fields)
}

func (e *ItemUpdated) UnmarshalJSON(payload []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return err
	}
	*e = ItemUpdated{}
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &e.Id); err != nil {
			return fmt.Errorf("failed to decode id: %w", err)
		}
	}
	if raw, ok := fields["quantity"]; ok {
		if string(raw) == "null" {
			e.QuantityCleared = true
		} else {
			var quantity decimal.Decimal
			if err := json.Unmarshal(raw, &quantity); err != nil {
				return fmt.Errorf("failed to decode quantity: %w", err)
			}
			e.Quantity = &quantity
		}
	}
	if raw, ok := fields["checked"]; ok {
		var checked bool
		if err := json.Unmarshal(raw, &checked); err != nil {
			return fmt.Errorf("failed to decode checked: %w", err)
		}
		e.Checked = &checked
	}
	return nil
}

type ItemDeleted struct {
	Id string `json:"id"`
}

func (ItemDeleted) EventName() EventName {
	return SHOPPING_LIST_ITEM_DELETED
}

func (e ItemDeleted) ItemId() string {
	return e.Id
}

// ParseEventPayload decodes the JSON payload of a named event.
func ParseEventPayload(name string, payload []byte) (EventPayload, error) {
	switch EventName(name) {
	case SHOPPING_LIST_ITEM_CREATED:
		var created ItemCreated
		if err := json.Unmarshal(payload, &created); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
		return created, nil
	case SHOPPING_LIST_ITEM_UPDATED:
		var updated ItemUpdated
		if err := json.Unmarshal(payload, &updated); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
		return updated, nil
	case SHOPPING_LIST_ITEM_DELETED:
		var deleted ItemDeleted
		if err := json.Unmarshal(payload, &deleted); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", name, err)
		}
		return deleted, nil
	}
	return nil, fmt.Errorf("unknown event: %s", name)
}
