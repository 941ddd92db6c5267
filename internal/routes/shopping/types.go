package shopping

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/routes/util"
)

type ShoppingListItem struct {
	Id             string           `json:"id"`
	ShoppingListId string           `json:"shoppingListId"`
	ProductId      *string          `json:"productId,omitempty"`
	Label          string           `json:"label"`
	Unit           *data.Unit       `json:"unit,omitempty"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	Checked        bool             `json:"checked"`
	Position       int              `json:"position"`
}

func NewShoppingListItem(item data.ShoppingListItemDTO) ShoppingListItem {
	return ShoppingListItem{
		Id:             item.ID,
		ShoppingListId: item.ShoppingListID,
		ProductId:      item.ProductID,
		Label:          item.DisplayLabel(),
		Unit:           item.DisplayUnit(),
		Quantity:       item.Quantity,
		Checked:        item.Checked,
		Position:       item.Position,
	}
}

type ShoppingList struct {
	Id         string             `json:"id"`
	Name       *string            `json:"name,omitempty"`
	Date       *time.Time         `json:"date,omitempty"`
	Items      []ShoppingListItem `json:"items"`
	CreateTime time.Time          `json:"createTime"`
	UpdateTime time.Time          `json:"updateTime"`
}

func NewShoppingList(list data.ShoppingListDTO) ShoppingList {
	return ShoppingList{
		Id:         list.ID,
		Name:       list.Name,
		Date:       list.Date,
		Items:      util.MapOnList(list.Items, NewShoppingListItem),
		CreateTime: list.CreateTime,
		UpdateTime: list.UpdateTime,
	}
}

type ShoppingListInput struct {
	Name *string    `json:"name,omitempty"`
	Date *time.Time `json:"date,omitempty"`
}

func (l *ShoppingListInput) ToData() data.ShoppingListInputDTO {
	return data.ShoppingListInputDTO{
		Name: l.Name,
		Date: l.Date,
	}
}

// ItemInput creates an item from either a product or a free-text label.
type ItemInput struct {
	ProductId *string          `json:"productId,omitempty"`
	Label     *string          `json:"label,omitempty"`
	Unit      *data.Unit       `json:"unit,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	Checked   *bool            `json:"checked,omitempty"`
}

func (i *ItemInput) ToRef() (data.ItemRef, error) {
	switch {
	case i.ProductId != nil && i.Label != nil:
		return nil, exceptions.InvalidInput("Provide either productId or label, not both")
	case i.ProductId != nil:
		return data.ByProduct{ID: *i.ProductId}, nil
	case i.Label != nil:
		return data.ByLabel{Text: *i.Label, Unit: i.Unit}, nil
	}
	return nil, exceptions.InvalidInput("Provide either productId or label")
}

func (i *ItemInput) ToOptions() data.ItemOptions {
	return data.ItemOptions{
		Quantity: i.Quantity,
		Checked:  i.Checked,
	}
}

// ItemUpdateInput distinguishes an absent quantity from "quantity": null,
// which removes it.
type ItemUpdateInput struct {
	Quantity      *decimal.Decimal
	ClearQuantity bool
	Checked       *bool
}

func (u ItemUpdateInput) ToData() data.ItemUpdate {
	return data.ItemUpdate{
		Quantity:      u.Quantity,
		ClearQuantity: u.ClearQuantity,
		Checked:       u.Checked,
	}
}

func (u ItemUpdateInput) MarshalJSON() ([]byte, error) {
	fields := map[string]interface{}{}
	if u.ClearQuantity {
		fields["quantity"] = nil
	} else if u.Quantity != nil {
		fields["quantity"] = u.Quantity
	}
	if u.Checked != nil {
		fields["checked"] = *u.Checked
	}
	return json.Marshal(fields)
}

func (u *ItemUpdateInput) UnmarshalJSON(payload []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return err
	}
	*u = ItemUpdateInput{}
	if raw, ok := fields["quantity"]; ok {
		if string(raw) == "null" {
			u.ClearQuantity = true
		} else {
			var quantity decimal.Decimal
			if err := json.Unmarshal(raw, &quantity); err != nil {
				return fmt.Errorf("quantity: %w", err)
			}
			u.Quantity = &quantity
		}
	}
	if raw, ok := fields["checked"]; ok {
		var checked bool
		if err := json.Unmarshal(raw, &checked); err != nil {
			return fmt.Errorf("checked: %w", err)
		}
		u.Checked = &checked
	}
	return nil
}
