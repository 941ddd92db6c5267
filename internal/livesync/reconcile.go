// Package livesync keeps a local copy of one shopping list current by
// applying the list's event stream to a fetched snapshot.
package livesync

import (
	"golang.org/x/exp/slices"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/routes/products"
	"philcali.me/groceries/internal/routes/shopping"
)

func indexOf(items []shopping.ShoppingListItem, itemId string) int {
	return slices.IndexFunc(items, func(item shopping.ShoppingListItem) bool {
		return item.Id == itemId
	})
}

// Apply returns the snapshot with the event folded in, and whether it changed
// anything. The given snapshot is never modified. Applying an event twice is
// the same as applying it once.
func Apply(snapshot shopping.ShoppingList, event data.EventPayload, catalog map[string]products.Product) (shopping.ShoppingList, bool) {
	switch e := event.(type) {
	case data.ItemCreated:
		if indexOf(snapshot.Items, e.Id) >= 0 {
			return snapshot, false
		}
		item := shopping.ShoppingListItem{
			Id:             e.Id,
			ShoppingListId: e.ShoppingListId,
			ProductId:      e.ProductId,
			Label:          e.Label,
			Unit:           e.Unit,
			Quantity:       e.Quantity,
			Checked:        e.Checked,
		}
		if e.ProductId != nil {
			if product, ok := catalog[*e.ProductId]; ok {
				unit := product.Unit
				item.Label = product.Name
				item.Unit = &unit
			}
		}
		index := e.Position
		if index < 0 || index > len(snapshot.Items) {
			index = len(snapshot.Items)
		}
		items := slices.Insert(slices.Clone(snapshot.Items), index, item)
		for i := index; i < len(items); i++ {
			items[i].Position = i
		}
		snapshot.Items = items
		return snapshot, true
	case data.ItemUpdated:
		index := indexOf(snapshot.Items, e.Id)
		if index < 0 {
			return snapshot, false
		}
		items := slices.Clone(snapshot.Items)
		item := items[index]
		if e.QuantityCleared {
			item.Quantity = nil
		} else if e.Quantity != nil {
			quantity := *e.Quantity
			item.Quantity = &quantity
		}
		if e.Checked != nil {
			item.Checked = *e.Checked
		}
		items[index] = item
		snapshot.Items = items
		return snapshot, true
	case data.ItemDeleted:
		index := indexOf(snapshot.Items, e.Id)
		if index < 0 {
			return snapshot, false
		}
		items := slices.Delete(slices.Clone(snapshot.Items), index, index+1)
		for i := index; i < len(items); i++ {
			items[i].Position--
		}
		snapshot.Items = items
		return snapshot, true
	}
	return snapshot, false
}
