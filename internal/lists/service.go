// Package lists is the write path for shopping list items: every mutation is
// committed first and announced to the emitter afterwards.
package lists

import (
	"context"
	"errors"
	"sync"

	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/exceptions"
)

type Emitter interface {
	Emit(ctx context.Context, event data.DomainEvent)
}

// MutationService holds one lock across each write and its emission, so
// subscribers see events in the order the writes committed. SQLite already
// serializes the commits themselves.
type MutationService struct {
	Items   data.ShoppingListItemRepository
	Emitter Emitter
	mutex   sync.Mutex
}

func NewMutationService(items data.ShoppingListItemRepository, emitter Emitter) *MutationService {
	return &MutationService{
		Items:   items,
		Emitter: emitter,
	}
}

func (ms *MutationService) CreateItem(ctx context.Context, listId string, itemId string, ref data.ItemRef, options data.ItemOptions) (data.ShoppingListItemDTO, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	return ms.createItem(ctx, listId, itemId, ref, options)
}

func (ms *MutationService) createItem(ctx context.Context, listId string, itemId string, ref data.ItemRef, options data.ItemOptions) (data.ShoppingListItemDTO, error) {
	item, err := ms.Items.CreateItem(ctx, listId, itemId, ref, options)
	if err != nil {
		return item, err
	}
	ms.Emitter.Emit(ctx, data.DomainEvent{
		ListId:  item.ShoppingListID,
		Payload: data.NewItemCreated(item),
	})
	return item, nil
}

// UpdateItem applies the fields present in update. An empty update neither
// writes nor emits.
func (ms *MutationService) UpdateItem(ctx context.Context, itemId string, update data.ItemUpdate) (data.ShoppingListItemDTO, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	return ms.updateItem(ctx, itemId, update)
}

func (ms *MutationService) updateItem(ctx context.Context, itemId string, update data.ItemUpdate) (data.ShoppingListItemDTO, error) {
	item, err := ms.Items.UpdateItem(ctx, itemId, update)
	if err != nil || update.IsEmpty() {
		return item, err
	}
	ms.Emitter.Emit(ctx, data.DomainEvent{
		ListId:  item.ShoppingListID,
		Payload: data.NewItemUpdated(item.ID, update),
	})
	return item, nil
}

// DeleteItem removes the item and closes the gap it leaves. Removing an item
// that is already gone succeeds without an event.
func (ms *MutationService) DeleteItem(ctx context.Context, listId string, itemId string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	deleted, err := ms.Items.DeleteItem(ctx, listId, itemId)
	if err != nil || !deleted {
		return err
	}
	ms.Emitter.Emit(ctx, data.DomainEvent{
		ListId:  listId,
		Payload: data.ItemDeleted{Id: itemId},
	})
	return nil
}

// SetItem updates the item ref points at, which is either an item id or the
// id of a product on the list. A product that is not on the list yet is
// added with the requested state.
func (ms *MutationService) SetItem(ctx context.Context, listId string, ref string, itemId string, update data.ItemUpdate) (data.ShoppingListItemDTO, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	item, err := ms.Items.FindItem(ctx, listId, ref)
	if err == nil {
		return ms.updateItem(ctx, item.ID, update)
	}
	if !exceptions.IsNotFound(err) {
		return item, err
	}
	options := data.ItemOptions{Checked: update.Checked}
	if !update.ClearQuantity {
		options.Quantity = update.Quantity
	}
	item, err = ms.createItem(ctx, listId, itemId, data.ByProduct{ID: ref}, options)
	var nfe *exceptions.NotFoundError
	if err != nil && errors.As(err, &nfe) && nfe.Resource == "product" {
		return item, exceptions.NotFound("shoppingListItem", ref)
	}
	if err != nil || !update.ClearQuantity {
		return item, err
	}
	return ms.updateItem(ctx, item.ID, data.ItemUpdate{ClearQuantity: true})
}
