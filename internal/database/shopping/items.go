package shopping

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/services"
	"philcali.me/groceries/internal/exceptions"
)

const itemResource = "shoppingListItem"

type ShoppingListItemGormService struct {
	DB *gorm.DB
}

func NewShoppingListItemService(db *gorm.DB) data.ShoppingListItemRepository {
	return &ShoppingListItemGormService{DB: db}
}

func requireList(tx *gorm.DB, listId string) error {
	var count int64
	if err := tx.Model(&data.ShoppingListDTO{}).Where("id = ?", listId).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return exceptions.NotFound("shoppingList", listId)
	}
	return nil
}

func (is *ShoppingListItemGormService) CreateItem(ctx context.Context, listId string, itemId string, ref data.ItemRef, options data.ItemOptions) (data.ShoppingListItemDTO, error) {
	var item data.ShoppingListItemDTO
	err := is.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireList(tx, listId); err != nil {
			return err
		}
		now := tx.NowFunc()
		item = data.ShoppingListItemDTO{
			ID:             itemId,
			ShoppingListID: listId,
			CreateTime:     now,
			UpdateTime:     now,
		}
		switch r := ref.(type) {
		case data.ByProduct:
			var product data.ProductDTO
			if err := tx.Where("id = ?", r.ID).Take(&product).Error; err != nil {
				return services.TranslateError(err, "product", r.ID)
			}
			var existing int64
			err := tx.Model(&data.ShoppingListItemDTO{}).
				Where("shopping_list_id = ? AND product_id = ?", listId, product.ID).
				Count(&existing).Error
			if err != nil {
				return err
			}
			if existing > 0 {
				return exceptions.Conflict(itemResource, product.ID)
			}
			quantity := product.DefaultQuantity
			item.ProductID = &product.ID
			item.Product = &product
			item.Quantity = &quantity
		case data.ByLabel:
			if r.Text == "" {
				return exceptions.InvalidField("label", "An item requires a product or a label")
			}
			if r.Unit != nil && !r.Unit.Valid() {
				return exceptions.InvalidField("unit", "Unit must be one of unit, gram or liter")
			}
			label := r.Text
			item.Label = &label
			item.Unit = r.Unit
		default:
			return exceptions.InvalidField("productId", "An item requires a product or a label")
		}
		if options.Quantity != nil {
			if !options.Quantity.IsPositive() {
				return exceptions.InvalidField("quantity", "Quantity must be positive")
			}
			item.Quantity = options.Quantity
		}
		if options.Checked != nil {
			item.Checked = *options.Checked
		}
		position, err := NextPosition(tx, listId)
		if err != nil {
			return err
		}
		item.Position = position
		return services.TranslateError(tx.Omit(clause.Associations).Create(&item).Error, itemResource, itemId)
	})
	return item, err
}

func (is *ShoppingListItemGormService) UpdateItem(ctx context.Context, itemId string, update data.ItemUpdate) (data.ShoppingListItemDTO, error) {
	var item data.ShoppingListItemDTO
	err := is.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Product").Where("id = ?", itemId).Take(&item).Error; err != nil {
			return services.TranslateError(err, itemResource, itemId)
		}
		if update.IsEmpty() {
			return nil
		}
		if !update.ClearQuantity && update.Quantity != nil && !update.Quantity.IsPositive() {
			return exceptions.InvalidField("quantity", "Quantity must be positive")
		}
		columns := update.Columns()
		columns["update_time"] = tx.NowFunc()
		if err := tx.Model(&data.ShoppingListItemDTO{}).Where("id = ?", itemId).Updates(columns).Error; err != nil {
			return services.TranslateError(err, itemResource, itemId)
		}
		return tx.Preload("Product").Where("id = ?", itemId).Take(&item).Error
	})
	return item, err
}

// DeleteItem removes the item and renumbers what is left of the list in the
// same transaction. It reports whether a row was removed.
func (is *ShoppingListItemGormService) DeleteItem(ctx context.Context, listId string, itemId string) (bool, error) {
	deleted := false
	err := is.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND shopping_list_id = ?", itemId, listId).Delete(&data.ShoppingListItemDTO{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return ReconcilePositions(tx, listId)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// FindItem resolves ref as an item id of the list first, then as the id of
// a product on the list.
func (is *ShoppingListItemGormService) FindItem(ctx context.Context, listId string, ref string) (data.ShoppingListItemDTO, error) {
	var item data.ShoppingListItemDTO
	db := is.DB.WithContext(ctx)
	err := db.Preload("Product").Where("shopping_list_id = ? AND id = ?", listId, ref).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.Preload("Product").Where("shopping_list_id = ? AND product_id = ?", listId, ref).Order("position").Take(&item).Error
	}
	return item, services.TranslateError(err, itemResource, ref)
}
