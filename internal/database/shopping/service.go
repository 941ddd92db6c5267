package shopping

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/services"
	"philcali.me/groceries/internal/database/token"
)

type ShoppingListGormService struct {
	services.RepositoryService[data.ShoppingListDTO, data.ShoppingListInputDTO]
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position, id")
	}).Preload("Items.Product")
}

func NewShoppingListService(db *gorm.DB, marshaler token.TokenMarshaler) data.ShoppingListDataService {
	return &ShoppingListGormService{
		RepositoryService: services.RepositoryService[data.ShoppingListDTO, data.ShoppingListInputDTO]{
			DB:             db,
			TokenMarshaler: marshaler,
			Name:           "ShoppingList",
			Order:          "date IS NOT NULL, date DESC, create_time DESC, id",
			Scopes:         []func(*gorm.DB) *gorm.DB{withItems},
			Filters: map[string]func(*gorm.DB, string) *gorm.DB{
				"name": func(query *gorm.DB, value string) *gorm.DB {
					return query.Where("name = ?", value)
				},
			},
			OnUpdate: func(input data.ShoppingListInputDTO, columns map[string]interface{}) error {
				if input.Name != nil {
					columns["name"] = *input.Name
				}
				if input.Date != nil {
					columns["date"] = input.Date.UTC()
				}
				return nil
			},
		},
	}
}

// Create adds a list. A list created without a date becomes the current one
// and the previous current list is finalized with today's date.
func (ls *ShoppingListGormService) Create(ctx context.Context, input data.ShoppingListInputDTO) (data.ShoppingListDTO, error) {
	id := uuid.NewString()
	err := ls.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := tx.NowFunc()
		if input.Date == nil {
			err := tx.Model(&data.ShoppingListDTO{}).
				Where("date IS NULL").
				Updates(map[string]interface{}{"date": now, "update_time": now}).Error
			if err != nil {
				return err
			}
		}
		list := data.ShoppingListDTO{
			ID:         id,
			Name:       input.Name,
			CreateTime: now,
			UpdateTime: now,
		}
		if input.Date != nil {
			date := input.Date.UTC()
			list.Date = &date
		}
		return services.TranslateError(tx.Omit(clause.Associations).Create(&list).Error, "shoppingList", id)
	})
	if err != nil {
		return data.ShoppingListDTO{}, err
	}
	return ls.Get(ctx, id)
}

func (ls *ShoppingListGormService) Current(ctx context.Context) (data.ShoppingListDTO, error) {
	var list data.ShoppingListDTO
	err := ls.DB.WithContext(ctx).Scopes(withItems).Where("date IS NULL").Take(&list).Error
	return list, services.TranslateError(err, "shoppingList", "current")
}
