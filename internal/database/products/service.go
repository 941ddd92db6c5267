package products

import (
	"time"

	"gorm.io/gorm"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/services"
	"philcali.me/groceries/internal/database/token"
	"philcali.me/groceries/internal/exceptions"
)

func NewProductService(db *gorm.DB, marshaler token.TokenMarshaler) data.ProductDataService {
	return &services.RepositoryService[data.ProductDTO, data.ProductInputDTO]{
		DB:             db,
		TokenMarshaler: marshaler,
		Name:           "Product",
		Order:          "name, id",
		Filters: map[string]func(*gorm.DB, string) *gorm.DB{
			"name": func(query *gorm.DB, value string) *gorm.DB {
				return query.Where("name = ? COLLATE NOCASE OR name_plural = ? COLLATE NOCASE", value, value)
			},
		},
		OnCreate: func(input data.ProductInputDTO, now time.Time, id string) (data.ProductDTO, error) {
			if input.Name == nil || *input.Name == "" {
				return data.ProductDTO{}, exceptions.InvalidField("name", "A product requires a name")
			}
			product := data.ProductDTO{
				ID:         id,
				Name:       *input.Name,
				NamePlural: input.NamePlural,
				Unit:       data.UNIT,
				CreateTime: now,
				UpdateTime: now,
			}
			if input.Unit != nil {
				if !input.Unit.Valid() {
					return product, exceptions.InvalidField("unit", "Unit must be one of unit, gram or liter")
				}
				product.Unit = *input.Unit
			}
			product.DefaultQuantity = defaultQuantity(product.Unit)
			if input.DefaultQuantity != nil {
				if !input.DefaultQuantity.IsPositive() {
					return product, exceptions.InvalidField("defaultQuantity", "Default quantity must be positive")
				}
				product.DefaultQuantity = *input.DefaultQuantity
			}
			return product, nil
		},
		OnUpdate: func(input data.ProductInputDTO, columns map[string]interface{}) error {
			if input.Name != nil {
				if *input.Name == "" {
					return exceptions.InvalidField("name", "A product requires a name")
				}
				columns["name"] = *input.Name
			}
			if input.NamePlural != nil {
				columns["name_plural"] = *input.NamePlural
			}
			if input.Unit != nil {
				if !input.Unit.Valid() {
					return exceptions.InvalidField("unit", "Unit must be one of unit, gram or liter")
				}
				columns["unit"] = *input.Unit
			}
			if input.DefaultQuantity != nil {
				if !input.DefaultQuantity.IsPositive() {
					return exceptions.InvalidField("defaultQuantity", "Default quantity must be positive")
				}
				columns["default_quantity"] = *input.DefaultQuantity
			}
			return nil
		},
	}
}
