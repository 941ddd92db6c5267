package recipes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/services"
	"philcali.me/groceries/internal/database/token"
	"philcali.me/groceries/internal/exceptions"
)

type RecipeGormService struct {
	services.RepositoryService[data.RecipeDTO, data.RecipeInputDTO]
}

func withIngredients(db *gorm.DB) *gorm.DB {
	return db.Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Preload("Ingredients.Product")
}

func NewRecipeService(db *gorm.DB, marshaler token.TokenMarshaler) data.RecipeDataService {
	return &RecipeGormService{
		RepositoryService: services.RepositoryService[data.RecipeDTO, data.RecipeInputDTO]{
			DB:             db,
			TokenMarshaler: marshaler,
			Name:           "Recipe",
			Order:          "name, id",
			Scopes:         []func(*gorm.DB) *gorm.DB{withIngredients},
			Filters: map[string]func(*gorm.DB, string) *gorm.DB{
				"name": func(query *gorm.DB, value string) *gorm.DB {
					return query.Where("name = ? COLLATE NOCASE", value)
				},
			},
			OnCreate: func(input data.RecipeInputDTO, now time.Time, id string) (data.RecipeDTO, error) {
				if input.Name == nil || *input.Name == "" {
					return data.RecipeDTO{}, exceptions.InvalidField("name", "A recipe requires a name")
				}
				recipe := data.RecipeDTO{
					ID:         id,
					Name:       *input.Name,
					CreateTime: now,
					UpdateTime: now,
				}
				if input.Description != nil {
					recipe.Description = *input.Description
				}
				return recipe, nil
			},
			OnUpdate: func(input data.RecipeInputDTO, columns map[string]interface{}) error {
				if input.Name != nil {
					columns["name"] = *input.Name
				}
				if input.Description != nil {
					columns["description"] = *input.Description
				}
				return nil
			},
		},
	}
}

// AddIngredient appends an ingredient to the end of the recipe.
func (rs *RecipeGormService) AddIngredient(ctx context.Context, recipeId string, input data.IngredientInputDTO) (data.RecipeDTO, error) {
	if !input.Quantity.IsPositive() {
		return data.RecipeDTO{}, exceptions.InvalidField("quantity", "Quantity must be positive")
	}
	err := rs.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&data.RecipeDTO{}).Where("id = ?", recipeId).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return exceptions.NotFound("recipe", recipeId)
		}
		ingredient := data.IngredientDTO{
			ID:         uuid.NewString(),
			RecipeID:   recipeId,
			Quantity:   input.Quantity,
			CreateTime: tx.NowFunc(),
		}
		switch ref := input.Ref.(type) {
		case data.ByProduct:
			if err := tx.Model(&data.ProductDTO{}).Where("id = ?", ref.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return exceptions.NotFound("product", ref.ID)
			}
			ingredient.ProductID = &ref.ID
		case data.ByLabel:
			if ref.Text == "" {
				return exceptions.InvalidField("label", "An ingredient requires a product or a label")
			}
			if ref.Unit != nil && !ref.Unit.Valid() {
				return exceptions.InvalidField("unit", "Unit must be one of unit, gram or liter")
			}
			ingredient.Label = &ref.Text
			ingredient.Unit = ref.Unit
		default:
			return exceptions.InvalidField("productId", "An ingredient requires a product or a label")
		}
		if err := tx.Model(&data.IngredientDTO{}).Where("recipe_id = ?", recipeId).Count(&count).Error; err != nil {
			return err
		}
		ingredient.Position = int(count)
		if err := tx.Omit(clause.Associations).Create(&ingredient).Error; err != nil {
			return services.TranslateError(err, "ingredient", ingredient.ID)
		}
		return tx.Model(&data.RecipeDTO{}).Where("id = ?", recipeId).Update("update_time", tx.NowFunc()).Error
	})
	if err != nil {
		return data.RecipeDTO{}, err
	}
	return rs.Get(ctx, recipeId)
}
