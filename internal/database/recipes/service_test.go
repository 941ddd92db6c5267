package recipes_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/dishes"
	"philcali.me/groceries/internal/database/products"
	"philcali.me/groceries/internal/database/recipes"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/test"
)

func TestRecipeService(t *testing.T) {
	db := test.NewDatabase(t)
	marshaler := test.NewMarshaler()
	productService := products.NewProductService(db.Gorm, marshaler)
	service := recipes.NewRecipeService(db.Gorm, marshaler)
	dishService := dishes.NewDishService(db.Gorm, marshaler)
	ctx := context.Background()

	pasta := test.CreateProduct(t, productService, "Pasta", data.GRAM, 500)
	name := "Carbonara"
	description := "Eggs, cheese, pepper."
	recipe, err := service.Create(ctx, data.RecipeInputDTO{Name: &name, Description: &description})
	require.NoError(t, err)

	t.Run("AddIngredients", func(t *testing.T) {
		_, err := service.AddIngredient(ctx, recipe.ID, data.IngredientInputDTO{
			Ref:      data.ByProduct{ID: pasta.ID},
			Quantity: decimal.NewFromInt(400),
		})
		require.NoError(t, err)
		unit := data.UNIT
		updated, err := service.AddIngredient(ctx, recipe.ID, data.IngredientInputDTO{
			Ref:      data.ByLabel{Text: "Egg yolks", Unit: &unit},
			Quantity: decimal.NewFromInt(4),
		})
		require.NoError(t, err)
		require.Len(t, updated.Ingredients, 2)
		assert.Equal(t, "Pasta", updated.Ingredients[0].DisplayLabel())
		assert.Equal(t, 0, updated.Ingredients[0].Position)
		assert.Equal(t, "Egg yolks", updated.Ingredients[1].DisplayLabel())
		assert.Equal(t, 1, updated.Ingredients[1].Position)
	})

	t.Run("AddIngredientMissing", func(t *testing.T) {
		_, err := service.AddIngredient(ctx, "missing", data.IngredientInputDTO{
			Ref:      data.ByLabel{Text: "Salt"},
			Quantity: decimal.NewFromInt(1),
		})
		assert.True(t, exceptions.IsNotFound(err))

		_, err = service.AddIngredient(ctx, recipe.ID, data.IngredientInputDTO{
			Ref:      data.ByProduct{ID: "missing"},
			Quantity: decimal.NewFromInt(1),
		})
		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("Dish", func(t *testing.T) {
		date := time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)
		dish, err := dishService.Create(ctx, data.DishInputDTO{RecipeID: recipe.ID, Date: &date})
		require.NoError(t, err)
		assert.Equal(t, "Carbonara", dish.Name)

		found, err := dishService.Get(ctx, dish.ID)
		require.NoError(t, err)
		assert.True(t, found.Date.Equal(date))

		_, err = dishService.Create(ctx, data.DishInputDTO{RecipeID: "missing"})
		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("FilterByName", func(t *testing.T) {
		results, err := service.List(ctx, data.QueryParams{Filters: map[string]string{"name": "carbonara"}})
		require.NoError(t, err)
		require.Len(t, results.Items, 1)
		assert.Len(t, results.Items[0].Ingredients, 2)
	})
}
