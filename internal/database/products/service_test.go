package products_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database/products"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/test"
)

func TestProductService(t *testing.T) {
	db := test.NewDatabase(t)
	service := products.NewProductService(db.Gorm, test.NewMarshaler())
	ctx := context.Background()

	t.Run("CreateDefaults", func(t *testing.T) {
		name := "Flour"
		gram := data.GRAM
		product, err := service.Create(ctx, data.ProductInputDTO{Name: &name, Unit: &gram})
		require.NoError(t, err)
		assert.Equal(t, data.GRAM, product.Unit)
		assert.True(t, product.DefaultQuantity.Equal(decimal.NewFromInt(500)))
	})

	t.Run("CreateConflict", func(t *testing.T) {
		test.CreateProduct(t, service, "Eggs", data.UNIT, 6)
		name := "Eggs"
		_, err := service.Create(ctx, data.ProductInputDTO{Name: &name})
		var ce *exceptions.ConflictError
		assert.ErrorAs(t, err, &ce)
	})

	t.Run("CreateInvalid", func(t *testing.T) {
		_, err := service.Create(ctx, data.ProductInputDTO{})
		var ie *exceptions.InvalidInputError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "name", ie.Fields["field"])

		name := "Sugar"
		unit := data.Unit("pound")
		_, err = service.Create(ctx, data.ProductInputDTO{Name: &name, Unit: &unit})
		require.ErrorAs(t, err, &ie)
	})

	t.Run("FilterByName", func(t *testing.T) {
		plural := "Tomatoes"
		name := "Tomato"
		_, err := service.Create(ctx, data.ProductInputDTO{Name: &name, NamePlural: &plural})
		require.NoError(t, err)
		for _, filter := range []string{"tomato", "TOMATOES"} {
			results, err := service.List(ctx, data.QueryParams{Filters: map[string]string{"name": filter}})
			require.NoError(t, err)
			require.Len(t, results.Items, 1, filter)
			assert.Equal(t, "Tomato", results.Items[0].Name)
		}
	})

	t.Run("Update", func(t *testing.T) {
		product := test.CreateProduct(t, service, "Butter", data.GRAM, 250)
		liter := data.LITER
		updated, err := service.Update(ctx, product.ID, data.ProductInputDTO{Unit: &liter})
		require.NoError(t, err)
		assert.Equal(t, "Butter", updated.Name)
		assert.Equal(t, data.LITER, updated.Unit)
		assert.False(t, updated.UpdateTime.Before(product.UpdateTime))
	})

	t.Run("GetDelete", func(t *testing.T) {
		product := test.CreateProduct(t, service, "Yeast", data.GRAM, 7)
		found, err := service.Get(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)

		require.NoError(t, service.Delete(ctx, product.ID))
		require.NoError(t, service.Delete(ctx, product.ID))
		_, err = service.Get(ctx, product.ID)
		assert.True(t, exceptions.IsNotFound(err))
	})
}
