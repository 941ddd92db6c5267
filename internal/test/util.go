package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/database"
	"philcali.me/groceries/internal/database/token"
)

const TOKEN_SECRET = "test-secret"

// NewDatabase opens a migrated SQLite database in a temporary directory that
// is removed when the test ends.
func NewDatabase(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "groceries.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %s", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %s", err)
		}
	})
	return db
}

func NewMarshaler() token.TokenMarshaler {
	return token.NewGCM(TOKEN_SECRET)
}

func CreateProduct(t *testing.T, products data.ProductDataService, name string, unit data.Unit, quantity int64) data.ProductDTO {
	t.Helper()
	defaultQuantity := decimal.NewFromInt(quantity)
	product, err := products.Create(context.Background(), data.ProductInputDTO{
		Name:            &name,
		Unit:            &unit,
		DefaultQuantity: &defaultQuantity,
	})
	if err != nil {
		t.Fatalf("Failed to create product %s: %s", name, err)
	}
	return product
}

func CreateList(t *testing.T, lists data.ShoppingListDataService, name string) data.ShoppingListDTO {
	t.Helper()
	list, err := lists.Create(context.Background(), data.ShoppingListInputDTO{Name: &name})
	if err != nil {
		t.Fatalf("Failed to create shopping list %s: %s", name, err)
	}
	return list
}

// Positions returns the item positions of a list keyed by item id.
func Positions(t *testing.T, db *database.DB, listId string) map[string]int {
	t.Helper()
	var items []data.ShoppingListItemDTO
	if err := db.Gorm.Where("shopping_list_id = ?", listId).Order("position").Find(&items).Error; err != nil {
		t.Fatalf("Failed to load positions: %s", err)
	}
	positions := make(map[string]int, len(items))
	for _, item := range items {
		positions[item.ID] = item.Position
	}
	return positions
}
