package products

import (
	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/data"
)

// defaultQuantity is what a product is bought in when nothing else is said:
// one piece, 500 grams or one liter.
func defaultQuantity(unit data.Unit) decimal.Decimal {
	switch unit {
	case data.GRAM:
		return decimal.NewFromInt(500)
	default:
		return decimal.NewFromInt(1)
	}
}
