package data

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Quantities travel as JSON numbers, matching the HTTP and event payloads.
	decimal.MarshalJSONWithoutQuotes = true
}

type QueryParams struct {
	Limit     int               `json:"limit"`
	NextToken []byte            `json:"nextToken"`
	Filters   map[string]string `json:"filters"`
}

func (q *QueryParams) GetLimit() int {
	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return limit
}

type QueryResults[T interface{}] struct {
	Items     []T    `json:"items"`
	NextToken []byte `json:"nextToken"`
}

// Repository is the storage contract shared by every resource that follows
// plain create/read/update/delete semantics.
type Repository[T interface{}, I interface{}] interface {
	List(ctx context.Context, params QueryParams) (QueryResults[T], error)
	Get(ctx context.Context, itemId string) (T, error)
	Create(ctx context.Context, input I) (T, error)
	Update(ctx context.Context, itemId string, input I) (T, error)
	Delete(ctx context.Context, itemId string) error
}

type Unit string

const (
	UNIT  Unit = "unit"
	GRAM  Unit = "gram"
	LITER Unit = "liter"
)

var Units = []Unit{UNIT, GRAM, LITER}

func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

func ParseUnit(value string) (Unit, error) {
	unit := Unit(value)
	if !unit.Valid() {
		return "", fmt.Errorf("not a valid unit: %q", value)
	}
	return unit, nil
}

// FormatQuantity renders a quantity with the short suffix of its unit:
// 2 for units, 500g for grams and 1.5L for liters.
func FormatQuantity(quantity decimal.Decimal, unit *Unit) string {
	if unit == nil {
		return quantity.String()
	}
	switch *unit {
	case GRAM:
		return quantity.String() + "g"
	case LITER:
		return quantity.String() + "L"
	default:
		return quantity.String()
	}
}
