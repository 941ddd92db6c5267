package data

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ShoppingListDTO struct {
	ID         string `gorm:"primaryKey"`
	Name       *string
	Date       *time.Time
	Items      []ShoppingListItemDTO `gorm:"foreignKey:ShoppingListID;constraint:OnDelete:CASCADE"`
	CreateTime time.Time
	UpdateTime time.Time
}

func (ShoppingListDTO) TableName() string {
	return "shopping_lists"
}

// Current reports whether this is the list being filled for the next trip.
func (l *ShoppingListDTO) Current() bool {
	return l.Date == nil
}

type ShoppingListItemDTO struct {
	ID             string      `gorm:"primaryKey"`
	ShoppingListID string      `gorm:"not null"`
	ProductID      *string
	Product        *ProductDTO `gorm:"foreignKey:ProductID"`
	Label          *string
	Unit           *Unit
	Quantity       *decimal.Decimal `gorm:"type:text"`
	Checked        bool             `gorm:"not null"`
	Position       int              `gorm:"not null"`
	CreateTime     time.Time
	UpdateTime     time.Time
}

func (ShoppingListItemDTO) TableName() string {
	return "shopping_list_items"
}

// DisplayLabel prefers the product name over the free-text label.
func (i *ShoppingListItemDTO) DisplayLabel() string {
	if i.Product != nil {
		return i.Product.Name
	}
	if i.Label != nil {
		return *i.Label
	}
	return ""
}

func (i *ShoppingListItemDTO) DisplayUnit() *Unit {
	if i.Product != nil {
		unit := i.Product.Unit
		return &unit
	}
	return i.Unit
}

type ShoppingListInputDTO struct {
	Name *string
	Date *time.Time
}

type ShoppingListDataService interface {
	Repository[ShoppingListDTO, ShoppingListInputDTO]
	Current(ctx context.Context) (ShoppingListDTO, error)
}

// ShoppingListItemRepository is the storage side of item mutations. Each
// method runs as a single transaction.
type ShoppingListItemRepository interface {
	CreateItem(ctx context.Context, listId string, itemId string, ref ItemRef, options ItemOptions) (ShoppingListItemDTO, error)
	UpdateItem(ctx context.Context, itemId string, update ItemUpdate) (ShoppingListItemDTO, error)
	DeleteItem(ctx context.Context, listId string, itemId string) (bool, error)
	FindItem(ctx context.Context, listId string, ref string) (ShoppingListItemDTO, error)
}
