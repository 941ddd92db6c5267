package data

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type IngredientDTO struct {
	ID         string      `gorm:"primaryKey"`
	RecipeID   string      `gorm:"not null"`
	ProductID  *string
	Product    *ProductDTO `gorm:"foreignKey:ProductID"`
	Label      *string
	Unit       *Unit
	Quantity   decimal.Decimal `gorm:"type:text;not null"`
	Position   int             `gorm:"not null"`
	CreateTime time.Time
}

func (IngredientDTO) TableName() string {
	return "ingredients"
}

func (i *IngredientDTO) DisplayLabel() string {
	if i.Product != nil {
		return i.Product.Name
	}
	if i.Label != nil {
		return *i.Label
	}
	return ""
}

func (i *IngredientDTO) DisplayUnit() *Unit {
	if i.Product != nil {
		unit := i.Product.Unit
		return &unit
	}
	return i.Unit
}

type RecipeDTO struct {
	ID          string          `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description string          `gorm:"not null"`
	Ingredients []IngredientDTO `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreateTime  time.Time
	UpdateTime  time.Time
}

func (RecipeDTO) TableName() string {
	return "recipes"
}

type RecipeInputDTO struct {
	Name        *string
	Description *string
}

type IngredientInputDTO struct {
	Ref      ItemRef
	Quantity decimal.Decimal
}

type RecipeDataService interface {
	Repository[RecipeDTO, RecipeInputDTO]
	AddIngredient(ctx context.Context, recipeId string, input IngredientInputDTO) (RecipeDTO, error)
}
