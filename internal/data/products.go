package data

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductDTO struct {
	ID              string          `gorm:"primaryKey"`
	Name            string          `gorm:"not null"`
	NamePlural      *string
	Unit            Unit            `gorm:"not null"`
	DefaultQuantity decimal.Decimal `gorm:"type:text;not null"`
	CreateTime      time.Time
	UpdateTime      time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

type ProductInputDTO struct {
	Name            *string
	NamePlural      *string
	Unit            *Unit
	DefaultQuantity *decimal.Decimal
}

type ProductDataService interface {
	Repository[ProductDTO, ProductInputDTO]
}
