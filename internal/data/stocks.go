package data

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type StockDTO struct {
	ID         string          `gorm:"primaryKey"`
	ProductID  string          `gorm:"uniqueIndex;not null"`
	Product    *ProductDTO     `gorm:"foreignKey:ProductID"`
	Quantity   decimal.Decimal `gorm:"type:text;not null"`
	CreateTime time.Time
	UpdateTime time.Time
}

func (StockDTO) TableName() string {
	return "stocks"
}

type StockDataService interface {
	List(ctx context.Context, params QueryParams) (QueryResults[StockDTO], error)
	Upsert(ctx context.Context, productId string, quantity decimal.Decimal) (StockDTO, error)
}
