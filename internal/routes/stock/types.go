package stock

import (
	"time"

	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/data"
)

type StockInput struct {
	Quantity *decimal.Decimal `json:"quantity"`
}

type Stock struct {
	Id         string          `json:"id"`
	ProductId  string          `json:"productId"`
	Name       string          `json:"name"`
	Unit       data.Unit       `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdateTime time.Time       `json:"updateTime"`
}

func NewStock(stock data.StockDTO) Stock {
	converted := Stock{
		Id:         stock.ID,
		ProductId:  stock.ProductID,
		Quantity:   stock.Quantity,
		UpdateTime: stock.UpdateTime,
	}
	if stock.Product != nil {
		converted.Name = stock.Product.Name
		converted.Unit = stock.Product.Unit
	}
	return converted
}
