package products

import (
	"time"

	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/data"
)

type ProductInput struct {
	Name            *string          `json:"name,omitempty"`
	NamePlural      *string          `json:"namePlural,omitempty"`
	Unit            *data.Unit       `json:"unit,omitempty"`
	DefaultQuantity *decimal.Decimal `json:"defaultQuantity,omitempty"`
}

func (p *ProductInput) ToData() data.ProductInputDTO {
	return data.ProductInputDTO{
		Name:            p.Name,
		NamePlural:      p.NamePlural,
		Unit:            p.Unit,
		DefaultQuantity: p.DefaultQuantity,
	}
}

type Product struct {
	Id              string          `json:"id"`
	Name            string          `json:"name"`
	NamePlural      *string         `json:"namePlural,omitempty"`
	Unit            data.Unit       `json:"unit"`
	DefaultQuantity decimal.Decimal `json:"defaultQuantity"`
	CreateTime      time.Time       `json:"createTime"`
	UpdateTime      time.Time       `json:"updateTime"`
}

func NewProduct(product data.ProductDTO) Product {
	return Product{
		Id:              product.ID,
		Name:            product.Name,
		NamePlural:      product.NamePlural,
		Unit:            product.Unit,
		DefaultQuantity: product.DefaultQuantity,
		CreateTime:      product.CreateTime,
		UpdateTime:      product.UpdateTime,
	}
}
