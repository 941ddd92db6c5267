package data

import (
	"context"
	"time"
)

// DishDTO is a recipe cooked on a given day.
type DishDTO struct {
	ID         string `gorm:"primaryKey"`
	RecipeID   string `gorm:"not null"`
	Name       string `gorm:"not null"`
	Date       time.Time
	CreateTime time.Time
}

func (DishDTO) TableName() string {
	return "dishes"
}

type DishInputDTO struct {
	RecipeID string
	Date     *time.Time
}

type DishDataService interface {
	List(ctx context.Context, params QueryParams) (QueryResults[DishDTO], error)
	Get(ctx context.Context, dishId string) (DishDTO, error)
	Create(ctx context.Context, input DishInputDTO) (DishDTO, error)
}
