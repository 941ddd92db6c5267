package dishes

import (
	"time"

	"philcali.me/groceries/internal/data"
)

type Dish struct {
	Id         string    `json:"id"`
	RecipeId   string    `json:"recipeId"`
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	CreateTime time.Time `json:"createTime"`
}

func NewDish(dish data.DishDTO) Dish {
	return Dish{
		Id:         dish.ID,
		RecipeId:   dish.RecipeID,
		Name:       dish.Name,
		Date:       dish.Date,
		CreateTime: dish.CreateTime,
	}
}

type DishInput struct {
	RecipeId *string    `json:"recipeId,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

func (d *DishInput) ToData() data.DishInputDTO {
	input := data.DishInputDTO{Date: d.Date}
	if d.RecipeId != nil {
		input.RecipeID = *d.RecipeId
	}
	return input
}
