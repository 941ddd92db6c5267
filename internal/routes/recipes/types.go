package recipes

import (
	"time"

	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/routes/util"
)

type Ingredient struct {
	Id        string          `json:"id"`
	ProductId *string         `json:"productId,omitempty"`
	Label     string          `json:"label"`
	Unit      *data.Unit      `json:"unit,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	Position  int             `json:"position"`
}

func NewIngredient(ingredient data.IngredientDTO) Ingredient {
	return Ingredient{
		Id:        ingredient.ID,
		ProductId: ingredient.ProductID,
		Label:     ingredient.DisplayLabel(),
		Unit:      ingredient.DisplayUnit(),
		Quantity:  ingredient.Quantity,
		Position:  ingredient.Position,
	}
}

type Recipe struct {
	Id          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Ingredients []Ingredient `json:"ingredients"`
	CreateTime  time.Time    `json:"createTime"`
	UpdateTime  time.Time    `json:"updateTime"`
}

func NewRecipe(recipe data.RecipeDTO) Recipe {
	return Recipe{
		Id:          recipe.ID,
		Name:        recipe.Name,
		Description: recipe.Description,
		Ingredients: util.MapOnList(recipe.Ingredients, NewIngredient),
		CreateTime:  recipe.CreateTime,
		UpdateTime:  recipe.UpdateTime,
	}
}

type RecipeInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *RecipeInput) ToData() data.RecipeInputDTO {
	return data.RecipeInputDTO{
		Name:        r.Name,
		Description: r.Description,
	}
}

// IngredientInput references a product, or falls back to a label. A product
// id takes precedence when both are given.
type IngredientInput struct {
	ProductId *string          `json:"productId,omitempty"`
	Label     *string          `json:"label,omitempty"`
	Unit      *data.Unit       `json:"unit,omitempty"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
}

func (i *IngredientInput) ToData() (data.IngredientInputDTO, error) {
	if i.Quantity == nil {
		return data.IngredientInputDTO{}, exceptions.InvalidField("quantity", "Ingredient quantity is required")
	}
	input := data.IngredientInputDTO{Quantity: *i.Quantity}
	switch {
	case i.ProductId != nil:
		input.Ref = data.ByProduct{ID: *i.ProductId}
	case i.Label != nil:
		input.Ref = data.ByLabel{Text: *i.Label, Unit: i.Unit}
	default:
		return input, exceptions.InvalidInput("Provide either productId or label")
	}
	return input, nil
}
