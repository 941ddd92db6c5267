package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"philcali.me/groceries/internal/client"
	"philcali.me/groceries/internal/data"
)

const CURRENT_LIST = "current"

func first[T interface{}](ctx context.Context, kind string, name string, list func(context.Context, client.ListParams) (data.QueryResults[T], error)) (T, error) {
	var zero T
	page, err := list(ctx, client.ListParams{Limit: 1, Filters: map[string]string{"name": name}})
	if err != nil {
		return zero, err
	}
	if len(page.Items) == 0 {
		return zero, NewExitError(ExitCommandError, fmt.Sprintf("Cannot find %s %q", kind, name))
	}
	return page.Items[0], nil
}

// listId resolves a shopping list name. "current" names the list without a
// date and is passed through.
func listId(ctx context.Context, c *client.Client, name string) (string, error) {
	if name == CURRENT_LIST {
		return name, nil
	}
	list, err := first(ctx, "shopping list", name, c.ListShoppingLists)
	return list.Id, err
}

func productId(ctx context.Context, c *client.Client, name string) (string, error) {
	product, err := first(ctx, "product", name, c.ListProducts)
	return product.Id, err
}

func recipeId(ctx context.Context, c *client.Client, name string) (string, error) {
	recipe, err := first(ctx, "recipe", name, c.ListRecipes)
	return recipe.Id, err
}

func parseQuantity(value string) (decimal.Decimal, error) {
	quantity, err := decimal.NewFromString(value)
	if err != nil {
		return quantity, NewExitError(ExitCommandError, fmt.Sprintf("%q must be a valid number", value))
	}
	if quantity.IsNegative() {
		return quantity, NewExitError(ExitCommandError, fmt.Sprintf("%q must be positive", value))
	}
	return quantity, nil
}

func parseUnit(value string) (data.Unit, error) {
	unit, err := data.ParseUnit(value)
	if err != nil {
		return unit, WrapExitError(ExitCommandError, "invalid --unit", err)
	}
	return unit, nil
}
