package recipes

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/routes"
	"philcali.me/groceries/internal/routes/util"
)

type RecipeService struct {
	data data.RecipeDataService
}

func NewRoute(data data.RecipeDataService) routes.Service {
	return &RecipeService{
		data: data,
	}
}

func (rs *RecipeService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/recipe":              rs.ListRecipes,
		"GET:/recipe/:recipeId":    rs.GetRecipe,
		"POST:/recipe":             rs.CreateRecipe,
		"PUT:/recipe/:recipeId":    rs.AddIngredient,
		"DELETE:/recipe/:recipeId": rs.DeleteRecipe,
	}
}

func (rs *RecipeService) ListRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList(rs.data.List, NewRecipe, event, ctx, "name")
}

func (rs *RecipeService) GetRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := rs.data.Get(ctx, util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseOK(NewRecipe, item, err)
}

func (rs *RecipeService) CreateRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[RecipeInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := rs.data.Create(ctx, input.ToData())
	return util.SerializeResponseOK(NewRecipe, created, err)
}

func (rs *RecipeService) AddIngredient(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[IngredientInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	ingredient, err := input.ToData()
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := rs.data.AddIngredient(ctx, util.RequestParam(ctx, "recipeId"), ingredient)
	return util.SerializeResponseOK(NewRecipe, item, err)
}

func (rs *RecipeService) DeleteRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	err := rs.data.Delete(ctx, util.RequestParam(ctx, "recipeId"))
	return util.SerializeResponseNoContent(err)
}
