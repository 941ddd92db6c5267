package dishes

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/routes"
	"philcali.me/groceries/internal/routes/util"
)

type DishService struct {
	data data.DishDataService
}

func NewRoute(data data.DishDataService) routes.Service {
	return &DishService{
		data: data,
	}
}

func (ds *DishService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/dish":         ds.ListDishes,
		"GET:/dish/:dishId": ds.GetDish,
		"POST:/dish":        ds.CreateDish,
	}
}

func (ds *DishService) ListDishes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList(ds.data.List, NewDish, event, ctx)
}

func (ds *DishService) GetDish(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := ds.data.Get(ctx, util.RequestParam(ctx, "dishId"))
	return util.SerializeResponseOK(NewDish, item, err)
}

func (ds *DishService) CreateDish(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[DishInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := ds.data.Create(ctx, input.ToData())
	return util.SerializeResponseOK(NewDish, created, err)
}
