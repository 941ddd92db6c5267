package stock

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/routes"
	"philcali.me/groceries/internal/routes/util"
)

type StockService struct {
	data data.StockDataService
}

func NewRoute(data data.StockDataService) routes.Service {
	return &StockService{
		data: data,
	}
}

func (ss *StockService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/stock":            ss.ListStock,
		"PUT:/stock/:productId": ss.UpdateStock,
	}
}

func (ss *StockService) ListStock(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList(ss.data.List, NewStock, event, ctx)
}

func (ss *StockService) UpdateStock(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[StockInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	if input.Quantity == nil {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidField("quantity", "Quantity is required")
	}
	stock, err := ss.data.Upsert(ctx, util.RequestParam(ctx, "productId"), *input.Quantity)
	return util.SerializeResponseOK(NewStock, stock, err)
}
