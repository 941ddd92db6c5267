package products

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/routes"
	"philcali.me/groceries/internal/routes/util"
)

type ProductService struct {
	data data.ProductDataService
}

func NewRoute(data data.ProductDataService) routes.Service {
	return &ProductService{
		data: data,
	}
}

func (ps *ProductService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/product":               ps.ListProducts,
		"GET:/product/:productId":    ps.GetProduct,
		"POST:/product":              ps.CreateProduct,
		"PUT:/product/:productId":    ps.UpdateProduct,
		"DELETE:/product/:productId": ps.DeleteProduct,
	}
}

func (ps *ProductService) ListProducts(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList(ps.data.List, NewProduct, event, ctx, "name")
}

func (ps *ProductService) GetProduct(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	item, err := ps.data.Get(ctx, util.RequestParam(ctx, "productId"))
	return util.SerializeResponseOK(NewProduct, item, err)
}

func (ps *ProductService) CreateProduct(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ProductInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := ps.data.Create(ctx, input.ToData())
	return util.SerializeResponseOK(NewProduct, created, err)
}

func (ps *ProductService) UpdateProduct(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ProductInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	updated, err := ps.data.Update(ctx, util.RequestParam(ctx, "productId"), input.ToData())
	return util.SerializeResponseOK(NewProduct, updated, err)
}

func (ps *ProductService) DeleteProduct(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	err := ps.data.Delete(ctx, util.RequestParam(ctx, "productId"))
	return util.SerializeResponseNoContent(err)
}
