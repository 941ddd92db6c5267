package shopping

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/lists"
	"philcali.me/groceries/internal/routes"
	"philcali.me/groceries/internal/routes/util"
)

// CURRENT_LIST can stand in for a list id to address the list without a date.
const CURRENT_LIST = "current"

type ShoppingListService struct {
	data      data.ShoppingListDataService
	items     data.ShoppingListItemRepository
	mutations *lists.MutationService
}

func NewRoute(data data.ShoppingListDataService, items data.ShoppingListItemRepository, mutations *lists.MutationService) routes.Service {
	return &ShoppingListService{
		data:      data,
		items:     items,
		mutations: mutations,
	}
}

func (sl *ShoppingListService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/shopping-list":                sl.ListShoppingLists,
		"GET:/shopping-list/:listId":        sl.GetShoppingList,
		"POST:/shopping-list":               sl.CreateShoppingList,
		"PUT:/shopping-list/:listId":        sl.UpdateShoppingList,
		"DELETE:/shopping-list/:listId":     sl.DeleteShoppingList,
		"POST:/shopping-list/:listId":       sl.CreateItem,
		"PUT:/shopping-list/:listId/:ref":   sl.SetItem,
		"DELETE:/shopping-list/:listId/:ref": sl.DeleteItem,
	}
}

func (sl *ShoppingListService) listId(ctx context.Context) (string, error) {
	listId := util.RequestParam(ctx, "listId")
	if listId != CURRENT_LIST {
		return listId, nil
	}
	current, err := sl.data.Current(ctx)
	return current.ID, err
}

func (sl *ShoppingListService) ListShoppingLists(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	return util.SerializeList(sl.data.List, NewShoppingList, event, ctx, "name")
}

func (sl *ShoppingListService) GetShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	if util.RequestParam(ctx, "listId") == CURRENT_LIST {
		item, err := sl.data.Current(ctx)
		return util.SerializeResponseOK(NewShoppingList, item, err)
	}
	item, err := sl.data.Get(ctx, util.RequestParam(ctx, "listId"))
	return util.SerializeResponseOK(NewShoppingList, item, err)
}

func (sl *ShoppingListService) CreateShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ShoppingListInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := sl.data.Create(ctx, input.ToData())
	return util.SerializeResponseOK(NewShoppingList, created, err)
}

func (sl *ShoppingListService) UpdateShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ShoppingListInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	listId, err := sl.listId(ctx)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := sl.data.Update(ctx, listId, input.ToData())
	return util.SerializeResponseOK(NewShoppingList, item, err)
}

func (sl *ShoppingListService) DeleteShoppingList(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	listId, err := sl.listId(ctx)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.SerializeResponseNoContent(sl.data.Delete(ctx, listId))
}

func (sl *ShoppingListService) CreateItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ItemInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	ref, err := input.ToRef()
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	listId, err := sl.listId(ctx)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := sl.mutations.CreateItem(ctx, listId, uuid.NewString(), ref, input.ToOptions())
	return util.SerializeResponseOK(NewShoppingListItem, item, err)
}

func (sl *ShoppingListService) SetItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	input, err := util.ParseBody[ItemUpdateInput](event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	listId, err := sl.listId(ctx)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := sl.mutations.SetItem(ctx, listId, util.RequestParam(ctx, "ref"), uuid.NewString(), input.ToData())
	return util.SerializeResponseOK(NewShoppingListItem, item, err)
}

func (sl *ShoppingListService) DeleteItem(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	listId, err := sl.listId(ctx)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	item, err := sl.items.FindItem(ctx, listId, util.RequestParam(ctx, "ref"))
	if exceptions.IsNotFound(err) {
		return util.SerializeResponseNoContent(nil)
	}
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.SerializeResponseNoContent(sl.mutations.DeleteItem(ctx, listId, item.ID))
}
