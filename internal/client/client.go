// Package client is a typed HTTP client for the groceries API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/routes/audits"
	"philcali.me/groceries/internal/routes/dishes"
	"philcali.me/groceries/internal/routes/products"
	"philcali.me/groceries/internal/routes/recipes"
	"philcali.me/groceries/internal/routes/shopping"
	"philcali.me/groceries/internal/routes/stock"
	"philcali.me/groceries/internal/sse"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string            `json:"message"`
	Extra      map[string]string `json:"extra"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type ListParams struct {
	Limit     int
	NextToken []byte
	Filters   map[string]string
}

func (p ListParams) values() url.Values {
	values := url.Values{}
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	if len(p.NextToken) > 0 {
		values.Set("nextToken", string(p.NextToken))
	}
	for name, value := range p.Filters {
		values.Set(name, value)
	}
	return values
}

type Client struct {
	BaseURL *url.URL
	HTTP    *http.Client
}

func New(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API url %q: expected scheme and host", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{BaseURL: parsed, HTTP: httpClient}, nil
}

func (c *Client) request(ctx context.Context, method string, query url.Values, body any, path ...string) (*http.Request, error) {
	endpoint := c.BaseURL.JoinPath(path...)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func readError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	payload, err := io.ReadAll(resp.Body)
	if err == nil && len(payload) > 0 {
		if json.Unmarshal(payload, apiErr) != nil {
			apiErr.Message = string(bytes.TrimSpace(payload))
		}
	}
	return apiErr
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func do[T interface{}](c *Client, ctx context.Context, method string, query url.Values, body any, path ...string) (T, error) {
	var out T
	req, err := c.request(ctx, method, query, body, path...)
	if err != nil {
		return out, err
	}
	return out, c.send(req, &out)
}

func (c *Client) delete(ctx context.Context, path ...string) error {
	req, err := c.request(ctx, http.MethodDelete, nil, nil, path...)
	if err != nil {
		return err
	}
	return c.send(req, nil)
}

// All follows nextToken until every page is read.
func All[T interface{}](ctx context.Context, params ListParams, list func(context.Context, ListParams) (data.QueryResults[T], error)) ([]T, error) {
	items := []T{}
	for {
		page, err := list(ctx, params)
		if err != nil {
			return items, err
		}
		items = append(items, page.Items...)
		if len(page.NextToken) == 0 {
			return items, nil
		}
		params.NextToken = page.NextToken
	}
}

func (c *Client) ListProducts(ctx context.Context, params ListParams) (data.QueryResults[products.Product], error) {
	return do[data.QueryResults[products.Product]](c, ctx, http.MethodGet, params.values(), nil, "product")
}

func (c *Client) GetProduct(ctx context.Context, productId string) (products.Product, error) {
	return do[products.Product](c, ctx, http.MethodGet, nil, nil, "product", productId)
}

func (c *Client) CreateProduct(ctx context.Context, input products.ProductInput) (products.Product, error) {
	return do[products.Product](c, ctx, http.MethodPost, nil, input, "product")
}

func (c *Client) UpdateProduct(ctx context.Context, productId string, input products.ProductInput) (products.Product, error) {
	return do[products.Product](c, ctx, http.MethodPut, nil, input, "product", productId)
}

func (c *Client) DeleteProduct(ctx context.Context, productId string) error {
	return c.delete(ctx, "product", productId)
}

func (c *Client) ListStock(ctx context.Context, params ListParams) (data.QueryResults[stock.Stock], error) {
	return do[data.QueryResults[stock.Stock]](c, ctx, http.MethodGet, params.values(), nil, "stock")
}

func (c *Client) UpdateStock(ctx context.Context, productId string, input stock.StockInput) (stock.Stock, error) {
	return do[stock.Stock](c, ctx, http.MethodPut, nil, input, "stock", productId)
}

func (c *Client) ListShoppingLists(ctx context.Context, params ListParams) (data.QueryResults[shopping.ShoppingList], error) {
	return do[data.QueryResults[shopping.ShoppingList]](c, ctx, http.MethodGet, params.values(), nil, "shopping-list")
}

// GetShoppingList accepts a list id or "current".
func (c *Client) GetShoppingList(ctx context.Context, listId string) (shopping.ShoppingList, error) {
	return do[shopping.ShoppingList](c, ctx, http.MethodGet, nil, nil, "shopping-list", listId)
}

func (c *Client) CreateShoppingList(ctx context.Context, input shopping.ShoppingListInput) (shopping.ShoppingList, error) {
	return do[shopping.ShoppingList](c, ctx, http.MethodPost, nil, input, "shopping-list")
}

func (c *Client) UpdateShoppingList(ctx context.Context, listId string, input shopping.ShoppingListInput) (shopping.ShoppingList, error) {
	return do[shopping.ShoppingList](c, ctx, http.MethodPut, nil, input, "shopping-list", listId)
}

func (c *Client) DeleteShoppingList(ctx context.Context, listId string) error {
	return c.delete(ctx, "shopping-list", listId)
}

func (c *Client) AddItem(ctx context.Context, listId string, input shopping.ItemInput) (shopping.ShoppingListItem, error) {
	return do[shopping.ShoppingListItem](c, ctx, http.MethodPost, nil, input, "shopping-list", listId)
}

// SetItem updates the item matching ref, an item id or a product id. A
// product without an item on the list gets one.
func (c *Client) SetItem(ctx context.Context, listId string, ref string, input shopping.ItemUpdateInput) (shopping.ShoppingListItem, error) {
	return do[shopping.ShoppingListItem](c, ctx, http.MethodPut, nil, input, "shopping-list", listId, ref)
}

func (c *Client) RemoveItem(ctx context.Context, listId string, ref string) error {
	return c.delete(ctx, "shopping-list", listId, ref)
}

func (c *Client) ListRecipes(ctx context.Context, params ListParams) (data.QueryResults[recipes.Recipe], error) {
	return do[data.QueryResults[recipes.Recipe]](c, ctx, http.MethodGet, params.values(), nil, "recipe")
}

func (c *Client) GetRecipe(ctx context.Context, recipeId string) (recipes.Recipe, error) {
	return do[recipes.Recipe](c, ctx, http.MethodGet, nil, nil, "recipe", recipeId)
}

func (c *Client) CreateRecipe(ctx context.Context, input recipes.RecipeInput) (recipes.Recipe, error) {
	return do[recipes.Recipe](c, ctx, http.MethodPost, nil, input, "recipe")
}

func (c *Client) AddIngredient(ctx context.Context, recipeId string, input recipes.IngredientInput) (recipes.Recipe, error) {
	return do[recipes.Recipe](c, ctx, http.MethodPut, nil, input, "recipe", recipeId)
}

func (c *Client) DeleteRecipe(ctx context.Context, recipeId string) error {
	return c.delete(ctx, "recipe", recipeId)
}

func (c *Client) ListDishes(ctx context.Context, params ListParams) (data.QueryResults[dishes.Dish], error) {
	return do[data.QueryResults[dishes.Dish]](c, ctx, http.MethodGet, params.values(), nil, "dish")
}

func (c *Client) CreateDish(ctx context.Context, input dishes.DishInput) (dishes.Dish, error) {
	return do[dishes.Dish](c, ctx, http.MethodPost, nil, input, "dish")
}

func (c *Client) ListAudits(ctx context.Context, params ListParams) (data.QueryResults[audits.Audit], error) {
	return do[data.QueryResults[audits.Audit]](c, ctx, http.MethodGet, params.values(), nil, "audits")
}

// Stream opens the event stream of a list. The server registers the
// subscription before it answers, so events committed after Stream returns
// are delivered. The caller closes the stream.
func (c *Client) Stream(ctx context.Context, listId string) (*EventStream, error) {
	req, err := c.request(ctx, http.MethodGet, nil, nil, "shopping-list", listId, "events")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", sse.CONTENT_TYPE)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readError(resp)
	}
	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType != sse.CONTENT_TYPE {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected stream content type %q", resp.Header.Get("Content-Type"))
	}
	return &EventStream{body: resp.Body, decoder: sse.NewDecoder(resp.Body)}, nil
}

type EventStream struct {
	body    io.ReadCloser
	decoder *sse.Decoder
}

// Next blocks for the next domain event. Unknown event names are skipped.
func (s *EventStream) Next() (data.EventPayload, error) {
	for {
		event, err := s.decoder.Decode()
		if err != nil {
			return nil, err
		}
		payload, err := data.ParseEventPayload(event.Name, event.Data)
		if err != nil {
			slog.Warn("skipping stream event", "event", event.Name, "error", err)
			continue
		}
		return payload, nil
	}
}

func (s *EventStream) Close() error {
	return s.body.Close()
}
