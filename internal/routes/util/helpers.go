package util

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/groceries/internal/data"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/routes"
)

func SerializeResponse[T interface{}, R interface{}](delayed func(T) R, thing T, err error, statusCode int) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	body, err := json.Marshal(delayed(thing))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

func SerializeResponseOK[T interface{}, R interface{}](delayed func(T) R, thing T, err error) (events.APIGatewayV2HTTPResponse, error) {
	return SerializeResponse(delayed, thing, err, 200)
}

func SerializeResponseNoContent(err error) (events.APIGatewayV2HTTPResponse, error) {
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: 204,
	}, nil
}

func ConvertQueryResults[D interface{}, R interface{}](items data.QueryResults[D], thunk func(D) R) data.QueryResults[R] {
	return data.QueryResults[R]{
		Items:     MapOnList(items.Items, thunk),
		NextToken: items.NextToken,
	}
}

func ConvertQueryResultsPartial[D interface{}, R interface{}](thunk func(D) R) func(data.QueryResults[D]) data.QueryResults[R] {
	return func(d data.QueryResults[D]) data.QueryResults[R] {
		return ConvertQueryResults(d, thunk)
	}
}

// MapOnList converts every element. The result is never nil so it encodes
// as an empty JSON array.
func MapOnList[D interface{}, R interface{}](items []D, thunk func(D) R) []R {
	converted := make([]R, len(items))
	for i, item := range items {
		converted[i] = thunk(item)
	}
	return converted
}

func RequestParam(ctx context.Context, name string) string {
	if params, ok := ctx.Value(routes.PARAMS_KEY).(map[string]string); ok {
		return params[name]
	}
	return ""
}

// ParseQueryParams reads limit and nextToken plus the named filters from the
// query string.
func ParseQueryParams(event events.APIGatewayV2HTTPRequest, filters ...string) (data.QueryParams, error) {
	params := data.QueryParams{
		Filters: make(map[string]string, len(filters)),
	}
	query := event.QueryStringParameters
	if limit, ok := query["limit"]; ok && limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil || value < 1 {
			return params, exceptions.InvalidField("limit", "Limit must be a positive integer")
		}
		params.Limit = value
	}
	if nextToken, ok := query["nextToken"]; ok && nextToken != "" {
		params.NextToken = []byte(nextToken)
	}
	for _, name := range filters {
		if value, ok := query[name]; ok {
			params.Filters[name] = value
		}
	}
	return params, nil
}

func SerializeList[D interface{}, R interface{}](list func(context.Context, data.QueryParams) (data.QueryResults[D], error), thunk func(D) R, event events.APIGatewayV2HTTPRequest, ctx context.Context, filters ...string) (events.APIGatewayV2HTTPResponse, error) {
	params, err := ParseQueryParams(event, filters...)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	results, err := list(ctx, params)
	return SerializeResponseOK(ConvertQueryResultsPartial(thunk), results, err)
}

// ParseBody decodes the JSON request body. An empty body decodes to the zero
// value.
func ParseBody[T interface{}](event events.APIGatewayV2HTTPRequest) (T, error) {
	var input T
	if event.Body == "" {
		return input, nil
	}
	if err := json.Unmarshal([]byte(event.Body), &input); err != nil {
		return input, exceptions.InvalidInput(err.Error())
	}
	return input, nil
}
