package filters

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/exp/slices"
)

const ANY_ORIGIN = "*"

type FilterContext struct {
	Request  *events.APIGatewayV2HTTPRequest
	Response *events.APIGatewayV2HTTPResponse
	Context  *context.Context
}

type RequestFilter interface {
	Filter(ctx *FilterContext) (*FilterContext, bool)
}

// CorsFilter answers preflight requests and decides which origin, if any, a
// response is readable from.
type CorsFilter struct {
	Methods []string
	Origins []string
	Headers []string
}

// AllowOrigin returns the value of access-control-allow-origin for a request
// coming from origin, or "" when the origin is not allowed.
func (cf *CorsFilter) AllowOrigin(origin string) string {
	if slices.Contains(cf.Origins, ANY_ORIGIN) {
		return ANY_ORIGIN
	}
	if origin != "" && slices.Contains(cf.Origins, origin) {
		return origin
	}
	return ""
}

func (cf *CorsFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if ctx.Request.RequestContext.HTTP.Method == "OPTIONS" {
		headers := ctx.Response.Headers
		if headers == nil {
			headers = make(map[string]string, 4)
		}
		headers["content-length"] = "0"
		headers["access-control-allow-headers"] = strings.Join(cf.Headers, ", ")
		headers["access-control-allow-methods"] = strings.Join(cf.Methods, ", ")
		if allowed := cf.AllowOrigin(ctx.Request.Headers["origin"]); allowed != "" {
			headers["access-control-allow-origin"] = allowed
		}
		return &FilterContext{
			Request: ctx.Request,
			Context: ctx.Context,
			Response: &events.APIGatewayV2HTTPResponse{
				Headers:    headers,
				StatusCode: ctx.Response.StatusCode,
			},
		}, true
	}
	return ctx, false
}

// Apply adds the allow-origin header to a regular response.
func (cf *CorsFilter) Apply(request events.APIGatewayV2HTTPRequest, response events.APIGatewayV2HTTPResponse) events.APIGatewayV2HTTPResponse {
	allowed := cf.AllowOrigin(request.Headers["origin"])
	if allowed == "" {
		return response
	}
	if response.Headers == nil {
		response.Headers = make(map[string]string, 1)
	}
	response.Headers["access-control-allow-origin"] = allowed
	if allowed != ANY_ORIGIN {
		response.Headers["vary"] = "Origin"
	}
	return response
}

func DefaultFilterContext(event events.APIGatewayV2HTTPRequest, ctx context.Context) *FilterContext {
	return &FilterContext{
		Request: &event,
		Response: &events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
		},
		Context: &ctx,
	}
}

// NewCorsFilter allows the given origins. No origins means any origin.
func NewCorsFilter(origins ...string) *CorsFilter {
	if len(origins) == 0 {
		origins = []string{ANY_ORIGIN}
	}
	return &CorsFilter{
		Methods: []string{"GET", "PUT", "POST", "DELETE"},
		Headers: []string{"Content-Type", "Content-Length"},
		Origins: origins,
	}
}

func DefaultCorsFilter() *CorsFilter {
	return NewCorsFilter()
}
