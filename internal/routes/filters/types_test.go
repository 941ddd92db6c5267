package filters

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func request(method string, origin string) events.APIGatewayV2HTTPRequest {
	event := events.APIGatewayV2HTTPRequest{
		RawPath: "/product",
		Headers: map[string]string{},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: method},
		},
	}
	if origin != "" {
		event.Headers["origin"] = origin
	}
	return event
}

func TestCorsFilter(t *testing.T) {
	t.Run("AnyOrigin", func(t *testing.T) {
		cors := DefaultCorsFilter()
		assert.Equal(t, ANY_ORIGIN, cors.AllowOrigin(""))
		assert.Equal(t, ANY_ORIGIN, cors.AllowOrigin("https://kitchen.example"))

		resp := cors.Apply(request("GET", ""), events.APIGatewayV2HTTPResponse{StatusCode: 200})
		assert.Equal(t, ANY_ORIGIN, resp.Headers["access-control-allow-origin"])
		assert.NotContains(t, resp.Headers, "vary")
	})

	t.Run("Allowlist", func(t *testing.T) {
		cors := NewCorsFilter("https://kitchen.example", "http://localhost:3000")
		assert.Equal(t, "http://localhost:3000", cors.AllowOrigin("http://localhost:3000"))
		assert.Equal(t, "", cors.AllowOrigin("https://elsewhere.example"))
		assert.Equal(t, "", cors.AllowOrigin(""))

		allowed := cors.Apply(request("GET", "https://kitchen.example"), events.APIGatewayV2HTTPResponse{})
		assert.Equal(t, "https://kitchen.example", allowed.Headers["access-control-allow-origin"])
		assert.Equal(t, "Origin", allowed.Headers["vary"])

		denied := cors.Apply(request("GET", "https://elsewhere.example"), events.APIGatewayV2HTTPResponse{})
		assert.Nil(t, denied.Headers)
	})

	t.Run("Preflight", func(t *testing.T) {
		cors := NewCorsFilter("https://kitchen.example")
		ctx := DefaultFilterContext(request("OPTIONS", "https://kitchen.example"), context.Background())
		updated, broken := cors.Filter(ctx)
		assert.True(t, broken)
		assert.Equal(t, 200, updated.Response.StatusCode)
		assert.Equal(t, "0", updated.Response.Headers["content-length"])
		assert.Equal(t, "https://kitchen.example", updated.Response.Headers["access-control-allow-origin"])
		assert.Equal(t, "Content-Type, Content-Length", updated.Response.Headers["access-control-allow-headers"])
	})

	t.Run("PassesOtherMethods", func(t *testing.T) {
		ctx := DefaultFilterContext(request("POST", ""), context.Background())
		updated, broken := DefaultCorsFilter().Filter(ctx)
		assert.False(t, broken)
		assert.Same(t, ctx, updated)
	})
}
