package routes

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/groceries/internal/exceptions"
	"philcali.me/groceries/internal/routes/filters"
)

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

type contextKey string

const PARAMS_KEY contextKey = "Params"

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	once       sync.Once
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

func (cr *CachedMatcher) Refresh(path string) *regexp.Regexp {
	cr.once.Do(func() {
		namex := regexp.MustCompile(":[^/]+")
		regexPath := namex.ReplaceAllStringFunc(path, func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	})
	return cr.Matcher
}

func (cr *CachedRoute) MatchEvent(event events.APIGatewayV2HTTPRequest) (map[string]string, bool) {
	if event.RequestContext.HTTP.Method != cr.Method {
		return nil, false
	}
	matcher := cr.Matcher.Refresh(cr.Path)
	params := make(map[string]string, len(cr.Matcher.ParamNames))
	if event.RawPath == cr.Path {
		return params, true
	}
	values := matcher.FindStringSubmatch(event.RawPath)
	if values == nil {
		return nil, false
	}
	for i, p := range cr.Matcher.ParamNames {
		params[p] = values[i+1]
	}
	return params, true
}

type Router struct {
	Cors    *filters.CorsFilter
	Filters []filters.RequestFilter
	Routes  []CachedRoute
}

func NewRouter(services ...Service) *Router {
	var routes []CachedRoute
	for _, service := range services {
		for composite, route := range service.GetRoutes() {
			parts := strings.SplitN(composite, ":", 2)
			routes = append(routes, CachedRoute{
				Method:  parts[0],
				Path:    parts[1],
				Route:   route,
				Matcher: &CachedMatcher{},
			})
		}
	}
	cors := filters.DefaultCorsFilter()
	return &Router{
		Routes:  routes,
		Cors:    cors,
		Filters: []filters.RequestFilter{cors},
	}
}

// WithCors swaps the CORS filter for one with a different origin policy.
func (r *Router) WithCors(cors *filters.CorsFilter) *Router {
	for i, filter := range r.Filters {
		if filter == filters.RequestFilter(r.Cors) {
			r.Filters[i] = cors
		}
	}
	r.Cors = cors
	return r
}

type errorBody struct {
	Message string            `json:"message"`
	Extra   map[string]string `json:"extra,omitempty"`
}

func translateError(err error, ctx context.Context) events.APIGatewayV2HTTPResponse {
	statusCode := 500
	body := errorBody{Message: "Internal server error"}
	if re, ok := exceptions.AsRequestError(err); ok {
		statusCode = re.ToServiceError().StatusCode
		if statusCode < 500 {
			body = errorBody{Message: re.Error(), Extra: re.Extra()}
		}
	}
	if statusCode >= 500 {
		slog.ErrorContext(ctx, "request failed", "error", err)
	}
	payload, _ := json.Marshal(body)
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(payload)),
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Body:       string(payload),
		Headers:    headers,
	}
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			return *updatedContext.Response
		}
		filterContext = updatedContext
	}
	for _, route := range r.Routes {
		if params, ok := route.MatchEvent(*filterContext.Request); ok {
			resp, err := route.Route(event, context.WithValue(*filterContext.Context, PARAMS_KEY, params))
			if err != nil {
				return r.Cors.Apply(event, translateError(err, ctx))
			}
			return r.Cors.Apply(event, resp)
		}
	}
	return r.Cors.Apply(event, translateError(exceptions.NotFound("route", event.RawPath), ctx))
}
