package routes

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/felixge/httpsnoop"
)

// ServeHTTP lets the router run behind net/http by translating the request
// into the API Gateway shape the routes are written against.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	event := events.APIGatewayV2HTTPRequest{
		RawPath:               req.URL.Path,
		RawQueryString:        req.URL.RawQuery,
		Headers:               flatten(req.Header, true),
		QueryStringParameters: flatten(req.URL.Query(), false),
		Body:                  string(body),
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    req.Method,
				Path:      req.URL.Path,
				Protocol:  req.Proto,
				SourceIP:  req.RemoteAddr,
				UserAgent: req.UserAgent(),
			},
		},
	}
	response := r.Invoke(event, req.Context())
	for name, value := range response.Headers {
		w.Header().Set(name, value)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)
	payload := []byte(response.Body)
	if response.IsBase64Encoded {
		if payload, err = base64.StdEncoding.DecodeString(response.Body); err != nil {
			slog.Error("failed to decode response body", "error", err)
			return
		}
	}
	if _, err := w.Write(payload); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

func flatten[M ~map[string][]string](values M, lower bool) map[string]string {
	flat := make(map[string]string, len(values))
	for name, all := range values {
		if lower {
			name = strings.ToLower(name)
		}
		flat[name] = strings.Join(all, ",")
	}
	return flat
}

// LoggingMiddleware writes one access log line per request.
func LoggingMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		m := httpsnoop.CaptureMetrics(handler, writer, request)
		slog.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
	})
}
