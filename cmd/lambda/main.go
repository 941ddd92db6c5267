package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"philcali.me/groceries/internal/app"
	"philcali.me/groceries/internal/config"
	"philcali.me/groceries/internal/routes"
)

// Lambda serves the JSON API only. Event streams need a long lived
// connection and are served by cmd/server.
type App struct {
	Router *routes.Router
}

func NewApp(ctx context.Context) App {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %s", err))
	}
	slog.SetDefault(cfg.NewLogger(true))
	application, err := app.New(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to create app: %s", err))
	}
	return App{
		Router: application.Router,
	}
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app := NewApp(context.Background())
	lambda.Start(app.HandleRequest)
}
