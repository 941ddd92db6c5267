// Package app wires storage, routes and event handlers into the handlers the
// binaries serve.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"philcali.me/groceries/internal/config"
	"philcali.me/groceries/internal/database"
	auditData "philcali.me/groceries/internal/database/audits"
	dishData "philcali.me/groceries/internal/database/dishes"
	productData "philcali.me/groceries/internal/database/products"
	recipeData "philcali.me/groceries/internal/database/recipes"
	shoppingData "philcali.me/groceries/internal/database/shopping"
	stockData "philcali.me/groceries/internal/database/stocks"
	"philcali.me/groceries/internal/database/token"
	"philcali.me/groceries/internal/events"
	"philcali.me/groceries/internal/lists"
	"philcali.me/groceries/internal/routes"
	"philcali.me/groceries/internal/routes/audits"
	"philcali.me/groceries/internal/routes/dishes"
	"philcali.me/groceries/internal/routes/filters"
	"philcali.me/groceries/internal/routes/products"
	"philcali.me/groceries/internal/routes/recipes"
	"philcali.me/groceries/internal/routes/shopping"
	"philcali.me/groceries/internal/routes/stock"
	snsServices "philcali.me/groceries/internal/sns/services"
)

type App struct {
	DB       *database.DB
	Router   *routes.Router
	Stream   *shopping.EventStream
	Registry *events.Registry
	Emitter  *events.Emitter
}

// New opens the database and builds every route. Extra handlers are appended
// after the built-in ones.
func New(ctx context.Context, cfg config.Config, extra ...events.EventFilter) (*App, error) {
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	handlers := []events.EventFilter{}
	if cfg.AWS.TopicArn != "" {
		client, err := snsServices.NewClient(ctx, cfg.AWS.Region, cfg.AWS.Endpoint)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create SNS client: %w", err)
		}
		handlers = append(handlers, &events.PublishNotificationHandler{
			Notifications: snsServices.NewNotificationService(client, cfg.AWS.TopicArn),
		})
	}
	return NewWithDB(db, cfg, append(handlers, extra...)...), nil
}

func NewWithDB(db *database.DB, cfg config.Config, extra ...events.EventFilter) *App {
	secret := cfg.TokenSecret
	if secret == "" {
		slog.Warn("no token secret configured, pagination tokens will not survive a restart")
		secret = uuid.NewString()
	}
	marshaler := token.NewGCM(secret)

	registry := events.NewRegistry(cfg.Events.Buffer)
	auditRepo := auditData.NewAuditService(db.Gorm, marshaler)
	handlers := append([]events.EventFilter{registry, events.DefaultAuditHandler(auditRepo)}, extra...)
	emitter := events.NewEmitter(handlers...)

	shoppingLists := shoppingData.NewShoppingListService(db.Gorm, marshaler)
	items := shoppingData.NewShoppingListItemService(db.Gorm)
	mutations := lists.NewMutationService(items, emitter)
	router := routes.NewRouter(
		products.NewRoute(productData.NewProductService(db.Gorm, marshaler)),
		stock.NewRoute(stockData.NewStockService(db.Gorm, marshaler)),
		shopping.NewRoute(shoppingLists, items, mutations),
		recipes.NewRoute(recipeData.NewRecipeService(db.Gorm, marshaler)),
		dishes.NewRoute(dishData.NewDishService(db.Gorm, marshaler)),
		audits.NewRoute(auditRepo),
	).WithCors(filters.NewCorsFilter(cfg.CorsOrigins...))
	return &App{
		DB:       db,
		Router:   router,
		Registry: registry,
		Emitter:  emitter,
		Stream: &shopping.EventStream{
			Registry:  registry,
			Lists:     shoppingLists,
			Cors:      router.Cors,
			KeepAlive: cfg.Events.KeepAlive,
		},
	}
}

// Handler serves the event stream next to the JSON API.
func (a *App) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/shopping-list/{listId}/events", a.Stream).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(a.Router)
	r.Use(routes.LoggingMiddleware)
	return r
}

func (a *App) Close() error {
	return a.DB.Close()
}
