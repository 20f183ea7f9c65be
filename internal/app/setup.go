// Package app contains the application setup for the catalog server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/render"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/store/db"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/internal/transport/web"
	"github.com/abgdnv/catalog/pkg/bootstrap"
	"github.com/abgdnv/catalog/pkg/messaging"
	natsclient "github.com/abgdnv/catalog/pkg/nats"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Dependencies struct {
	ProductService service.ProductService
	Renderer       web.PageRenderer
	StaticDir      string
	Logger         *slog.Logger
	// MetricsHandler is mounted on MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string
	RateLimit      server.RateLimitConfig
}

// SetupDependencies builds the service and renderer. A nil publisher disables change events.
func SetupDependencies(connector db.Connector, publisher messaging.Publisher, cfg *config.Config, logger *slog.Logger) *Dependencies {
	pService := service.NewService(store.NewPgStore(connector), publisher)

	return &Dependencies{
		ProductService: pService,
		Renderer:       render.NewRenderer(render.FileSource{Path: cfg.Template.Path}),
		StaticDir:      cfg.Static.Dir,
		Logger:         logger,
		RateLimit: server.RateLimitConfig{
			Requests: cfg.HTTPServer.RateLimit.Requests,
			Window:   cfg.HTTPServer.RateLimit.Window,
		},
	}
}

// NewConnector opens the store connection source and checks that PostgreSQL is reachable.
func NewConnector(ctx context.Context, cfg *config.Config) (db.Connector, error) {
	var connector db.Connector
	if cfg.Database.Pooled {
		pool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, err
		}
		connector = db.NewPoolConnector(pool)
	} else {
		direct, err := db.NewDirectConnector(cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, err
		}
		connector = direct
	}

	if err := db.Ping(ctx, connector); err != nil {
		connector.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return connector, nil
}

// NewPublisher connects to NATS and ensures the catalog stream when events are enabled.
// The returned close function drains the connection.
func NewPublisher(ctx context.Context, cfg *config.Config) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		return messaging.NopPublisher{}, func() {}, nil
	}
	nc, err := natsclient.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	// NewJetStreamContext closes nc on failure.
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := natsclient.EnsureStream(ctx, js, cfg.Nats.Stream, messaging.CatalogStreamSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}
	return natsclient.NewNatsPublisher(js), closeFn, nil
}

// SetupHttpHandler initializes the router with the JSON API, the HTML page and static files.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger, deps.RateLimit)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the catalog.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	rest.NewHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	web.NewHandler(deps.ProductService, deps.Renderer, deps.StaticDir, deps.Logger).RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Method(http.MethodGet, deps.MetricsPath, deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the catalog.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	var handler = SetupHttpHandler(deps)
	if cfg.Telemetry.Enabled {
		handler = otelhttp.NewHandler(handler, "catalog-http")
	}

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler)
}
