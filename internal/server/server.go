package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"coffeeshop/internal/auth"
	"coffeeshop/internal/handlers"
	applog "coffeeshop/internal/log"
	"coffeeshop/internal/store"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr       string
	Database   *gorm.DB
	Authorizer auth.Authorizer
	CORS       CORSConfig
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// Server wraps an http.Server serving the drinks API.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"allowedOrigins", cfg.CORS.AllowedOrigins,
	)

	if cfg.Authorizer == nil {
		return nil, errors.New("server: authorizer must not be nil")
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		applog.Debug(context.Background(), "cors origins not provided, using default")
		cfg.CORS.AllowedOrigins = []string{"http://localhost:8100"}
	}

	var ping func(context.Context) error
	if cfg.Database != nil {
		ping = func(ctx context.Context) error {
			sqlDB, err := cfg.Database.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	} else {
		applog.Warn(context.Background(), "server configured without a database")
	}

	drinks := handlers.NewDrinks(store.NewDrinks(cfg.Database))
	handler := newRouter(routerDeps{
		drinks:     drinks,
		authorizer: cfg.Authorizer,
		ping:       ping,
		origins:    cfg.CORS.AllowedOrigins,
	})

	applog.Debug(context.Background(), "http handler chain prepared")

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server starting listener", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
