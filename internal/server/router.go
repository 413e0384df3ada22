package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"coffeeshop/internal/auth"
	"coffeeshop/internal/handlers"
	applog "coffeeshop/internal/log"
)

// route binds a method and pattern to a handler and the permission a caller
// must hold. An empty permission makes the route public.
type route struct {
	method     string
	pattern    string
	permission string
	handler    http.HandlerFunc
}

func drinkRoutes(drinks *handlers.Drinks) []route {
	return []route{
		{http.MethodGet, "/drinks", "", drinks.List},
		{http.MethodGet, "/drinks-detail", auth.PermGetDrinksDetail, drinks.ListDetail},
		{http.MethodPost, "/drinks", auth.PermPostDrinks, drinks.Create},
		{http.MethodPatch, "/drinks/{id}", auth.PermPatchDrinks, drinks.Update},
		{http.MethodDelete, "/drinks/{id}", auth.PermDeleteDrinks, drinks.Delete},
	}
}

type routerDeps struct {
	drinks     *handlers.Drinks
	authorizer auth.Authorizer
	ping       func(context.Context) error
	origins    []string
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	applog.Debug(context.Background(), "registering http routes")
	r.Get("/healthz", handlers.Health(deps.ping))
	applog.Debug(context.Background(), "route registered", "method", http.MethodGet, "path", "/healthz")

	for _, rt := range drinkRoutes(deps.drinks) {
		r.With(auth.RequirePermission(deps.authorizer, rt.permission, handlers.RespondError)).
			Method(rt.method, rt.pattern, rt.handler)
		applog.Debug(context.Background(), "route registered",
			"method", rt.method,
			"path", rt.pattern,
			"permission", rt.permission,
		)
	}
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := applog.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		r = r.WithContext(ctx)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			applog.Info(ctx, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				applog.Error(r.Context(), "panic serving request", "panic", rec, "stack", string(debug.Stack()))
				handlers.RespondError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
