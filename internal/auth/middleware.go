package auth

import (
	"context"
	"errors"
	"net/http"

	applog "coffeeshop/internal/log"
)

type contextKey struct{}

// Authorizer decides whether a request carries a given permission.
type Authorizer interface {
	Authorize(r *http.Request, permission string) (*Claims, error)
}

// DenyFunc writes the response for a rejected request.
type DenyFunc func(w http.ResponseWriter, r *http.Request, err error)

// RequirePermission guards next with permission. An empty permission marks a
// public route and skips verification entirely.
func RequirePermission(a Authorizer, permission string, deny DenyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if permission == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.Authorize(r, permission)
			if err != nil {
				var authErr *Error
				if errors.As(err, &authErr) {
					applog.Debug(r.Context(), "request denied",
						"permission", permission,
						"reason", authErr.Kind.Code(),
						"error", authErr.Err,
					)
				}
				deny(w, r, err)
				return
			}
			if claims == nil {
				claims = &Claims{}
			}
			applog.Debug(r.Context(), "request authorized", "permission", permission, "subject", claims.Subject)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims stores verified claims on the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext returns the claims stored by RequirePermission.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok && claims != nil
}
