package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"coffeeshop/internal/config"
)

// Config describes the token issuer a Verifier trusts.
type Config struct {
	Issuer     string
	Audience   string
	Algorithms []string
	Keys       KeySet
}

// Verifier checks bearer tokens issued by a single issuer for a single audience.
type Verifier struct {
	issuer   string
	audience string
	keys     KeySet
	parser   *jwt.Parser
}

// NewVerifier validates cfg and builds a Verifier. Algorithms defaults to RS256.
func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, errors.New("auth: issuer must not be empty")
	}
	if strings.TrimSpace(cfg.Audience) == "" {
		return nil, errors.New("auth: audience must not be empty")
	}
	if cfg.Keys == nil {
		return nil, errors.New("auth: key set must not be nil")
	}

	algorithms := cfg.Algorithms
	if len(algorithms) == 0 {
		algorithms = []string{jwt.SigningMethodRS256.Alg()}
	}
	for _, alg := range algorithms {
		if jwt.GetSigningMethod(alg) == nil || strings.HasPrefix(alg, "HS") || alg == "none" {
			return nil, fmt.Errorf("auth: unsupported signing algorithm %q", alg)
		}
	}

	return &Verifier{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		keys:     cfg.Keys,
		parser:   jwt.NewParser(jwt.WithValidMethods(algorithms)),
	}, nil
}

// FromConfig builds a Verifier backed by the issuer's published JWKS document.
// The issuer defaults to https://<domain>/ and the key set URL to
// <issuer>.well-known/jwks.json.
func FromConfig(cfg config.AuthConfig) (*Verifier, error) {
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		domain := strings.TrimSuffix(strings.TrimSpace(cfg.Domain), "/")
		if domain == "" {
			return nil, errors.New("auth: AUTH0_DOMAIN or AUTH0_ISSUER must be set")
		}
		if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
			domain = "https://" + domain
		}
		issuer = domain + "/"
	}

	jwksURL := strings.TrimSpace(cfg.JWKSURL)
	if jwksURL == "" {
		jwksURL = strings.TrimSuffix(issuer, "/") + "/.well-known/jwks.json"
	}

	return NewVerifier(Config{
		Issuer:     issuer,
		Audience:   cfg.Audience,
		Algorithms: cfg.Algorithms,
		Keys:       NewRemoteKeySet(jwksURL, cfg.JWKSTimeout),
	})
}

// BearerToken extracts the token from an Authorization header value of the
// exact form "Bearer <token>".
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", newError(MissingToken, errors.New("authorization header is expected"))
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", newError(MissingToken, errors.New("authorization header must be bearer token"))
	}
	return parts[1], nil
}

// Authorize verifies the request's bearer token and checks that it grants
// permission.
func (v *Verifier) Authorize(r *http.Request, permission string) (*Claims, error) {
	raw, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}

	claims, err := v.Verify(r.Context(), raw)
	if err != nil {
		return nil, err
	}

	if err := CheckPermission(claims, permission); err != nil {
		return nil, err
	}
	return claims, nil
}

// Verify checks the token's signature and standard claims and returns its payload.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	unverified, _, err := v.parser.ParseUnverified(raw, &Claims{})
	if err != nil {
		return nil, newError(MalformedToken, err)
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, newError(MalformedToken, errors.New("token header has no kid"))
	}

	key, err := v.keys.Key(ctx, unverified)
	if err != nil {
		return nil, newError(UnknownKey, fmt.Errorf("kid %q: %w", kid, err))
	}

	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}); err != nil {
		return nil, classify(err)
	}

	if !claims.VerifyIssuer(v.issuer, true) {
		return nil, newError(InvalidClaims, fmt.Errorf("unexpected issuer %q", claims.Issuer))
	}
	if !claims.VerifyAudience(v.audience, true) {
		return nil, newError(InvalidClaims, fmt.Errorf("audience %v does not include %q", []string(claims.Audience), v.audience))
	}
	return claims, nil
}

// CheckPermission reports whether claims carries permission.
func CheckPermission(claims *Claims, permission string) error {
	if claims == nil || claims.Permissions == nil {
		return newError(NoPermissionsClaim, nil)
	}
	if !claims.HasPermission(permission) {
		return newError(InsufficientPermission, fmt.Errorf("missing %q", permission))
	}
	return nil
}

// classify maps jwt validation failures to a Kind. A bad signature wins over
// every other failure because nothing else in an unauthenticated token can
// be trusted.
func classify(err error) *Error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return newError(InvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return newError(MalformedToken, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(Expired, err)
	}
	return newError(InvalidClaims, err)
}
