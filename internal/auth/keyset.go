package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"

	applog "coffeeshop/internal/log"
)

// ErrKeyNotFound is returned by a KeySet that has no key for the requested id.
var ErrKeyNotFound = errors.New("signing key not found")

// KeySet resolves the public key a token claims to be signed with.
type KeySet interface {
	Key(ctx context.Context, token *jwt.Token) (crypto.PublicKey, error)
}

// StaticKeySet is a fixed set of keys indexed by key id.
type StaticKeySet map[string]crypto.PublicKey

func (s StaticKeySet) Key(_ context.Context, token *jwt.Token) (crypto.PublicKey, error) {
	kid, _ := token.Header["kid"].(string)
	if key, ok := s[kid]; ok {
		return key, nil
	}
	return nil, ErrKeyNotFound
}

// RemoteKeySet fetches a JWKS document once and serves every later lookup
// from memory for the life of the process. A failed fetch is not cached.
type RemoteKeySet struct {
	url     string
	timeout time.Duration
	client  *http.Client

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

// NewRemoteKeySet builds a key set backed by the JWKS document at url.
func NewRemoteKeySet(url string, timeout time.Duration) *RemoteKeySet {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteKeySet{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *RemoteKeySet) Key(ctx context.Context, token *jwt.Token) (crypto.PublicKey, error) {
	jwks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	key, err := jwks.Keyfunc(token)
	if err != nil {
		if errors.Is(err, keyfunc.ErrKIDNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrKeyNotFound, err)
	}

	switch key.(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey, ed25519.PublicKey:
		return key, nil
	}
	// Symmetric keys never verify tokens from a third-party issuer.
	return nil, ErrKeyNotFound
}

func (s *RemoteKeySet) load(ctx context.Context) (*keyfunc.JWKS, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jwks != nil {
		return s.jwks, nil
	}

	applog.Debug(ctx, "fetching signing keys", "url", s.url)
	jwks, err := keyfunc.Get(s.url, keyfunc.Options{
		Client:          s.client,
		RefreshTimeout:  s.timeout,
		JWKUseWhitelist: []keyfunc.JWKUse{keyfunc.UseSignature, keyfunc.UseOmitted},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	applog.Info(ctx, "signing keys loaded", "url", s.url, "count", len(jwks.KIDs()))
	s.jwks = jwks
	return jwks, nil
}
