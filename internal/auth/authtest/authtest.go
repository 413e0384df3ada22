// Package authtest mints real RS256 access tokens for tests.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"coffeeshop/internal/auth"
)

const (
	DefaultKeyID    = "test-key"
	DefaultIssuer   = "https://coffeeshop.test/"
	DefaultAudience = "drinks"
)

var (
	keyOnce   sync.Once
	sharedKey *rsa.PrivateKey
	keyErr    error
)

// Key returns a process-wide RSA key, generated on first use.
func Key(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		sharedKey, keyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if keyErr != nil {
		t.Fatalf("generate rsa key: %v", keyErr)
	}
	return sharedKey
}

// Issuer signs tokens the way the production identity provider does.
type Issuer struct {
	Key      *rsa.PrivateKey
	KeyID    string
	Issuer   string
	Audience string
}

// NewIssuer returns an Issuer using the shared key and default names.
func NewIssuer(t testing.TB) *Issuer {
	t.Helper()
	return &Issuer{
		Key:      Key(t),
		KeyID:    DefaultKeyID,
		Issuer:   DefaultIssuer,
		Audience: DefaultAudience,
	}
}

// KeySet exposes the issuer's public key under its key id.
func (i *Issuer) KeySet() auth.StaticKeySet {
	return auth.StaticKeySet{i.KeyID: &i.Key.PublicKey}
}

// Verifier builds a verifier trusting this issuer.
func (i *Issuer) Verifier(t testing.TB) *auth.Verifier {
	t.Helper()
	v, err := auth.NewVerifier(auth.Config{
		Issuer:   i.Issuer,
		Audience: i.Audience,
		Keys:     i.KeySet(),
	})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return v
}

// Claims returns a valid, unexpired claim set granting permissions.
func (i *Issuer) Claims(permissions ...string) jwt.MapClaims {
	now := time.Now()
	if permissions == nil {
		permissions = []string{}
	}
	return jwt.MapClaims{
		"iss":         i.Issuer,
		"aud":         i.Audience,
		"sub":         "auth0|barista",
		"iat":         now.Add(-time.Minute).Unix(),
		"exp":         now.Add(time.Hour).Unix(),
		"permissions": permissions,
	}
}

// Token returns a signed bearer token granting permissions.
func (i *Issuer) Token(t testing.TB, permissions ...string) string {
	t.Helper()
	return i.Sign(t, i.Claims(permissions...))
}

// Header returns "Bearer <token>" granting permissions.
func (i *Issuer) Header(t testing.TB, permissions ...string) string {
	t.Helper()
	return "Bearer " + i.Token(t, permissions...)
}

// Sign signs claims with RS256 under the issuer's key id.
func (i *Issuer) Sign(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	return SignWith(t, jwt.SigningMethodRS256, i.Key, i.KeyID, claims)
}

// SignWith signs claims with an arbitrary method, key and key id. An empty
// kid leaves the header without one.
func SignWith(t testing.TB, method jwt.SigningMethod, key interface{}, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// JWKS renders the issuer's public key as a JSON Web Key Set document.
func (i *Issuer) JWKS(t testing.TB) []byte {
	t.Helper()
	doc := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"use": "sig",
			"alg": "RS256",
			"kid": i.KeyID,
			"n":   base64.RawURLEncoding.EncodeToString(i.Key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(i.Key.PublicKey.E)).Bytes()),
		}},
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}
	return encoded
}
