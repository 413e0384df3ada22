package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v4"
)

// Permissions granted to drink managers by the token issuer.
const (
	PermGetDrinksDetail = "get:drinks-detail"
	PermPostDrinks      = "post:drinks"
	PermPatchDrinks     = "patch:drinks"
	PermDeleteDrinks    = "delete:drinks"
)

// Claims is the verified payload of an access token. A nil Permissions means
// the claim was absent, which is distinct from an empty grant.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether permission was granted.
func (c *Claims) HasPermission(permission string) bool {
	return c != nil && slices.Contains(c.Permissions, permission)
}
