package auth

import (
	"fmt"
	"net/http"
)

// Kind classifies why a request was denied.
type Kind int

const (
	MissingToken Kind = iota + 1
	MalformedToken
	UnknownKey
	InvalidSignature
	Expired
	InvalidClaims
	NoPermissionsClaim
	InsufficientPermission
)

var kindDetails = map[Kind]struct {
	code    string
	status  int
	message string
}{
	MissingToken:           {"authorization_header_missing", http.StatusUnauthorized, "authorization header must be 'Bearer <token>'"},
	MalformedToken:         {"invalid_header", http.StatusUnauthorized, "unable to parse authentication token"},
	UnknownKey:             {"unknown_key", http.StatusUnauthorized, "unable to find the appropriate signing key"},
	InvalidSignature:       {"invalid_signature", http.StatusUnauthorized, "token signature is invalid"},
	Expired:                {"token_expired", http.StatusUnauthorized, "token expired"},
	InvalidClaims:          {"invalid_claims", http.StatusUnauthorized, "incorrect claims, check the audience and issuer"},
	NoPermissionsClaim:     {"permissions_missing", http.StatusForbidden, "permissions not included in token"},
	InsufficientPermission: {"insufficient_permission", http.StatusForbidden, "permission not granted"},
}

// Code is the stable machine-readable name of the kind.
func (k Kind) Code() string {
	if d, ok := kindDetails[k]; ok {
		return d.code
	}
	return "unauthorized"
}

// Status is the HTTP status reported for the kind.
func (k Kind) Status() int {
	if d, ok := kindDetails[k]; ok {
		return d.status
	}
	return http.StatusUnauthorized
}

// Message is the client-facing description of the kind.
func (k Kind) Message() string {
	if d, ok := kindDetails[k]; ok {
		return d.message
	}
	return "unauthorized"
}

func (k Kind) String() string {
	return k.Code()
}

// Error is returned for every authorization failure.
type Error struct {
	Kind Kind
	Err  error
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("auth: %s", e.Kind.Code())
	}
	return fmt.Sprintf("auth: %s: %v", e.Kind.Code(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, &auth.Error{Kind: auth.Expired}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
