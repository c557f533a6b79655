// Package auth provides bearer token extraction, JWT verification against an
// identity provider's published key set, and permission checks.
package auth

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// AuthError is returned for every authorization failure. Code and
// Description are machine-readable; StatusCode is the HTTP status to respond with.
type AuthError struct {
	Code        string
	Description string
	StatusCode  int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func newAuthError(code, description string) *AuthError {
	return &AuthError{
		Code:        code,
		Description: description,
		StatusCode:  http.StatusUnauthorized,
	}
}

// Claims is the claim set carried by access tokens from the identity provider.
type Claims struct {
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// GetBearerToken extracts the token string from an Authorization header
// of the form "Bearer <token>".
func GetBearerToken(headers http.Header) (string, error) {
	authSlice, ok := headers["Authorization"]
	if !ok || len(authSlice) == 0 || authSlice[0] == "" {
		return "", newAuthError("authorization_header_missing", "Authorization header is expected.")
	}
	authHeaderVal := authSlice[0]
	if !strings.HasPrefix(strings.ToLower(authHeaderVal), "bearer ") {
		if strings.EqualFold(strings.TrimSpace(authHeaderVal), "bearer") {
			return "", newAuthError("invalid_header", "Token not found.")
		}
		return "", newAuthError("invalid_header", `Authorization header must start with "Bearer".`)
	}
	tokenElements := strings.Fields(authHeaderVal)
	switch {
	case len(tokenElements) == 1:
		return "", newAuthError("invalid_header", "Token not found.")
	case len(tokenElements) > 2:
		return "", newAuthError("invalid_header", "Authorization header must be bearer token.")
	}
	return tokenElements[1], nil
}

// CheckPermission reports an error unless permission is granted by claims.
func CheckPermission(permission string, claims *Claims) error {
	if claims == nil || claims.Permissions == nil {
		return newAuthError("invalid_claims", "Permissions not included in JWT.")
	}
	if !slices.Contains(claims.Permissions, permission) {
		return newAuthError("unauthorized", "Permission not found.")
	}
	return nil
}
