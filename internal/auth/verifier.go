package auth

import (
	"context"
	"errors"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// KeyProvider resolves the public key that signed a token.
type KeyProvider interface {
	Keyfunc(ctx context.Context) jwt.Keyfunc
}

// Verifier validates RS256 access tokens issued by the identity provider.
type Verifier struct {
	keys     KeyProvider
	audience string
	issuer   string
}

// NewVerifier returns a Verifier. An empty audience or issuer disables that check.
func NewVerifier(keys KeyProvider, audience, issuer string) *Verifier {
	return &Verifier{
		keys:     keys,
		audience: audience,
		issuer:   issuer,
	}
}

// Verify parses tokenString, checks its signature, expiry, audience and issuer,
// and returns the claim set. All failures are *AuthError.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if kid, _ := token.Header["kid"].(string); kid == "" {
			return nil, errMalformed
		}
		return v.keys.Keyfunc(ctx)(token)
	}, opts...)
	if err != nil {
		return nil, classifyJWTError(err)
	}
	return claims, nil
}

var errMalformed = errors.New("token header has no kid")

func classifyJWTError(err error) *AuthError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return newAuthError("token_expired", "Token expired.")
	case errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return newAuthError("invalid_claims", "Incorrect claims. Please, check the audience and issuer.")
	case errors.Is(err, errMalformed):
		return newAuthError("invalid_header", "Authorization malformed.")
	case errors.Is(err, ErrKeyNotFound), errors.Is(err, keyfunc.ErrKeyfunc):
		return newAuthError("invalid_header", "Unable to find the appropriate key.")
	default:
		return newAuthError("invalid_header", "Unable to parse authentication token.")
	}
}
