package fsndtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TestKeyID    = "fsnd-test-key"
	TestAudience = "coffee"
)

// TokenIssuer plays the identity provider in tests: it signs RS256 access
// tokens and serves the matching key set.
type TokenIssuer struct {
	Server   *httptest.Server
	Audience string
	key      *rsa.PrivateKey
	fetches  atomic.Int64
}

func NewTokenIssuer(t testing.TB) *TokenIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating rsa key: %v", err)
	}

	ti := &TokenIssuer{
		Audience: TestAudience,
		key:      key,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/jwks.json", func(w http.ResponseWriter, r *http.Request) {
		ti.fetches.Add(1)
		pub := key.PublicKey
		set := map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"use": "sig",
				"alg": "RS256",
				"kid": TestKeyID,
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	})
	ti.Server = httptest.NewServer(mux)
	t.Cleanup(ti.Server.Close)

	return ti
}

func (ti *TokenIssuer) JWKSURL() string {
	return ti.Server.URL + "/.well-known/jwks.json"
}

// Fetches counts the requests served for the key set.
func (ti *TokenIssuer) Fetches() int64 {
	return ti.fetches.Load()
}

func (ti *TokenIssuer) Issuer() string {
	return ti.Server.URL + "/"
}

// Token signs a valid token granting permissions.
func (ti *TokenIssuer) Token(t testing.TB, permissions ...string) string {
	t.Helper()
	if permissions == nil {
		permissions = []string{}
	}
	return ti.Sign(t, TestKeyID, jwt.MapClaims{
		"iss":         ti.Issuer(),
		"sub":         "auth0|barista",
		"aud":         ti.Audience,
		"iat":         time.Now().Unix(),
		"exp":         time.Now().Add(time.Hour).Unix(),
		"permissions": permissions,
	})
}

// Sign signs arbitrary claims with the issuer's key under kid.
func (ti *TokenIssuer) Sign(t testing.TB, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(ti.key)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}
