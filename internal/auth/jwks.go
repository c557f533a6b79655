package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

var ErrKeyNotFound = jwkset.ErrKeyNotFound

// KeySetConfig describes where the signing keys are published and how often
// they may be refetched.
type KeySetConfig struct {
	URL string
	// RefreshInterval is the period of the background refetch.
	RefreshInterval time.Duration
	// UnknownKIDInterval is the minimum gap between refetches triggered by a
	// token naming a kid that is not cached.
	UnknownKIDInterval time.Duration
	Timeout            time.Duration
}

// KeySet resolves the RSA keys published at a JWKS endpoint. Keys are
// refreshed in the background until the context passed to NewKeySet ends.
type KeySet struct {
	kf keyfunc.Keyfunc
}

func NewKeySet(ctx context.Context, cfg KeySetConfig) (*KeySet, error) {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = time.Hour
	}
	if cfg.UnknownKIDInterval <= 0 {
		cfg.UnknownKIDInterval = 5 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	kf, err := keyfunc.NewDefaultOverrideCtx(ctx, []string{cfg.URL}, keyfunc.Override{
		HTTPTimeout:       cfg.Timeout,
		RefreshInterval:   cfg.RefreshInterval,
		RefreshUnknownKID: rate.NewLimiter(rate.Every(cfg.UnknownKIDInterval), 1),
		// callers over the limit fail at once instead of queueing
		RateLimitWaitMax: time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("loading jwks from %s: %w", cfg.URL, err)
	}
	return &KeySet{kf: kf}, nil
}

// Keyfunc returns the jwt.Keyfunc resolving keys for requests bound to ctx.
func (ks *KeySet) Keyfunc(ctx context.Context) jwt.Keyfunc {
	return ks.kf.KeyfuncCtx(ctx)
}
