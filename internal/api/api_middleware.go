package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fsnd-labs/fsnd-api/internal/auth"
)

// ================= MIDDLEWARE ================= //

type ctxKey string

// middlewareRequirePermission verifies the caller's bearer token and
// requires permission in its claim set before passing the request on.
func (cfg *APIConfig) middlewareRequirePermission(permission string, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.verifier == nil {
			respondWithError(w, http.StatusUnauthorized, "", errNoVerifier)
			return
		}
		tokenString, err := auth.GetBearerToken(r.Header)
		if err != nil {
			respondWithAuthError(w, err)
			return
		}
		claims, err := cfg.verifier.Verify(r.Context(), tokenString)
		if err != nil {
			respondWithAuthError(w, err)
			return
		}
		if err := auth.CheckPermission(permission, claims); err != nil {
			respondWithAuthError(w, err)
			return
		}
		ctxClaims := ctxKey("claims")
		ctx := context.WithValue(r.Context(), ctxClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// middlewareLog tags each request with an id and logs its outcome.
func (cfg *APIConfig) middlewareLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), ctxKey("request_id"), requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		slog.Info("request",
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// middlewareRateLimit applies a token bucket per client address.
// It is a no-op when no limit is configured.
func (cfg *APIConfig) middlewareRateLimit(next http.Handler) http.Handler {
	if cfg.rateLimit <= 0 {
		return next
	}
	limiters := newClientLimiters(cfg.rateLimit, cfg.rateBurst, maxTrackedClients)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiters.get(clientAddr(r)).Allow() {
			respondWithError(w, http.StatusTooManyRequests, "", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const maxTrackedClients = 10000

type clientLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	capacity int
	limiters map[string]*rate.Limiter
}

func newClientLimiters(limit rate.Limit, burst, capacity int) *clientLimiters {
	return &clientLimiters{
		limit:    limit,
		burst:    burst,
		capacity: capacity,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (c *clientLimiters) get(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[key]
	if !ok {
		if len(c.limiters) >= c.capacity {
			c.evict()
		}
		l = rate.NewLimiter(c.limit, c.burst)
		c.limiters[key] = l
	}
	return l
}

// evict drops the clients whose bucket has refilled, since a fresh limiter
// behaves the same. If every bucket is still draining, one is dropped.
func (c *clientLimiters) evict() {
	now := time.Now()
	for key, l := range c.limiters {
		if l.TokensAt(now) >= float64(c.burst) {
			delete(c.limiters, key)
		}
	}
	if len(c.limiters) < c.capacity {
		return
	}
	for key := range c.limiters {
		delete(c.limiters, key)
		return
	}
}

// clientAddr is the peer address. X-Forwarded-For and X-Real-IP only count
// when TRUSTED_PROXY is set, since RealIP is mounted only then.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ============== HELPERS =================

func getContextClaims(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(ctxKey("claims")).(*auth.Claims)
	if !ok {
		slog.Warn("failed to retrieve key from context", slog.String("key", "claims"))
		return nil
	}
	return claims
}
