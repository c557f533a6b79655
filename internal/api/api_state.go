package api

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var errNoDatabase = errors.New("database not connected")

// handleReadiness reports OK once the store answers a ping.
func (cfg *APIConfig) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if cfg.sqlDB == nil {
		respondWithError(w, http.StatusServiceUnavailable, "", errNoDatabase)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := cfg.sqlDB.PingContext(ctx); err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "", err)
		return
	}

	respondWithText(w, http.StatusOK, "OK")
}
