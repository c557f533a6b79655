package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fsnd-labs/fsnd-api/internal/identity"
)

var errNoUserLister = errors.New("identity provider management api not configured")

func (cfg *APIConfig) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	if cfg.users == nil {
		respondWithError(w, http.StatusUnauthorized, "", errNoUserLister)
		return
	}

	if claims := getContextClaims(r.Context()); claims != nil {
		slog.Debug("listing users", slog.String("subject", claims.Subject))
	}

	users, err := cfg.users.ListUsers(r.Context())
	switch {
	case errors.Is(err, identity.ErrNoAccessToken), errors.Is(err, identity.ErrNoUsers):
		respondWithError(w, http.StatusUnauthorized, "", err)
		return
	case err != nil:
		respondWithError(w, http.StatusBadGateway, "", fmt.Errorf("could not list users: %w", err))
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}
