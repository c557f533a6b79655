package api

import (
	"fmt"
	"net/http"
)

// handleResetQuestions drops every question. Only served when PLATFORM=dev.
func (cfg *APIConfig) handleResetQuestions(w http.ResponseWriter, r *http.Request) {
	if cfg.platform != "dev" {
		respondWithText(w, http.StatusForbidden, "403 Forbidden")
		return
	}

	count, err := cfg.db.DeleteQuestions(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not delete questions: %w", err))
		return
	}

	type rspSchema struct {
		Success bool  `json:"success"`
		Deleted int64 `json:"deleted"`
	}

	respondWithJSON(w, http.StatusOK, rspSchema{
		Success: true,
		Deleted: count,
	})
}
