package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

func (cfg *APIConfig) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	dbCategories, err := cfg.db.GetCategories(r.Context())
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not retrieve categories: %w", err))
		return
	}

	type rspSchema struct {
		Categories map[int32]string `json:"categories"`
	}

	rspPayload := rspSchema{
		Categories: categoryMap(dbCategories),
	}

	respondWithJSON(w, http.StatusOK, rspPayload)
}

func (cfg *APIConfig) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	type rqSchema struct {
		CatType string `json:"cat_type"`
	}

	rqPayload, err := decodePayload[rqSchema](r)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	if strings.TrimSpace(rqPayload.CatType) == "" {
		respondWithError(w, http.StatusUnprocessableEntity, "", errors.New("cat_type not provided"))
		return
	}

	_, err = cfg.db.CreateCategory(r.Context(), rqPayload.CatType)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not create category: %w", err))
		return
	}

	type rspSchema struct {
		Success bool `json:"success"`
	}

	respondWithJSON(w, http.StatusOK, rspSchema{Success: true})
}

func (cfg *APIConfig) handleGetCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	pathCategoryID, err := parseIDFromPath("category_id", r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", err)
		return
	}

	dbQuestions, err := cfg.db.GetQuestionsByCategory(r.Context(), pathCategoryID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not retrieve questions: %w", err))
		return
	}
	if len(dbQuestions) == 0 {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("no questions in category %d", pathCategoryID))
		return
	}

	type rspSchema struct {
		Questions       []Question `json:"questions"`
		TotalQuestions  int        `json:"total_questions"`
		CurrentCategory int32      `json:"current_category"`
	}

	rspPayload := rspSchema{
		Questions:       questionsFromDB(dbQuestions),
		TotalQuestions:  len(dbQuestions),
		CurrentCategory: pathCategoryID,
	}

	respondWithJSON(w, http.StatusOK, rspPayload)
}
