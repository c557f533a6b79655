package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fsnd-labs/fsnd-api/internal/database"
)

func (cfg *APIConfig) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	dbCategories, err := cfg.db.GetCategories(r.Context())
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not retrieve categories: %w", err))
		return
	}

	dbQuestions, err := cfg.db.GetQuestions(r.Context())
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not retrieve questions: %w", err))
		return
	}

	pageQuestions := paginate(dbQuestions, page)
	if len(pageQuestions) == 0 {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("page %d is empty", page))
		return
	}

	type rspSchema struct {
		Questions       []Question       `json:"questions"`
		TotalQuestions  int              `json:"total_questions"`
		CurrentCategory *int32           `json:"current_category"`
		Categories      map[int32]string `json:"categories"`
	}

	rspPayload := rspSchema{
		Questions:      questionsFromDB(pageQuestions),
		TotalQuestions: len(dbQuestions),
		Categories:     categoryMap(dbCategories),
	}

	respondWithJSON(w, http.StatusOK, rspPayload)
}

func (cfg *APIConfig) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	pathQuestionID, err := parseIDFromPath("question_id", r)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	_, err = cfg.db.GetQuestionByID(r.Context(), pathQuestionID)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not get question %d: %w", pathQuestionID, err))
		return
	}

	deleted, err := cfg.db.DeleteQuestionByID(r.Context(), pathQuestionID)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not delete question %d: %w", pathQuestionID, err))
		return
	}
	if deleted == 0 {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("question %d already deleted", pathQuestionID))
		return
	}

	type rspSchema struct {
		Success bool  `json:"success"`
		Deleted int32 `json:"deleted"`
	}

	respondWithJSON(w, http.StatusOK, rspSchema{
		Success: true,
		Deleted: pathQuestionID,
	})
}

// handleCreateOrSearchQuestions serves both question search (payload with a
// searchTerm) and question creation (payload with every question field).
func (cfg *APIConfig) handleCreateOrSearchQuestions(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	if _, ok := fields["searchTerm"]; ok {
		cfg.searchQuestions(w, r, fields)
		return
	}

	for _, key := range []string{"question", "answer", "difficulty", "category"} {
		if _, ok := fields[key]; !ok {
			respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("field '%s' not provided", key))
			return
		}
	}
	cfg.createQuestion(w, r, fields)
}

func (cfg *APIConfig) searchQuestions(w http.ResponseWriter, r *http.Request, fields map[string]json.RawMessage) {
	searchTerm, err := unmarshalField[string](fields, "searchTerm")
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	allQuestions, err := cfg.db.GetQuestions(r.Context())
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not search questions: %w", err))
		return
	}
	// folded here so both drivers match non-ASCII text the same way
	needle := strings.ToLower(searchTerm)
	dbQuestions := make([]database.Question, 0, len(allQuestions))
	for _, q := range allQuestions {
		if strings.Contains(strings.ToLower(q.Question), needle) {
			dbQuestions = append(dbQuestions, q)
		}
	}

	type rspSchema struct {
		Questions       []Question `json:"questions"`
		TotalQuestions  int        `json:"totalQuestions"`
		CurrentCategory *int32     `json:"currentCategory"`
	}

	respondWithJSON(w, http.StatusOK, rspSchema{
		Questions:      questionsFromDB(dbQuestions),
		TotalQuestions: len(dbQuestions),
	})
}

func (cfg *APIConfig) createQuestion(w http.ResponseWriter, r *http.Request, fields map[string]json.RawMessage) {
	question, err := unmarshalField[string](fields, "question")
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}
	answer, err := unmarshalField[string](fields, "answer")
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}
	difficulty, err := unmarshalField[flexInt](fields, "difficulty")
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}
	category, err := unmarshalField[flexInt](fields, "category")
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}
	if _, err := cfg.db.GetCategoryByID(r.Context(), int32(category)); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("unknown category %d: %w", category, err))
		return
	}

	dbQuestion, err := cfg.db.CreateQuestion(r.Context(), database.CreateQuestionParams{
		Question:   question,
		Answer:     answer,
		Difficulty: int32(difficulty),
		Category:   int32(category),
	})
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not create question: %w", err))
		return
	}

	type rspSchema struct {
		Success    bool  `json:"success"`
		QuestionID int32 `json:"question_id"`
	}

	respondWithJSON(w, http.StatusOK, rspSchema{
		Success:    true,
		QuestionID: dbQuestion.ID,
	})
}
