package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fsnd-labs/fsnd-api/internal/database"
)

var errNoEligibleQuestions = errors.New("no eligible questions remain")

// handlePlayQuiz returns one random question from the chosen category (or
// from all categories when its id is 0) that is not among the previous ones.
func (cfg *APIConfig) handlePlayQuiz(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}
	for _, key := range []string{"previous_questions", "quiz_category"} {
		if _, ok := fields[key]; !ok {
			respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("field '%s' not provided", key))
			return
		}
	}

	type quizCategory struct {
		ID   *flexInt `json:"id"`
		Type string   `json:"type"`
	}

	category, err := unmarshalField[quizCategory](fields, "quiz_category")
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}
	if category.ID == nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", errors.New("field 'quiz_category.id' not provided"))
		return
	}
	categoryID := int32(*category.ID)
	previous, err := unmarshalField[[]flexInt](fields, "previous_questions")
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	var dbQuestions []database.Question
	if categoryID == 0 {
		dbQuestions, err = cfg.db.GetQuestions(r.Context())
	} else {
		dbQuestions, err = cfg.db.GetQuestionsByCategory(r.Context(), categoryID)
	}
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not retrieve quiz questions: %w", err))
		return
	}

	asked := make(map[int32]struct{}, len(previous))
	for _, id := range previous {
		asked[int32(id)] = struct{}{}
	}
	eligible := make([]database.Question, 0, len(dbQuestions))
	for _, q := range dbQuestions {
		if _, ok := asked[q.ID]; !ok {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		respondWithError(w, http.StatusUnprocessableEntity, errNoEligibleQuestions.Error(), nil)
		return
	}

	type rspSchema struct {
		Question Question `json:"question"`
	}

	respondWithJSON(w, http.StatusOK, rspSchema{
		Question: questionFromDB(eligible[cfg.pick(len(eligible))]),
	})
}
