package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fsnd-labs/fsnd-api/internal/database"
)

var errInvalidTitle = errors.New("drink title must be a non-empty string")

type drinksResponse[T any] struct {
	Success bool `json:"success"`
	Drinks  []T  `json:"drinks"`
}

func (cfg *APIConfig) handleGetDrinks(w http.ResponseWriter, r *http.Request) {
	dbDrinks, err := cfg.db.GetDrinks(r.Context())
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not retrieve drinks: %w", err))
		return
	}

	drinks := make([]DrinkShort, 0, len(dbDrinks))
	for _, d := range dbDrinks {
		drink, err := shortDrink(d)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "", err)
			return
		}
		drinks = append(drinks, drink)
	}

	respondWithJSON(w, http.StatusOK, drinksResponse[DrinkShort]{
		Success: true,
		Drinks:  drinks,
	})
}

func (cfg *APIConfig) handleGetDrinksDetail(w http.ResponseWriter, r *http.Request) {
	dbDrinks, err := cfg.db.GetDrinks(r.Context())
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not retrieve drinks: %w", err))
		return
	}

	drinks := make([]DrinkLong, 0, len(dbDrinks))
	for _, d := range dbDrinks {
		drink, err := longDrink(d)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "", err)
			return
		}
		drinks = append(drinks, drink)
	}

	respondWithJSON(w, http.StatusOK, drinksResponse[DrinkLong]{
		Success: true,
		Drinks:  drinks,
	})
}

func (cfg *APIConfig) handleCreateDrink(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	title, err := parseTitle(fields["title"])
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}
	recipe, err := parseRecipe(fields["recipe"])
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}
	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	dbDrink, err := cfg.db.CreateDrink(r.Context(), database.CreateDrinkParams{
		Title:  title,
		Recipe: string(recipeJSON),
	})
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not create drink: %w", err))
		return
	}

	cfg.respondWithDrink(w, dbDrink)
}

func (cfg *APIConfig) handleUpdateDrink(w http.ResponseWriter, r *http.Request) {
	pathDrinkID, err := parseIDFromPath("drink_id", r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", err)
		return
	}

	dbDrink, err := cfg.db.GetDrinkByID(r.Context(), pathDrinkID)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not get drink %d: %w", pathDrinkID, err))
		return
	}

	// an empty object leaves the drink unchanged
	fields, err := decodePayload[map[string]json.RawMessage](r)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", err)
		return
	}

	params := database.UpdateDrinkParams{
		ID:     dbDrink.ID,
		Title:  dbDrink.Title,
		Recipe: dbDrink.Recipe,
	}
	if raw, ok := fields["title"]; ok {
		params.Title, err = parseTitle(raw)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "", err)
			return
		}
	}
	if raw, ok := fields["recipe"]; ok {
		recipe, err := parseRecipe(raw)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "", err)
			return
		}
		recipeJSON, err := json.Marshal(recipe)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "", err)
			return
		}
		params.Recipe = string(recipeJSON)
	}

	updated, err := cfg.db.UpdateDrink(r.Context(), params)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not update drink %d: %w", pathDrinkID, err))
		return
	}

	cfg.respondWithDrink(w, updated)
}

func (cfg *APIConfig) handleDeleteDrink(w http.ResponseWriter, r *http.Request) {
	pathDrinkID, err := parseIDFromPath("drink_id", r)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "", err)
		return
	}

	if _, err := cfg.db.GetDrinkByID(r.Context(), pathDrinkID); err != nil {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("could not get drink %d: %w", pathDrinkID, err))
		return
	}

	deleted, err := cfg.db.DeleteDrinkByID(r.Context(), pathDrinkID)
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, "", fmt.Errorf("could not delete drink %d: %w", pathDrinkID, err))
		return
	}
	if deleted == 0 {
		respondWithError(w, http.StatusNotFound, "", fmt.Errorf("drink %d already deleted", pathDrinkID))
		return
	}

	type rspSchema struct {
		Success bool  `json:"success"`
		Delete  int32 `json:"delete"`
	}

	respondWithJSON(w, http.StatusOK, rspSchema{
		Success: true,
		Delete:  pathDrinkID,
	})
}

func (cfg *APIConfig) respondWithDrink(w http.ResponseWriter, d database.Drink) {
	drink, err := longDrink(d)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "", err)
		return
	}
	respondWithJSON(w, http.StatusOK, drinksResponse[DrinkLong]{
		Success: true,
		Drinks:  []DrinkLong{drink},
	})
}

func parseTitle(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errInvalidTitle
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidTitle, err)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errInvalidTitle
	}
	return title, nil
}
