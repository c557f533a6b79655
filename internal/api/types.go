package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fsnd-labs/fsnd-api/internal/database"
)

type Question struct {
	ID         int32  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int32  `json:"category"`
	Difficulty int32  `json:"difficulty"`
}

func questionFromDB(q database.Question) Question {
	return Question{
		ID:         q.ID,
		Question:   q.Question,
		Answer:     q.Answer,
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}
}

func questionsFromDB(dbQuestions []database.Question) []Question {
	questions := make([]Question, 0, len(dbQuestions))
	for _, q := range dbQuestions {
		questions = append(questions, questionFromDB(q))
	}
	return questions
}

// categoryMap maps category id to its type label.
func categoryMap(categories []database.Category) map[int32]string {
	m := make(map[int32]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}

type Ingredient struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// DrinkShort is the public projection: no ingredient names.
type DrinkShort struct {
	ID     int32             `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

// DrinkLong is the full projection for callers granted drink details.
type DrinkLong struct {
	ID     int32        `json:"id"`
	Title  string       `json:"title"`
	Recipe []Ingredient `json:"recipe"`
}

var errInvalidRecipe = errors.New("invalid recipe")

// parseRecipe accepts a single ingredient object or a list of them and
// validates every ingredient.
func parseRecipe(raw json.RawMessage) ([]Ingredient, error) {
	trimmed := strings.TrimSpace(string(raw))
	var recipe []Ingredient
	switch {
	case strings.HasPrefix(trimmed, "["):
		if err := json.Unmarshal(raw, &recipe); err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidRecipe, err)
		}
	case strings.HasPrefix(trimmed, "{"):
		var single Ingredient
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidRecipe, err)
		}
		recipe = []Ingredient{single}
	default:
		return nil, fmt.Errorf("%w: must be an ingredient or a list of ingredients", errInvalidRecipe)
	}

	if len(recipe) == 0 {
		return nil, fmt.Errorf("%w: no ingredients", errInvalidRecipe)
	}
	for i, ing := range recipe {
		if strings.TrimSpace(ing.Name) == "" || strings.TrimSpace(ing.Color) == "" || ing.Parts < 1 {
			return nil, fmt.Errorf("%w: ingredient %d needs a name, a color and at least one part", errInvalidRecipe, i)
		}
	}
	return recipe, nil
}

func longDrink(d database.Drink) (DrinkLong, error) {
	var recipe []Ingredient
	if err := json.Unmarshal([]byte(d.Recipe), &recipe); err != nil {
		return DrinkLong{}, fmt.Errorf("decoding stored recipe of drink %d: %w", d.ID, err)
	}
	return DrinkLong{ID: d.ID, Title: d.Title, Recipe: recipe}, nil
}

func shortDrink(d database.Drink) (DrinkShort, error) {
	long, err := longDrink(d)
	if err != nil {
		return DrinkShort{}, err
	}
	recipe := make([]ShortIngredient, 0, len(long.Recipe))
	for _, ing := range long.Recipe {
		recipe = append(recipe, ShortIngredient{Color: ing.Color, Parts: ing.Parts})
	}
	return DrinkShort{ID: d.ID, Title: d.Title, Recipe: recipe}, nil
}
