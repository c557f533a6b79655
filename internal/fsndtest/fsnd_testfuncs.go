// Package fsndtest holds request builders and fixtures shared by the
// trivia and coffee shop test suites.
package fsndtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
)

// ========== MIDDLEWARE ==========

func headerJSON(req *http.Request) *http.Request {
	req.Header.Set("Content-Type", "application/json")
	return req
}

func requireToken(req *http.Request, token string) *http.Request {
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %v", token))
	}
	return req
}

// MakeRequest builds a JSON request. A nil body sends no payload; a string
// body is sent verbatim; anything else is marshalled.
func MakeRequest(method, path, token string, body any) *http.Request {
	var buffer io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		buffer = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		buffer = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, buffer)
	return headerJSON(requireToken(req, token))
}

// TRIVIA -> CATEGORIES

func GetCategories() *http.Request {
	return MakeRequest(http.MethodGet, "/categories", "", nil)
}

func CreateCategory(catType string) *http.Request {
	return MakeRequest(http.MethodPost, "/category", "", map[string]any{
		"cat_type": catType,
	})
}

func GetCategoryQuestions(categoryID any) *http.Request {
	return MakeRequest(http.MethodGet, fmt.Sprintf("/categories/%v/questions", categoryID), "", nil)
}

// TRIVIA -> QUESTIONS

func GetQuestions(page string) *http.Request {
	path := "/questions"
	if page != "" {
		path += "?page=" + page
	}
	return MakeRequest(http.MethodGet, path, "", nil)
}

func CreateQuestion(question, answer string, difficulty, category any) *http.Request {
	return MakeRequest(http.MethodPost, "/questions", "", map[string]any{
		"question":   question,
		"answer":     answer,
		"difficulty": difficulty,
		"category":   category,
	})
}

func SearchQuestions(term string) *http.Request {
	return MakeRequest(http.MethodPost, "/questions", "", map[string]any{
		"searchTerm": term,
	})
}

func DeleteQuestion(questionID any) *http.Request {
	return MakeRequest(http.MethodDelete, fmt.Sprintf("/questions/%v", questionID), "", nil)
}

// TRIVIA -> QUIZZES

func PlayQuiz(previousQuestions []int64, categoryID any) *http.Request {
	if previousQuestions == nil {
		previousQuestions = []int64{}
	}
	return MakeRequest(http.MethodPost, "/quizzes", "", map[string]any{
		"previous_questions": previousQuestions,
		"quiz_category": map[string]any{
			"id":   categoryID,
			"type": "click",
		},
	})
}

// COFFEE -> DRINKS

func GetDrinks() *http.Request {
	return MakeRequest(http.MethodGet, "/drinks", "", nil)
}

func GetDrinksDetail(token string) *http.Request {
	return MakeRequest(http.MethodGet, "/drinks-detail", token, nil)
}

func CreateDrink(token, title string, recipe any) *http.Request {
	return MakeRequest(http.MethodPost, "/drinks", token, map[string]any{
		"title":  title,
		"recipe": recipe,
	})
}

func UpdateDrink(token string, drinkID any, fields map[string]any) *http.Request {
	return MakeRequest(http.MethodPatch, fmt.Sprintf("/drinks/%v", drinkID), token, fields)
}

func DeleteDrink(token string, drinkID any) *http.Request {
	return MakeRequest(http.MethodDelete, fmt.Sprintf("/drinks/%v", drinkID), token, nil)
}

func GetUsers(token string) *http.Request {
	return MakeRequest(http.MethodGet, "/users", token, nil)
}

// DEV

func ResetQuestions() *http.Request {
	return MakeRequest(http.MethodPost, "/admin/reset", "", nil)
}
