// Package api handles the trivia and coffee shop routes and their handlers
package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var errNoVerifier = errors.New("no token verifier configured")

func SetupTriviaMux(cfg *APIConfig) http.Handler {
	mux := http.NewServeMux()

	// REGISTER API HANDLERS
	// ======================

	mux.HandleFunc("GET /healthz", cfg.handleReadiness)
	// Categories
	mux.HandleFunc("GET /categories", cfg.handleGetCategories)
	mux.HandleFunc("POST /category", cfg.handleCreateCategory)
	mux.HandleFunc("GET /categories/{category_id}/questions", cfg.handleGetCategoryQuestions)
	// Questions
	mux.HandleFunc("GET /questions", cfg.handleGetQuestions)
	mux.HandleFunc("POST /questions", cfg.handleCreateOrSearchQuestions)
	mux.HandleFunc("DELETE /questions/{question_id}", cfg.handleDeleteQuestion)
	// Quizzes
	mux.HandleFunc("POST /quizzes", cfg.handlePlayQuiz)
	// Dev
	mux.HandleFunc("POST /admin/reset", cfg.handleResetQuestions)

	return cfg.wrapCommon(mux, []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"})
}

func SetupCoffeeMux(cfg *APIConfig) http.Handler {
	mux := http.NewServeMux()

	// middleware
	mdPerm := cfg.middlewareRequirePermission

	// REGISTER API HANDLERS
	// ======================

	mux.HandleFunc("GET /healthz", cfg.handleReadiness)
	// Drinks
	mux.HandleFunc("GET /drinks", cfg.handleGetDrinks)
	mux.HandleFunc("GET /drinks-detail", mdPerm("get:drinks-detail", cfg.handleGetDrinksDetail))
	mux.HandleFunc("POST /drinks", mdPerm("post:drinks", cfg.handleCreateDrink))
	mux.HandleFunc("PATCH /drinks/{drink_id}", mdPerm("patch:drinks", cfg.handleUpdateDrink))
	mux.HandleFunc("DELETE /drinks/{drink_id}", mdPerm("delete:drinks", cfg.handleDeleteDrink))
	// Users
	mux.HandleFunc("GET /users", mdPerm("read:users", cfg.handleGetUsers))

	return cfg.wrapCommon(mux, []string{"GET", "PATCH", "POST", "DELETE", "OPTIONS"})
}

// wrapCommon applies the middleware shared by both services, outermost first:
// real client ip (behind a trusted proxy only), request log, panic recovery,
// CORS, rate limiting.
func (cfg *APIConfig) wrapCommon(mux http.Handler, methods []string) http.Handler {
	origins := cfg.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	var h http.Handler = mux
	h = cfg.middlewareRateLimit(h)
	h = cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: methods,
		AllowedHeaders: []string{"Content-Type", "Authorization", "true"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})(h)
	h = middleware.Recoverer(h)
	h = cfg.middlewareLog(h)
	if cfg.trustProxy {
		h = middleware.RealIP(h)
	}
	return h
}
