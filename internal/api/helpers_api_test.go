package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/fsnd-labs/fsnd-api/internal/database"
	ft "github.com/fsnd-labs/fsnd-api/internal/fsndtest"
)

const schemaDir = "../../sql/schema"

type postgresContainer struct {
	Ctx       context.Context
	Container *postgres.PostgresContainer
	URI       string
}

// SetupPostgres starts a throwaway Postgres for the integration suite.
func SetupPostgres(t testing.TB) *postgresContainer {
	t.Helper()
	ctx := context.Background()

	migrations, err := filepath.Glob(filepath.Join(schemaDir, "postgres", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, migrations, "no postgres migrations found")

	pgc, err := postgres.Run(ctx, "postgres:18.1-alpine",
		postgres.WithDatabase("fsnd"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	tc.CleanupContainer(t, pgc)
	require.NoError(t, err)

	dbURL, err := pgc.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return &postgresContainer{Ctx: ctx, Container: pgc, URI: dbURL}
}

// newTestConfig returns a service context on a fresh, migrated in-memory
// SQLite database.
func newTestConfig(t *testing.T) *APIConfig {
	t.Helper()
	cfg := &APIConfig{
		dbDriver: "sqlite",
		dbURL:    "file::memory:?_pragma=foreign_keys(1)",
		randIntN: func(n int) int { return 0 },
	}
	cfg.NewLogger(slog.LevelError)
	require.NoError(t, cfg.ConnectToDB(os.DirFS(schemaDir)))
	t.Cleanup(func() { _ = cfg.Close() })
	return cfg
}

// seedQuestions inserts n questions cycling over the seeded categories.
func seedQuestions(t *testing.T, cfg *APIConfig, n int) []database.Question {
	t.Helper()
	questions := make([]database.Question, 0, n)
	for i := range n {
		q, err := cfg.db.CreateQuestion(context.Background(), database.CreateQuestionParams{
			Question:   fmt.Sprintf("Question number %d?", i+1),
			Answer:     fmt.Sprintf("Answer %d", i+1),
			Difficulty: int32(i%5 + 1),
			Category:   int32(i%6 + 1),
		})
		require.NoError(t, err)
		questions = append(questions, q)
	}
	return questions
}

// ------------------------
//  APITestClient
// ------------------------

type APITestClient struct {
	Mux       http.Handler
	W         *httptest.ResponseRecorder
	testState *testing.T
}

// Request serves req, keeps the recorder in W and asserts the status code
// unless expectedCode is 0.
func (c *APITestClient) Request(req *http.Request, expectedCode int) *http.Request {
	w := httptest.NewRecorder()
	c.Mux.ServeHTTP(w, req)
	c.W = w
	if expectedCode != 0 {
		assert.Equal(c.testState, expectedCode, c.W.Code, "body: %s", c.W.Body.String())
	}
	return req
}

func (c *APITestClient) GetJSONField(field string) (any, error) {
	return ft.GetJSONField(c.W, field)
}

func (c *APITestClient) GetJSONFieldAsInt64(field string) (int64, error) {
	fieldRetrieved, err := c.GetJSONField(field)
	if err != nil {
		return 0, err
	}
	if val, ok := fieldRetrieved.(int64); ok {
		return val, nil
	}
	return 0, fmt.Errorf("field retrieved from response was not of type int64")
}

// Body decodes the last response into a generic object.
func (c *APITestClient) Body() map[string]any {
	var body map[string]any
	require.NoError(c.testState, json.Unmarshal(c.W.Body.Bytes(), &body))
	return body
}

// requireErrorEnvelope checks the last response is the standard error body.
func (c *APITestClient) requireErrorEnvelope(code int, message string) {
	t := c.testState
	t.Helper()
	body := c.Body()
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(code), body["error"])
	assert.Equal(t, message, body["message"])
}
