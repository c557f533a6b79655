package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsnd-labs/fsnd-api/internal/auth"
	ft "github.com/fsnd-labs/fsnd-api/internal/fsndtest"
	"github.com/fsnd-labs/fsnd-api/internal/identity"
)

const (
	permGetDetail = "get:drinks-detail"
	permPost      = "post:drinks"
	permPatch     = "patch:drinks"
	permDelete    = "delete:drinks"
	permUsers     = "read:users"
)

var matcha = []map[string]any{
	{"name": "milk", "color": "grey", "parts": 1},
	{"name": "matcha", "color": "green", "parts": 3},
}

type fakeUsers struct {
	users []identity.User
	err   error
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]identity.User, error) {
	return f.users, f.err
}

type coffeeFixture struct {
	*APITestClient
	cfg    *APIConfig
	issuer *ft.TokenIssuer
}

func newCoffeeClient(t *testing.T) *coffeeFixture {
	t.Helper()
	cfg := newTestConfig(t)
	issuer := ft.NewTokenIssuer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	keys, err := auth.NewKeySet(ctx, auth.KeySetConfig{URL: issuer.JWKSURL(), RefreshInterval: time.Hour})
	require.NoError(t, err)
	cfg.verifier = auth.NewVerifier(keys, ft.TestAudience, issuer.Issuer())
	return &coffeeFixture{
		APITestClient: &APITestClient{Mux: SetupCoffeeMux(cfg), testState: t},
		cfg:           cfg,
		issuer:        issuer,
	}
}

func (f *coffeeFixture) manager(t *testing.T) string {
	return f.issuer.Token(t, permGetDetail, permPost, permPatch, permDelete, permUsers)
}

func TestGetDrinksShortProjection(t *testing.T) {
	c := newCoffeeClient(t)
	token := c.manager(t)

	c.Request(ft.CreateDrink(token, "Matcha Shake", matcha), http.StatusOK)

	c.Request(ft.GetDrinks(), http.StatusOK)
	body := c.Body()
	assert.Equal(t, true, body["success"])
	drinks := body["drinks"].([]any)
	require.Len(t, drinks, 1)
	drink := drinks[0].(map[string]any)
	assert.Equal(t, "Matcha Shake", drink["title"])
	for _, ing := range drink["recipe"].([]any) {
		ingredient := ing.(map[string]any)
		assert.NotContains(t, ingredient, "name")
		assert.Contains(t, ingredient, "color")
		assert.Contains(t, ingredient, "parts")
	}

	c.Request(ft.GetDrinksDetail(token), http.StatusOK)
	detail := c.Body()["drinks"].([]any)[0].(map[string]any)
	first := detail["recipe"].([]any)[0].(map[string]any)
	assert.Equal(t, "milk", first["name"])
}

func TestGetDrinksEmpty(t *testing.T) {
	c := newCoffeeClient(t)
	c.Request(ft.GetDrinks(), http.StatusOK)
	assert.Equal(t, []any{}, c.Body()["drinks"])
}

func TestGetDrinksStoreFailure(t *testing.T) {
	c := newCoffeeClient(t)
	require.NoError(t, c.cfg.Close())
	c.Request(ft.GetDrinks(), http.StatusNotFound)
	c.requireErrorEnvelope(http.StatusNotFound, "resource not found")
}

func TestDrinksDetailRequiresPermission(t *testing.T) {
	c := newCoffeeClient(t)

	tests := []struct {
		name  string
		token string
		code  string
	}{
		{"no token", "", "authorization_header_missing"},
		{"garbage token", "not-a-jwt", "invalid_header"},
		{"missing permission", c.issuer.Token(t, permPost), "unauthorized"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.testState = t
			c.Request(ft.GetDrinksDetail(tt.token), http.StatusUnauthorized)
			body := c.Body()
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(http.StatusUnauthorized), body["error"])
			assert.Equal(t, tt.code, body["code"])
		})
	}

	t.Run("malformed header", func(t *testing.T) {
		c.testState = t
		req := ft.GetDrinksDetail("")
		req.Header.Set("Authorization", "Token abc")
		c.Request(req, http.StatusUnauthorized)
		assert.Equal(t, "invalid_header", c.Body()["code"])
	})

	t.Run("no verifier configured", func(t *testing.T) {
		cfg := newTestConfig(t)
		client := &APITestClient{Mux: SetupCoffeeMux(cfg), testState: t}
		client.Request(ft.GetDrinksDetail(c.manager(t)), http.StatusUnauthorized)
	})
}

func TestCreateDrink(t *testing.T) {
	c := newCoffeeClient(t)
	token := c.issuer.Token(t, permPost)

	c.Request(ft.CreateDrink(token, "Water", map[string]any{"name": "water", "color": "blue", "parts": 1}), http.StatusOK)
	body := c.Body()
	assert.Equal(t, true, body["success"])
	drinks := body["drinks"].([]any)
	require.Len(t, drinks, 1)
	drink := drinks[0].(map[string]any)
	assert.Equal(t, "Water", drink["title"])
	assert.Len(t, drink["recipe"], 1)

	tests := []struct {
		name string
		body any
	}{
		{"empty body", nil},
		{"missing title", map[string]any{"recipe": matcha}},
		{"empty title", map[string]any{"title": "", "recipe": matcha}},
		{"missing recipe", map[string]any{"title": "Latte"}},
		{"empty recipe", map[string]any{"title": "Latte", "recipe": []any{}}},
		{"ingredient without name", map[string]any{"title": "Latte", "recipe": []any{
			map[string]any{"color": "brown", "parts": 1},
		}}},
		{"zero parts", map[string]any{"title": "Latte", "recipe": []any{
			map[string]any{"name": "coffee", "color": "brown", "parts": 0},
		}}},
		{"duplicate title", map[string]any{"title": "Water", "recipe": matcha}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.testState = t
			c.Request(ft.MakeRequest(http.MethodPost, "/drinks", token, tt.body), http.StatusUnprocessableEntity)
			c.requireErrorEnvelope(http.StatusUnprocessableEntity, "unprocessable")
		})
	}
}

func TestUpdateDrink(t *testing.T) {
	c := newCoffeeClient(t)
	token := c.manager(t)

	c.Request(ft.CreateDrink(token, "Matcha Shake", matcha), http.StatusOK)
	c.Request(ft.CreateDrink(token, "Water", map[string]any{"name": "water", "color": "blue", "parts": 1}), http.StatusOK)

	c.Request(ft.UpdateDrink(token, 1, map[string]any{"title": "Matcha Latte"}), http.StatusOK)
	drink := c.Body()["drinks"].([]any)[0].(map[string]any)
	assert.Equal(t, "Matcha Latte", drink["title"])
	assert.Len(t, drink["recipe"], 2)

	c.Request(ft.UpdateDrink(token, 1, map[string]any{
		"recipe": []any{map[string]any{"name": "oat milk", "color": "white", "parts": 2}},
	}), http.StatusOK)
	drink = c.Body()["drinks"].([]any)[0].(map[string]any)
	assert.Equal(t, "Matcha Latte", drink["title"])
	assert.Len(t, drink["recipe"], 1)

	c.Request(ft.UpdateDrink(token, 1, map[string]any{}), http.StatusOK)

	c.Request(ft.UpdateDrink(token, 99, map[string]any{"title": "Ghost"}), http.StatusNotFound)
	c.requireErrorEnvelope(http.StatusNotFound, "resource not found")
	c.Request(ft.UpdateDrink(token, "abc", map[string]any{"title": "Ghost"}), http.StatusNotFound)
	c.Request(ft.UpdateDrink(token, 1, map[string]any{"title": ""}), http.StatusUnprocessableEntity)
	c.Request(ft.UpdateDrink(token, 1, map[string]any{"recipe": "espresso"}), http.StatusUnprocessableEntity)
	c.Request(ft.UpdateDrink(token, 1, map[string]any{"title": "Water"}), http.StatusUnprocessableEntity)

	c.Request(ft.UpdateDrink(c.issuer.Token(t, permPost), 1, map[string]any{"title": "X"}), http.StatusUnauthorized)
}

func TestDeleteDrink(t *testing.T) {
	c := newCoffeeClient(t)
	token := c.manager(t)

	c.Request(ft.CreateDrink(token, "Matcha Shake", matcha), http.StatusOK)

	c.Request(ft.DeleteDrink(c.issuer.Token(t, permGetDetail), 1), http.StatusUnauthorized)

	c.Request(ft.DeleteDrink(token, 1), http.StatusOK)
	body := c.Body()
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["delete"])

	c.Request(ft.DeleteDrink(token, 1), http.StatusNotFound)
	c.Request(ft.GetDrinks(), http.StatusOK)
	assert.Equal(t, []any{}, c.Body()["drinks"])
}

func TestGetUsers(t *testing.T) {
	c := newCoffeeClient(t)
	token := c.manager(t)

	users := &fakeUsers{users: []identity.User{
		{Email: "barista@example.com", Nickname: "barista", UserID: "auth0|1"},
	}}
	c.cfg.users = users

	c.Request(ft.GetUsers(token), http.StatusOK)
	got, err := ft.DecodeBody[[]identity.User](c.W)
	require.NoError(t, err)
	assert.Equal(t, users.users, got)

	c.Request(ft.GetUsers(c.issuer.Token(t, permGetDetail)), http.StatusUnauthorized)

	users.err = identity.ErrNoAccessToken
	c.Request(ft.GetUsers(token), http.StatusUnauthorized)
	users.err = identity.ErrNoUsers
	c.Request(ft.GetUsers(token), http.StatusUnauthorized)
	users.err = errors.New("connection refused")
	c.Request(ft.GetUsers(token), http.StatusBadGateway)
	c.requireErrorEnvelope(http.StatusBadGateway, "bad gateway")

	c.cfg.users = nil
	c.Request(ft.GetUsers(token), http.StatusUnauthorized)
}
