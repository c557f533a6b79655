// Package identity talks to the identity provider's management API using a
// machine-to-machine client credential.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrNoAccessToken = errors.New("no management api access token obtained")
	ErrNoUsers       = errors.New("management api returned no users")
)

// User is the projection of a provider user exposed by the coffee shop API.
type User struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	UserID   string `json:"user_id"`
}

type Config struct {
	// BaseURL is the provider's tenant URL, e.g. https://tenant.auth0.com
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type Client struct {
	creds     clientcredentials.Config
	tokenHTTP *http.Client
	http      *resty.Client

	mu  sync.Mutex
	tok *oauth2.Token
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		creds: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     base + "/oauth/token",
			EndpointParams: url.Values{
				"audience": {base + "/api/v2/"},
			},
			AuthStyle: oauth2.AuthStyleInParams,
		},
		tokenHTTP: &http.Client{Timeout: cfg.Timeout},
		http: resty.New().
			SetBaseURL(base).
			SetTimeout(cfg.Timeout),
	}
}

// accessToken returns the cached machine token, minting a new one once it
// has expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tok.Valid() {
		return c.tok.AccessToken, nil
	}

	tok, err := c.creds.Token(context.WithValue(ctx, oauth2.HTTPClient, c.tokenHTTP))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoAccessToken, err)
	}
	if tok.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	c.tok = tok
	return tok.AccessToken, nil
}

// ListUsers returns every user known to the provider.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	accessToken, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	var users []User
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&users).
		Get("/api/v2/users")
	if err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching users: unexpected status %d", resp.StatusCode())
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	return users, nil
}
