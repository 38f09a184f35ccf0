package client

import (
	"context"
	"net/http"
	"time"

	"github.com/jonathan/portfolio/internal/loader"
	"github.com/jonathan/portfolio/internal/types"
)

// TokenPair is the token/expiry pair kept by the browser after login.
type TokenPair struct {
	Token  string
	Expiry time.Time
}

// Expired reports whether the token is missing or past its expiry at now.
func (p *TokenPair) Expired(now time.Time) bool {
	return p == nil || p.Token == "" || !now.Before(p.Expiry)
}

// Login authenticates against POST /auth/login and keeps the returned token for
// subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", types.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	resp, err := loader.Decode[types.LoginResponse](body)
	if err != nil {
		return nil, err
	}
	c.token = &TokenPair{Token: resp.Token, Expiry: resp.Expiry}
	return c.token, nil
}

// Logout forgets the stored token.
func (c *Client) Logout() {
	c.token = nil
}

// InvalidateCache asks the server to drop cached content. An empty resource drops everything.
func (c *Client) InvalidateCache(ctx context.Context, resource string) error {
	_, err := c.do(ctx, http.MethodPost, "/admin/cache/invalidate", types.InvalidateRequest{Resource: resource})
	return err
}
