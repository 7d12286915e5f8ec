package api

import (
	"context"
	"net/http"
	"net/url"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the identity and token pair returned on login.
type LoginResult struct {
	Account Account
	Access  string
	Refresh string
}

// Login authenticates and, when a TokenSource is configured, stores the
// returned token pair.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if err := c.validatePayload(creds); err != nil {
		return LoginResult{}, err
	}

	body, err := c.roundTrip(ctx, http.MethodPost, "/auth/login", nil, creds, "")
	if err != nil {
		return LoginResult{}, err
	}

	var payload struct {
		Account Account `json:"account"`
		Tokens  struct {
			Access  string `json:"access_token"`
			Refresh string `json:"refresh_token"`
		} `json:"tokens"`
	}
	if err := decode(body, "login", &payload); err != nil {
		return LoginResult{}, err
	}

	res := LoginResult{
		Account: payload.Account,
		Access:  payload.Tokens.Access,
		Refresh: payload.Tokens.Refresh,
	}
	if c.tokens != nil && res.Access != "" {
		if err := c.tokens.SetTokens(res.Access, res.Refresh); err != nil {
			return LoginResult{}, err
		}
	}
	return res, nil
}

// CurrentAccount fetches the authenticated identity.
func (c *Client) CurrentAccount(ctx context.Context) (Account, error) {
	return getJSON[Account](ctx, c, "/account", "account")
}

// Coaching fetches the latest AI coaching brief (markdown).
func (c *Client) Coaching(ctx context.Context) (CoachingBrief, error) {
	return getJSON[CoachingBrief](ctx, c, "/coaching", "coaching")
}

// MarketData fetches labor-market aggregates for a role and region.
func (c *Client) MarketData(ctx context.Context, role, region string) (MarketSnapshot, error) {
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	if region != "" {
		q.Set("region", region)
	}
	var out MarketSnapshot
	body, err := c.do(ctx, http.MethodGet, "/market", q, nil)
	if err != nil {
		return out, err
	}
	err = decode(body, "market", &out)
	return out, err
}
