// Package api is the typed HTTP client for the careerdesk backend.
// Every resource method returns normalized record shapes regardless of
// the server's envelope convention, and every failure is an *Error.
// The client holds no cache and performs no automatic retries; policy
// belongs to the views.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"careerdesk/internal/logging"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single backend call when the caller's context
// carries no deadline.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the opaque access/refresh token pair. The
// session package owns the pair's lifecycle; the client only reads it
// and writes back refreshed values.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string) error
}

// Client issues requests against the careerdesk backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	validate   *validator.Validate
}

// New creates a client for the given base URL. tokens may be nil for
// unauthenticated use (login).
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs one request, transparently exchanging the refresh token
// once on a 401 before giving up with KindAuth.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	body, err := c.roundTrip(ctx, method, path, query, payload, c.accessToken())

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindAuth && apiErr.Status == http.StatusUnauthorized &&
		c.tokens != nil && c.tokens.RefreshToken() != "" {
		logging.API("%s %s: access token rejected, attempting refresh", method, path)
		if rErr := c.refreshTokens(ctx); rErr == nil {
			return c.roundTrip(ctx, method, path, query, payload, c.accessToken())
		}
	}
	return body, err
}

func (c *Client) accessToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken()
}

// roundTrip is one HTTP exchange: no refresh logic, no retries.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload any, token string) ([]byte, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("%s %s: transport failure: %v", method, path, err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logging.APIError("%s %s: read body: %v", method, path, err)
		return nil, transportError(err)
	}

	logging.APIDebug("%s %s: status=%d elapsed=%v bytes=%d", method, path, resp.StatusCode, time.Since(start), len(body))

	if resp.StatusCode >= 400 {
		return nil, classify(resp.StatusCode, body)
	}
	return body, nil
}

// tokenPair is the backend's refresh/login token response.
type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) refreshTokens(ctx context.Context) error {
	body, err := c.roundTrip(ctx, http.MethodPost, "/auth/refresh", nil,
		map[string]string{"refresh_token": c.tokens.RefreshToken()}, "")
	if err != nil {
		logging.APIError("token refresh failed: %v", err)
		return err
	}
	var pair tokenPair
	if err := decode(body, "tokens", &pair); err != nil {
		return err
	}
	if pair.AccessToken == "" {
		return &Error{Kind: KindAuth, Message: "refresh returned no access token"}
	}
	return c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken)
}

// validatePayload runs client-side validation so obviously malformed
// payloads never cost a round-trip. Failures are KindValidation with
// per-field messages keyed by lowercased struct field name.
func (c *Client) validatePayload(payload any) error {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}
	fields := make(map[string][]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			key := strings.ToLower(fe.Field())
			fields[key] = append(fields[key], fmt.Sprintf("fails %q constraint", fe.Tag()))
		}
	}
	return &Error{Kind: KindValidation, Message: "invalid payload", Fields: fields, Err: err}
}

// =============================================================================
// GENERIC REQUEST HELPERS
// =============================================================================

func listJSON[T any](ctx context.Context, c *Client, path, key string, query url.Values) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := decode(body, key, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func getJSON[T any](ctx context.Context, c *Client, path, key string) (T, error) {
	var out T
	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return out, err
	}
	err = decode(body, key, &out)
	return out, err
}

func postJSON[T any](ctx context.Context, c *Client, path, key string, payload any) (T, error) {
	var out T
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return out, err
	}
	err = decode(body, key, &out)
	return out, err
}

func putJSON[T any](ctx context.Context, c *Client, path, key string, payload any) (T, error) {
	var out T
	body, err := c.do(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return out, err
	}
	err = decode(body, key, &out)
	return out, err
}

func deleteJSON(ctx context.Context, c *Client, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}
