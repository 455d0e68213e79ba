package wekan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const loginPath = "/users/login"

// Client is the session manager every resource proxy talks through. It
// owns the base URL, the credentials, and the bearer token together with
// its expiry; the token is re-derived from the credentials whenever a
// request observes it as expired.
type Client struct {
	baseURL  string
	username string
	password string

	userID      string
	token       string
	tokenExpiry time.Time

	httpClient *http.Client
	now        func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport. A caller-supplied
// client timeout is the only cancellation mechanism the API layer offers.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithNow overrides the clock used for token-expiry checks.
func WithNow(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient logs in eagerly: the returned client already holds a valid
// token, or the login failure is returned as-is.
func NewClient(baseURL, username, password string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.renewLogin(); err != nil {
		return nil, err
	}

	return c, nil
}

// UserID is the server-side ID of the authenticated user.
func (c *Client) UserID() string { return c.userID }

// Token is the current bearer token. It may already be expired; Request
// renews it lazily.
func (c *Client) Token() string { return c.token }

// TokenExpiry is the expiry timestamp of the current bearer token.
func (c *Client) TokenExpiry() time.Time { return c.tokenExpiry }

// BaseURL is the server URL the client was constructed with, without a
// trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

type loginResponse struct {
	ID           string `json:"id"`
	Token        string `json:"token"`
	TokenExpires string `json:"tokenExpires"`
}

// renewLogin exchanges the stored credentials for a fresh token. Token and
// expiry are only ever updated together.
func (c *Client) renewLogin() error {
	credentials := map[string]string{"username": c.username, "password": c.password}
	body, err := c.do(http.MethodPost, loginPath, credentials)
	if err != nil {
		return err
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return &APIError{Message: fmt.Sprintf("decode login response: %v", err)}
	}
	if login.ID == "" || login.Token == "" || login.TokenExpires == "" {
		return &APIError{Message: "login response missing id, token or tokenExpires"}
	}

	expiry, err := ParseISODate(login.TokenExpires)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("parse tokenExpires: %v", err)}
	}

	c.userID = login.ID
	c.token = login.Token
	c.tokenExpiry = expiry
	return nil
}

// tokenExpired reports whether the stored expiry is strictly in the past.
func (c *Client) tokenExpired() bool {
	return c.tokenExpiry.Before(c.now().UTC())
}

// Request performs one JSON API call. A nil payload is sent as an empty
// JSON object. The returned bytes are valid JSON, except for the DELETE
// carve-out documented in do.
func (c *Client) Request(method, path string, payload any) ([]byte, error) {
	if c.token != "" && !c.tokenExpiry.IsZero() && c.tokenExpired() {
		if err := c.renewLogin(); err != nil {
			return nil, err
		}
	}

	return c.do(method, path, payload)
}

// get performs a GET and decodes the response into out.
func (c *Client) get(path string, out any) error {
	body, err := c.Request(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Message: fmt.Sprintf("decode %s response: %v", path, err)}
	}
	return nil
}

var usernameExistsPattern = regexp.MustCompile(`Username already exists`)

func (c *Client) do(method, path string, payload any) ([]byte, error) {
	if payload == nil {
		payload = struct{}{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request payload: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors propagate unwrapped.
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The server reports spurious 500s on some deletes (cards in
		// particular) that nonetheless succeed. Keep returning the raw
		// text for those instead of failing.
		if method == http.MethodDelete && resp.StatusCode == http.StatusInternalServerError && !json.Valid(body) {
			return body, nil
		}
		return nil, classifyError(resp.StatusCode, body)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}

	if !json.Valid(body) {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("could not decode the API response: %s", strings.TrimSpace(string(body))),
		}
	}

	return body, nil
}

type errorBody struct {
	Reason string `json:"reason"`
}

func classifyError(statusCode int, body []byte) error {
	text := strings.TrimSpace(string(body))

	switch statusCode {
	case http.StatusUnauthorized:
		return &AuthenticationError{StatusCode: statusCode, Message: text}
	case http.StatusNotFound:
		return &NotFoundError{StatusCode: statusCode, Message: text}
	}

	var reason errorBody
	if err := json.Unmarshal(body, &reason); err == nil && usernameExistsPattern.MatchString(reason.Reason) {
		return &ConflictError{StatusCode: statusCode, Reason: reason.Reason}
	}

	return &APIError{StatusCode: statusCode, Message: text}
}
