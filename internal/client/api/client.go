// Package api implements the HTTP client for the vault server. It wraps a
// retrying HTTP client and maps API status codes onto the shared sentinel
// errors so callers can branch with errors.Is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/passvault-io/passvault/internal/common"
	"github.com/passvault-io/passvault/internal/cryptox"
)

// Record mirrors the server's vault record payload.
type Record struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	EncryptedData cryptox.Wire `json:"encryptedData"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// User mirrors the server's user payload.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResult is what the auth endpoints return on success.
type AuthResult struct {
	Token string
	User  User
}

// Client talks to the vault server. It is safe for sequential use; callers
// coordinating concurrent requests must not race SetToken.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	token   string
}

// methodKey carries the request method to the retry policy.
type methodKey struct{}

// New builds a Client for the given base URL. Transient network errors and
// 5xx responses are retried with backoff, except for POST requests: a create
// whose response was lost must not be replayed into a duplicate record. A
// positive timeout bounds each call, retries included.
func New(baseURL string, timeout time.Duration) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if method, _ := ctx.Value(methodKey{}).(string); method == http.MethodPost {
			return false, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc.StandardClient(),
		timeout: timeout,
	}
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type envelopeBody struct {
	EncryptedData cryptox.Wire `json:"encryptedData"`
}

type authBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

type recordBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Register creates an account and returns the issued token.
func (c *Client) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authRequest(ctx, "/auth/register", email, password)
}

// Login authenticates and returns the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authRequest(ctx, "/auth/login", email, password)
}

func (c *Client) authRequest(ctx context.Context, path, email, password string) (*AuthResult, error) {
	resp, body, err := c.do(ctx, http.MethodPost, path, credentialsBody{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := statusError(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var parsed authBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding auth response: %w", err)
	}
	if parsed.Token == "" || parsed.User == nil {
		return nil, common.ErrorInternal
	}
	return &AuthResult{Token: parsed.Token, User: *parsed.User}, nil
}

// ListRecords fetches the caller's records, most-recently-updated first.
func (c *Client) ListRecords(ctx context.Context) ([]Record, error) {
	resp, body, err := c.do(ctx, http.MethodGet, "/vault", nil)
	if err != nil {
		return nil, err
	}
	if err := statusError(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var parsed recordBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding list response: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(parsed.Data, &records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return records, nil
}

// CreateRecord stores a new envelope and returns the stored record.
func (c *Client) CreateRecord(ctx context.Context, env cryptox.Wire) (*Record, error) {
	return c.recordRequest(ctx, http.MethodPost, "/vault", env)
}

// UpdateRecord replaces the envelope of an existing record.
func (c *Client) UpdateRecord(ctx context.Context, id string, env cryptox.Wire) (*Record, error) {
	return c.recordRequest(ctx, http.MethodPut, "/vault/"+id, env)
}

func (c *Client) recordRequest(ctx context.Context, method, path string, env cryptox.Wire) (*Record, error) {
	resp, body, err := c.do(ctx, method, path, envelopeBody{EncryptedData: env})
	if err != nil {
		return nil, err
	}
	if err := statusError(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var parsed recordBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding record response: %w", err)
	}

	record := &Record{}
	if err := json.Unmarshal(parsed.Data, record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return record, nil
}

// DeleteRecord removes a record. A 404 maps to common.ErrorNotFound so the
// caller can distinguish "already gone" from transport failures.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	resp, body, err := c.do(ctx, http.MethodDelete, "/vault/"+id, nil)
	if err != nil {
		return err
	}
	return statusError(resp.StatusCode, body)
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx = context.WithValue(ctx, methodKey{}, method)

	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

// statusError maps API status codes onto the shared sentinels, attaching the
// server's message when one is present.
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusForbidden:
		sentinel = common.ErrorForbidden
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusConflict:
		sentinel = common.ErrorAlreadyExists
	case http.StatusBadRequest:
		sentinel = common.ErrorValidation
	default:
		sentinel = common.ErrorInternal
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return fmt.Errorf("%s: %w", parsed.Message, sentinel)
	}
	return sentinel
}
