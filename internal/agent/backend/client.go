// Package backend is the agent's HTTP client for the paylock API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fkhayef/paylock/internal/account"
	"github.com/fkhayef/paylock/internal/location"
	"github.com/fkhayef/paylock/internal/lock"
)

// DefaultTimeout bounds every request, including connect and body read
const DefaultTimeout = 15 * time.Second

var (
	// ErrUnauthorized is returned on 401, i.e. a missing, expired or
	// revoked session token.
	ErrUnauthorized = errors.New("backend rejected the session token")
	// ErrNoSession is returned before any request when no token is stored
	ErrNoSession = errors.New("no session token")
)

// APIError is a non-2xx reply carrying the server's error envelope
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d %s: %s", e.Status, e.Code, e.Message)
}

// TokenSource supplies the current bearer token, "" when logged out
type TokenSource interface {
	Token() string
}

// Client talks to the REST backend
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// NewClient creates a client for baseURL (including the /api prefix). A
// zero timeout means DefaultTimeout.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// Login exchanges credentials for a token. It needs no stored session.
func (c *Client) Login(ctx context.Context, username, password string) (*account.AuthResponse, error) {
	var out account.AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", false, &account.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterDevice records this device against the logged-in account
func (c *Client) RegisterDevice(ctx context.Context, deviceID string, info map[string]interface{}) error {
	return c.do(ctx, http.MethodPost, "/auth/registrar-dispositivo", true, &account.RegisterDeviceRequest{DeviceID: deviceID, DeviceInfo: info}, nil)
}

// CheckLock asks whether this device should be locked
func (c *Client) CheckLock(ctx context.Context) (*lock.StatusResponse, error) {
	var out lock.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/lock/check", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLocation reports the device's position
func (c *Client) UpdateLocation(ctx context.Context, req *location.UpdateRequest) error {
	return c.do(ctx, http.MethodPost, "/link/location/update", true, req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out interface{}) error {
	var token string
	if authed {
		token = c.tokens.Token()
		if token == "" {
			return ErrNoSession
		}
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
		if decodeErr != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
