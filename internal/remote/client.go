// Package remote talks to the sync API. Every call is bounded by a short timeout, and
// transport failures, timeouts, 5xx replies and non-JSON bodies all come back as
// ErrRemoteUnavailable so callers can fall back to local storage.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
)

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrRemoteUnavailable, fmt.Sprintf(format, args...))
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	if c.baseURL == "" {
		return unavailable("no remote configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
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
		return unavailable("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return unavailable("%s %s: read body: %v", method, path, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return unavailable("%s %s: status %d", method, path, resp.StatusCode)
	}
	if len(raw) == 0 && resp.StatusCode < http.StatusBadRequest {
		return nil
	}
	if !json.Valid(raw) {
		return unavailable("%s %s: non-JSON response", method, path)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Message == "" {
			return unavailable("%s %s: status %d", method, path, resp.StatusCode)
		}
		return apperrors.FromResponse(resp.StatusCode, apiErr.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return unavailable("%s %s: decode: %v", method, path, err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, reg model.Registration) (model.Session, error) {
	var session model.Session
	err := c.do(ctx, http.MethodPost, "/api/accounts", "", reg, &session)
	return session, err
}

func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.Session, error) {
	var session model.Session
	err := c.do(ctx, http.MethodPost, "/api/auth", "", creds, &session)
	return session, err
}

func (c *Client) UpdateAccount(ctx context.Context, token string, upd model.AccountUpdate) (model.Profile, error) {
	var profile model.Profile
	err := c.do(ctx, http.MethodPatch, "/api/accounts", token, upd, &profile)
	return profile, err
}

func (c *Client) DeleteAccount(ctx context.Context, token, password string) error {
	body := map[string]string{"password": password}
	return c.do(ctx, http.MethodDelete, "/api/accounts", token, body, nil)
}

func (c *Client) FetchData(ctx context.Context, token string) (model.UserData, error) {
	var data model.UserData
	err := c.do(ctx, http.MethodGet, "/api/data", token, nil, &data)
	return data, err
}

func (c *Client) PushData(ctx context.Context, token string, data model.UserData) error {
	return c.do(ctx, http.MethodPost, "/api/data", token, data, nil)
}
