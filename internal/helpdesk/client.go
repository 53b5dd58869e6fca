// Package helpdesk is the client for the remote helpdesk API. Every read and
// write in this application round-trips through it; the remote API is
// authoritative and this client adds nothing on top of the call itself: no
// caching, no retry.
package helpdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ravindu/helpdesk-web/internal/model"
)

// Client talks to the remote helpdesk API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client for the API rooted at baseURL. timeout bounds each
// request end to end.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// apiError is the JSON error body the API sends on non-2xx responses.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs one request. The bearer credential is attached when token is
// non-empty; body (if any) is JSON-encoded; out (if non-nil) receives the
// decoded response. Non-2xx statuses become *HTTPError, transport failures
// become *NetworkError.
func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("helpdesk api: encoding request body: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("helpdesk api: building request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var ae apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&ae); decodeErr == nil {
			if ae.Message != "" {
				msg = ae.Message
			} else if ae.Error != "" {
				msg = ae.Error
			}
		}
		c.logger.Warn("api request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return &HTTPError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("helpdesk api: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// ListQuestions returns every question. Order is whatever the API returns.
func (c *Client) ListQuestions(ctx context.Context, token string) ([]model.Question, error) {
	var questions []model.Question
	if err := c.do(ctx, token, http.MethodGet, "/api/questions", nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestion returns one question with its embedded answers.
func (c *Client) GetQuestion(ctx context.Context, token string, id int) (*model.Question, error) {
	var q model.Question
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/questions/%d", id), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateQuestion posts a new question. The server assigns the id; the caller
// sends a zero placeholder.
func (c *Client) CreateQuestion(ctx context.Context, token string, q *model.Question) (*model.Question, error) {
	var created model.Question
	if err := c.do(ctx, token, http.MethodPost, "/api/questions", q, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateQuestion sends the full question body.
func (c *Client) UpdateQuestion(ctx context.Context, token string, q *model.Question) error {
	return c.do(ctx, token, http.MethodPut, fmt.Sprintf("/api/questions/%d", q.ID), q, nil)
}

// DeleteQuestion removes a question.
func (c *Client) DeleteQuestion(ctx context.Context, token string, id int) error {
	return c.do(ctx, token, http.MethodDelete, fmt.Sprintf("/api/questions/%d", id), nil, nil)
}

// CreateAnswer posts a new answer. The server assigns the id.
func (c *Client) CreateAnswer(ctx context.Context, token string, a *model.Answer) error {
	return c.do(ctx, token, http.MethodPost, "/api/answers", a, nil)
}

// GetUser looks up a profile by id.
func (c *Client) GetUser(ctx context.Context, token string, id int) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, token, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserInfo returns the authenticated user's profile with owned questions.
func (c *Client) UserInfo(ctx context.Context, token string) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, token, http.MethodGet, "/api/auth/userinfo", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// LoginResult is the API's response to a successful credential check.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login relays the user's credentials to the remote API and returns the
// issued bearer token plus profile snapshot. The authentication protocol
// itself lives entirely on the API side.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResult
	if err := c.do(ctx, "", http.MethodPost, "/api/auth/login", body, &res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("helpdesk api: login response carried no token")
	}
	return &res, nil
}
