// Package client implements the HTTP API client used by the CLI.
// It wraps the backend REST endpoints and translates HTTP status codes
// back into the shared error taxonomy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

type MessagelyClientService struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewMessagelyClientService(baseURL string, timeout time.Duration) (*MessagelyClientService, error) {
	return &MessagelyClientService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SetToken stores the bearer token attached to subsequent requests.
func (c *MessagelyClientService) SetToken(token string) {
	c.token = token
}

// IsAuthenticated reports whether a bearer token is set.
func (c *MessagelyClientService) IsAuthenticated() bool {
	return c.token != ""
}

// errorFromStatus maps a non-2xx response back to a taxonomy error,
// mirroring the server-side mapping.
func errorFromStatus(status int, msg string) error {
	var kind error
	switch status {
	case http.StatusBadRequest:
		kind = common.ErrorValidation
	case http.StatusNotFound:
		kind = common.ErrorNotFound
	case http.StatusConflict:
		kind = common.ErrorConflict
	case http.StatusUnauthorized:
		kind = common.ErrorUnauthorized
	case http.StatusForbidden:
		kind = common.ErrorForbidden
	default:
		kind = common.ErrorInternal
	}
	if msg == "" {
		return kind
	}
	return fmt.Errorf("%w: %s", kind, msg)
}

// do performs a JSON request and decodes the response into out (if non-nil).
func (c *MessagelyClientService) do(ctx context.Context, method, path string, body any, out any) error {

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return errorFromStatus(resp.StatusCode, payload.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}

	return nil
}

type RegisterParams struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Register creates an account and stores the returned token.
func (c *MessagelyClientService) Register(ctx context.Context, params RegisterParams) error {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", params, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Login authenticates and stores the returned token.
func (c *MessagelyClientService) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

func (c *MessagelyClientService) Users(ctx context.Context) ([]*models.UserSummary, error) {
	var resp struct {
		Users []*models.UserSummary `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *MessagelyClientService) User(ctx context.Context, username string) (*models.Profile, error) {
	var resp struct {
		User *models.Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Inbox lists messages sent to username.
func (c *MessagelyClientService) Inbox(ctx context.Context, username string) ([]*models.ReceivedMessage, error) {
	var resp struct {
		Messages []*models.ReceivedMessage `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username+"/to", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// Outbox lists messages sent by username.
func (c *MessagelyClientService) Outbox(ctx context.Context, username string) ([]*models.SentMessage, error) {
	var resp struct {
		Messages []*models.SentMessage `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username+"/from", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *MessagelyClientService) Send(ctx context.Context, toUsername, body string) (*models.Message, error) {
	req := map[string]string{"to_username": toUsername, "body": body}
	var resp struct {
		Message *models.Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages", req, &resp); err != nil {
		return nil, err
	}
	return resp.Message, nil
}

func (c *MessagelyClientService) Message(ctx context.Context, id int64) (*models.MessageDetail, error) {
	var resp struct {
		Message *models.MessageDetail `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/messages/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Message, nil
}

func (c *MessagelyClientService) MarkRead(ctx context.Context, id int64) (*models.Message, error) {
	var resp struct {
		Message *models.Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/%d/read", id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Message, nil
}
