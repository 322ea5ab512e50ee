package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// APIError is a rejected call. Its message is the server status message when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Page is one page of users as returned by the server.
type Page struct {
	Users      []User
	TotalCount int64
}

// Client is the typed client for the /User resource.
type Client struct {
	server string
	doer   HttpRequestDoer
}

// NewClient instantiates the users client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("users API base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{server: baseURL, doer: httpClient}, nil
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, params ListUsersParams) (*Page, error) {
	if c == nil || c.doer == nil {
		return nil, errors.New("users client not configured")
	}
	req, err := NewListUsersRequest(c.server, &params)
	if err != nil {
		return nil, fmt.Errorf("build list users request: %w", err)
	}
	body, rsp, err := do[UserListResponse](ctx, c.doer, req)
	if err != nil {
		return nil, err
	}
	if rsp.StatusCode/100 != 2 || body == nil || !body.Status.Success {
		return nil, apiError(rsp, statusOf(body))
	}
	return &Page{Users: body.Value, TotalCount: body.TotalCount}, nil
}

// CreateUser registers a user and returns the generated id.
func (c *Client) CreateUser(ctx context.Context, body CreateUserJSONRequestBody) (string, error) {
	if c == nil || c.doer == nil {
		return "", errors.New("users client not configured")
	}
	req, err := NewCreateUserRequest(c.server, body)
	if err != nil {
		return "", fmt.Errorf("build create user request: %w", err)
	}
	created, rsp, err := do[UserCreatedResponse](ctx, c.doer, req)
	if err != nil {
		return "", err
	}
	var status *Status
	if created != nil {
		status = &created.Status
	}
	if rsp.StatusCode/100 != 2 || created == nil || !created.Status.Success {
		return "", apiError(rsp, status)
	}
	return created.Value, nil
}

func statusOf(body *UserListResponse) *Status {
	if body == nil {
		return nil
	}
	return &body.Status
}

func apiError(rsp *http.Response, status *Status) error {
	if status != nil {
		if msg := strings.TrimSpace(status.Message); msg != "" {
			return &APIError{StatusCode: rsp.StatusCode, Message: status.Message}
		}
	}
	return &APIError{StatusCode: rsp.StatusCode, Message: http.StatusText(rsp.StatusCode)}
}
