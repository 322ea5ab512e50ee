package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// HttpRequestDoer performs HTTP requests.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ListUsersParams defines parameters for ListUsers.
type ListUsersParams struct {
	Filter   *string `form:"filter,omitempty" json:"filter,omitempty"`
	PageNo   *int    `form:"pageNo,omitempty" json:"pageNo,omitempty"`
	PageSize *int    `form:"pageSize,omitempty" json:"pageSize,omitempty"`
}

// CreateUserJSONRequestBody defines body for CreateUser.
type CreateUserJSONRequestBody struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Status is the outcome block present on every response.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// User is a listed user.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	DateCreated string `json:"date_created"`
}

// UserListResponse is the GET /User body.
type UserListResponse struct {
	Status     Status `json:"status"`
	Value      []User `json:"value"`
	TotalCount int64  `json:"totalCount"`
}

// UserCreatedResponse is the POST /User body.
type UserCreatedResponse struct {
	Status Status `json:"status"`
	Value  string `json:"value"`
}

// NewListUsersRequest generates requests for ListUsers.
func NewListUsersRequest(server string, params *ListUsersParams) (*http.Request, error) {
	queryURL, err := operationURL(server, "/User")
	if err != nil {
		return nil, err
	}
	if params != nil {
		queryValues := queryURL.Query()
		if err := addQueryParam(queryValues, "filter", params.Filter); err != nil {
			return nil, err
		}
		if err := addQueryParam(queryValues, "pageNo", params.PageNo); err != nil {
			return nil, err
		}
		if err := addQueryParam(queryValues, "pageSize", params.PageSize); err != nil {
			return nil, err
		}
		queryURL.RawQuery = queryValues.Encode()
	}
	return http.NewRequest(http.MethodGet, queryURL.String(), nil)
}

// NewCreateUserRequest generates requests for CreateUser with a JSON body.
func NewCreateUserRequest(server string, body CreateUserJSONRequestBody) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	queryURL, err := operationURL(server, "/User")
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, queryURL.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	return req, nil
}

func operationURL(server, operationPath string) (*url.URL, error) {
	if !strings.HasSuffix(server, "/") {
		server += "/"
	}
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}
	if operationPath[0] == '/' {
		operationPath = "." + operationPath
	}
	return serverURL.Parse(operationPath)
}

func addQueryParam[T any](values url.Values, name string, value *T) error {
	if value == nil {
		return nil
	}
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, *value)
	if err != nil {
		return err
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return err
	}
	for k, v := range parsed {
		for _, v2 := range v {
			values.Add(k, v2)
		}
	}
	return nil
}

func do[T any](ctx context.Context, doer HttpRequestDoer, req *http.Request) (*T, *http.Response, error) {
	rsp, err := doer.Do(req.WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}
	defer rsp.Body.Close()
	raw, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, rsp, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, rsp, nil
	}
	var dest T
	if err := json.Unmarshal(raw, &dest); err != nil {
		if rsp.StatusCode >= http.StatusBadRequest {
			return nil, rsp, nil
		}
		return nil, rsp, fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return &dest, rsp, nil
}
