package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermemory "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/memory"
	userworkflows "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/workflows"
	userapp "github.com/Apurer/go-gin-user-directory/internal/domains/users/application"
	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
)

type envelope struct {
	Status struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	} `json:"status"`
	Value      json.RawMessage `json:"value"`
	TotalCount int64           `json:"totalCount"`
}

type wireUser struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	DateCreated string `json:"date_created"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *userapp.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc := userapp.NewService(usermemory.NewRepository(), userapp.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}))
	router := gin.New()
	NewUserAPI(svc, userworkflows.NewInlineUserWorkflows(svc)).RegisterRoutes(router)
	return router, svc
}

func do(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func seed(t *testing.T, svc *userapp.Service, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := svc.CreateUser(context.Background(), usertypes.CreateUserInput{
			FirstName: fmt.Sprintf("User%02d", i),
			LastName:  "Test",
			Email:     fmt.Sprintf("user%02d@example.com", i),
		})
		require.NoError(t, err)
	}
}

func TestCreateUserSuccess(t *testing.T) {
	router, _ := newTestRouter(t)
	rec, env := do(t, router, http.MethodPost, "/User", `{"first_name":"Ann","last_name":"Lee","email":"ann@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status.Success)
	assert.Equal(t, MessageUserCreated, env.Status.Message)
	var id string
	require.NoError(t, json.Unmarshal(env.Value, &id))
	assert.NotEmpty(t, id)
}

func TestCreateUserRejections(t *testing.T) {
	router, _ := newTestRouter(t)
	_, env := do(t, router, http.MethodPost, "/User", `{"first_name":"Ann","last_name":"Lee","email":"ann@example.com"}`)
	require.True(t, env.Status.Success)

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "null email", body: `{"first_name":"Bo","last_name":"Li","email":null}`, want: "Email cannot be null"},
		{name: "empty body", body: ``, want: "Email cannot be null"},
		{name: "missing names", body: `{"email":"bo@example.com"}`, want: "First/Last name cannot be null"},
		{name: "duplicate email", body: `{"first_name":"Ann","last_name":"Other","email":" ann@example.com"}`, want: "The email is already exist"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := do(t, router, http.MethodPost, "/User", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Status.Success)
			assert.Equal(t, tc.want, env.Status.Message)
			assert.Empty(t, env.Value)
		})
	}
}

func TestListUsersPagination(t *testing.T) {
	router, svc := newTestRouter(t)
	seed(t, svc, 25)

	rec, env := do(t, router, http.MethodGet, "/User?pageNo=2&pageSize=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status.Success)
	assert.Equal(t, MessageUsersRetrieved, env.Status.Message)
	assert.EqualValues(t, 25, env.TotalCount)

	var users []wireUser
	require.NoError(t, json.Unmarshal(env.Value, &users))
	require.Len(t, users, 10)
	assert.Equal(t, "User15", users[0].FirstName)
	assert.Equal(t, "User06", users[9].FirstName)
	assert.True(t, strings.HasSuffix(users[0].DateCreated, "Z"))
}

func TestListUsersDefaultsAndFilter(t *testing.T) {
	router, svc := newTestRouter(t)
	seed(t, svc, 3)
	_, err := svc.CreateUser(context.Background(), usertypes.CreateUserInput{FirstName: "Ann", LastName: "Lee", Email: "other@x.com"})
	require.NoError(t, err)

	_, env := do(t, router, http.MethodGet, "/User?pageNo=0&pageSize=0", "")
	assert.EqualValues(t, 4, env.TotalCount)

	_, env = do(t, router, http.MethodGet, "/User?filter=ann@", "")
	assert.EqualValues(t, 0, env.TotalCount)
	assert.JSONEq(t, `[]`, string(env.Value))

	_, env = do(t, router, http.MethodGet, "/User?filter=OTHER@", "")
	assert.EqualValues(t, 1, env.TotalCount)

	_, env = do(t, router, http.MethodGet, "/User?filter=ann%20l", "")
	assert.EqualValues(t, 1, env.TotalCount)
}

func TestListUsersMalformedPageNo(t *testing.T) {
	router, _ := newTestRouter(t)
	rec, env := do(t, router, http.MethodGet, "/User?pageNo=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Status.Success)
	assert.Contains(t, env.Status.Message, "pageNo")
	assert.Equal(t, "null", string(env.Value))
	assert.Zero(t, env.TotalCount)
}

type failingService struct{ err error }

func (f failingService) ListUsers(context.Context, usertypes.ListUsersInput) (*usertypes.UserPage, error) {
	return nil, f.err
}

func (f failingService) CreateUser(context.Context, usertypes.CreateUserInput) (string, error) {
	return "", f.err
}

func TestStorageFailureSurfacesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cause := errors.New("connection refused")
	svc := failingService{err: fmt.Errorf("query users: %w", cause)}
	router := gin.New()
	NewUserAPI(svc, svc).RegisterRoutes(router)

	rec, env := do(t, router, http.MethodGet, "/User", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "query users: connection refused\nconnection refused", env.Status.Message)
	assert.Equal(t, "null", string(env.Value))

	rec, env = do(t, router, http.MethodPost, "/User", `{"first_name":"a","last_name":"b","email":"c@d.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "query users: connection refused\nconnection refused", env.Status.Message)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom")))
	assert.Equal(t, "The email is already exist", ErrorMessage(fmt.Errorf("%w: %w", userapp.ErrConflict, domain.ErrEmailExists)))
	assert.Equal(t, "Email cannot be null", ErrorMessage(fmt.Errorf("%w: %w", userapp.ErrInvalidInput, domain.ErrEmailRequired)))
}
