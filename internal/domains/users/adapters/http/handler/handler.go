// Package handler serves the /User resource over gin.
package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	usermapper "github.com/Apurer/go-gin-user-directory/internal/domains/users/adapters/http/mapper"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
	"github.com/Apurer/go-gin-user-directory/internal/shared/response"
)

const (
	MessageUsersRetrieved = "Users retrieved"
	MessageUserCreated    = "User was created successfully"
)

// UserAPI implements GET and POST /User.
type UserAPI struct {
	service   userports.Service
	workflows userports.WorkflowOrchestrator
	logger    *slog.Logger
}

type Option func(*UserAPI)

func WithLogger(logger *slog.Logger) Option {
	return func(api *UserAPI) { api.logger = logger }
}

// NewUserAPI wires dependencies. Creates go through workflows so they can run durably.
func NewUserAPI(service userports.Service, workflows userports.WorkflowOrchestrator, opts ...Option) *UserAPI {
	api := &UserAPI{service: service, workflows: workflows}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	if api.logger == nil {
		api.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return api
}

// RegisterRoutes mounts the resource on r.
func (api *UserAPI) RegisterRoutes(r gin.IRoutes) {
	r.GET("/User", api.ListUsers)
	r.POST("/User", api.CreateUser)
}

// Get /User
// Lists users matching filter, one page at a time
func (api *UserAPI) ListUsers(c *gin.Context) {
	var params usermapper.ListUsersParams
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "filter", query, &params.Filter); err != nil {
		c.JSON(http.StatusBadRequest, response.PageFailure[usermapper.User](fmt.Sprintf("Invalid format for parameter filter: %s", err)))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageNo", query, &params.PageNo); err != nil {
		c.JSON(http.StatusBadRequest, response.PageFailure[usermapper.User](fmt.Sprintf("Invalid format for parameter pageNo: %s", err)))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", query, &params.PageSize); err != nil {
		c.JSON(http.StatusBadRequest, response.PageFailure[usermapper.User](fmt.Sprintf("Invalid format for parameter pageSize: %s", err)))
		return
	}

	page, err := api.service.ListUsers(c.Request.Context(), usermapper.ToListInput(params))
	if err != nil {
		api.logger.LogAttrs(c.Request.Context(), slog.LevelError, "list users failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, response.PageFailure[usermapper.User](ErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, response.Page(MessageUsersRetrieved, usermapper.FromDomainUsers(page.Users), page.TotalCount))
}

// Post /User
// Creates a user
func (api *UserAPI) CreateUser(c *gin.Context) {
	var payload usermapper.CreateUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}
	id, err := api.workflows.CreateUser(c.Request.Context(), usermapper.ToCreateInput(payload))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(ErrorMessage(err)))
		return
	}
	c.JSON(http.StatusOK, response.OK(MessageUserCreated, id))
}

// ErrorMessage renders err for the status envelope. Domain rejections keep their
// literal text; anything else is the error followed by its cause on a new line.
func ErrorMessage(err error) string {
	for _, sentinel := range []error{domain.ErrEmailRequired, domain.ErrNameRequired, domain.ErrEmailExists} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	msg := err.Error()
	if cause := errors.Unwrap(err); cause != nil {
		msg += "\n" + cause.Error()
	}
	return msg
}
