package users

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
)

const (
	// CreateUserActivityName persists a new user through the application service.
	CreateUserActivityName = "users.activities.CreateUser"

	ErrTypeEmailRequired = "users.EmailRequired"
	ErrTypeNameRequired  = "users.NameRequired"
	ErrTypeEmailExists   = "users.EmailExists"
)

var errorTypes = []struct {
	sentinel error
	name     string
}{
	{domain.ErrEmailRequired, ErrTypeEmailRequired},
	{domain.ErrNameRequired, ErrTypeNameRequired},
	{domain.ErrEmailExists, ErrTypeEmailExists},
}

// Activities groups activities that operate on the users bounded context.
type Activities struct {
	service userports.Service
}

func NewActivities(service userports.Service) *Activities {
	return &Activities{service: service}
}

// CreateUser stores a new user and returns its identifier. Rejections are
// non-retryable so the workflow fails fast with a typed error.
func (a *Activities) CreateUser(ctx context.Context, input usertypes.CreateUserInput) (string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("user create activity not initialized")
		return "", errors.New("user create activity not initialized")
	}
	logger.Info("CreateUser activity started")
	id, err := a.service.CreateUser(ctx, input)
	if err != nil {
		logger.Error("CreateUser activity failed", "error", err)
		return "", ToApplicationError(err)
	}
	logger.Info("CreateUser activity completed", "userId", id)
	return id, nil
}

// ToApplicationError converts domain rejections into non-retryable Temporal errors.
// Other errors are returned unchanged and retried by the activity policy.
func ToApplicationError(err error) error {
	for _, et := range errorTypes {
		if errors.Is(err, et.sentinel) {
			return temporal.NewNonRetryableApplicationError(et.sentinel.Error(), et.name, nil)
		}
	}
	return err
}

// FromApplicationError returns the domain sentinel carried by a typed Temporal
// error, or nil when err carries none.
func FromApplicationError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return nil
	}
	for _, et := range errorTypes {
		if appErr.Type() == et.name {
			return et.sentinel
		}
	}
	return nil
}
