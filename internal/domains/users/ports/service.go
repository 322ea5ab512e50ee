package ports

import (
	"context"

	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	ListUsers(ctx context.Context, input usertypes.ListUsersInput) (*usertypes.UserPage, error)
	CreateUser(ctx context.Context, input usertypes.CreateUserInput) (string, error)
}
