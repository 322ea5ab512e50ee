package ports

import (
	"context"

	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
)

// WorkflowOrchestrator runs user creation, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	CreateUser(ctx context.Context, input usertypes.CreateUserInput) (string, error)
}
