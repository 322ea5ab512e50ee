package ports

import (
	"context"

	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
)

// Repository is the storage collaborator required by the users context.
type Repository interface {
	// Insert stores a new user, assigning its identifier. Implementations must
	// reject a duplicate email with domain.ErrEmailExists.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	// Query returns the users matching filter, newest first, after skipping skip
	// rows and taking at most take, together with the filtered total.
	Query(ctx context.Context, filter domain.Filter, skip, take int) ([]*domain.User, int64, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
