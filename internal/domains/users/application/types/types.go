package types

import "github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"

// ListUsersInput carries the raw list query. Zero page values fall back to defaults.
type ListUsersInput struct {
	Filter   string
	PageNo   int
	PageSize int
}

// CreateUserInput carries the fields required to register a user.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
}

// UserPage is one page of a filtered user list plus the size of the whole filtered set.
type UserPage struct {
	Users      []*domain.User
	TotalCount int64
	PageNo     int
	PageSize   int
}
