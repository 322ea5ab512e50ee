package mapper

import (
	"strings"
	"time"

	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
	userdomain "github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
)

// User is the wire projection of a directory user.
type User struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	DateCreated string `json:"date_created"`
}

// CreateUserRequest is the POST /User body. Null and missing fields are both treated as absent.
type CreateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
}

// ListUsersParams are the GET /User query parameters.
type ListUsersParams struct {
	Filter   *string `form:"filter" json:"filter,omitempty"`
	PageNo   *int    `form:"pageNo" json:"pageNo,omitempty"`
	PageSize *int    `form:"pageSize" json:"pageSize,omitempty"`
}

// ToCreateInput converts the request body to the application input.
func ToCreateInput(req CreateUserRequest) usertypes.CreateUserInput {
	return usertypes.CreateUserInput{
		FirstName: deref(req.FirstName),
		LastName:  deref(req.LastName),
		Email:     deref(req.Email),
	}
}

// ToListInput converts bound query parameters to the application input.
// Whitespace-only filters mean no filter; any other text is kept verbatim.
func ToListInput(params ListUsersParams) usertypes.ListUsersInput {
	var input usertypes.ListUsersInput
	if filter := deref(params.Filter); strings.TrimSpace(filter) != "" {
		input.Filter = filter
	}
	if params.PageNo != nil {
		input.PageNo = *params.PageNo
	}
	if params.PageSize != nil {
		input.PageSize = *params.PageSize
	}
	return input
}

// FromDomainUser converts a domain user into its wire representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		DateCreated: user.DateCreated.UTC().Format(time.RFC3339),
	}
}

// FromDomainUsers converts a slice of domain users to the wire representation.
func FromDomainUsers(users []*userdomain.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
