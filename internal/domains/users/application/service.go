package application

import (
	"context"
	"strings"
	"time"

	usertypes "github.com/Apurer/go-gin-user-directory/internal/domains/users/application/types"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo ports.Repository
	now  func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithClock overrides the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListUsers returns one page of the users matching the filter text.
func (s *Service) ListUsers(ctx context.Context, input usertypes.ListUsersInput) (*usertypes.UserPage, error) {
	page := domain.PageRequest{PageNo: input.PageNo, PageSize: input.PageSize}.Normalize()
	users, total, err := s.repo.Query(ctx, domain.ParseFilter(input.Filter), page.Skip(), page.Take())
	if err != nil {
		return nil, MapError(err)
	}
	return &usertypes.UserPage{
		Users:      users,
		TotalCount: total,
		PageNo:     page.PageNo,
		PageSize:   page.PageSize,
	}, nil
}

// CreateUser validates the input, rejects known emails and inserts the user.
// The existence check is only a fast path: repositories enforce uniqueness on insert.
func (s *Service) CreateUser(ctx context.Context, input usertypes.CreateUserInput) (string, error) {
	user, err := domain.NewUser(input.FirstName, input.LastName, input.Email)
	if err != nil {
		return "", MapError(err)
	}
	exists, err := s.repo.EmailExists(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return "", MapError(err)
	}
	if exists {
		return "", MapError(domain.ErrEmailExists)
	}
	user.Stamp(s.now())
	saved, err := s.repo.Insert(ctx, user)
	if err != nil {
		return "", MapError(err)
	}
	return saved.ID, nil
}

var _ ports.Service = (*Service)(nil)
