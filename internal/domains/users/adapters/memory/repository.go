package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user persistence adapter.
type Repository struct {
	mu      sync.RWMutex
	users   []*domain.User
	byEmail map[string]struct{}
}

func NewRepository() *Repository {
	return &Repository{byEmail: map[string]struct{}{}}
}

// Insert assigns an identifier and appends the user. The email check runs under
// the write lock, so concurrent inserts of one email cannot both succeed.
func (r *Repository) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrEmailExists
	}
	clone := *user
	clone.ID = uuid.NewString()
	r.users = append(r.users, &clone)
	r.byEmail[clone.Email] = struct{}{}
	out := clone
	return &out, nil
}

func (r *Repository) Query(_ context.Context, filter domain.Filter, skip, take int) ([]*domain.User, int64, error) {
	r.mu.RLock()
	matched := make([]*domain.User, 0, len(r.users))
	for _, user := range r.users {
		if filter.Matches(user) {
			clone := *user
			matched = append(matched, &clone)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.DateCreated.Equal(b.DateCreated) {
			return a.DateCreated.After(b.DateCreated)
		}
		return a.ID > b.ID
	})

	total := int64(len(matched))
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return []*domain.User{}, total, nil
	}
	end := len(matched)
	if take >= 0 && skip+take < end {
		end = skip + take
	}
	return matched[skip:end], total, nil
}

func (r *Repository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

// Reset drops every stored user.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = nil
	r.byEmail = map[string]struct{}{}
}
