// Package cache adds a Redis read-through cache in front of a users repository.
//
// Every cached page key embeds a generation counter. Inserting a user bumps the
// counter, so pages cached before the insert are never read again and simply expire.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
	"github.com/Apurer/go-gin-user-directory/internal/domains/users/ports"
)

const (
	keyPrefix     = "users:list:"
	generationKey = keyPrefix + "gen"

	// DefaultTTL bounds how long a page may be served after it was cached.
	DefaultTTL = 30 * time.Second
)

var _ ports.Repository = (*Repository)(nil)

// Repository decorates an inner repository. Cache failures are logged and bypassed.
type Repository struct {
	inner  ports.Repository
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*Repository)

func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New wraps inner. A nil client disables caching and returns inner unchanged.
func New(inner ports.Repository, client redis.Cmdable, opts ...Option) ports.Repository {
	if client == nil {
		return inner
	}
	r := &Repository{
		inner:  inner,
		client: client,
		ttl:    DefaultTTL,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

type cachedPage struct {
	Users []cachedUser `json:"users"`
	Total int64        `json:"total"`
}

type cachedUser struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	DateCreated time.Time `json:"date_created"`
}

// Insert delegates and then invalidates every cached page.
func (r *Repository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved, err := r.inner.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := r.client.Incr(ctx, generationKey).Err(); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to bump users cache generation", slog.String("error", err.Error()))
	}
	return saved, nil
}

func (r *Repository) Query(ctx context.Context, filter domain.Filter, skip, take int) ([]*domain.User, int64, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "users cache unavailable", slog.String("error", err.Error()))
		return r.inner.Query(ctx, filter, skip, take)
	}
	key := PageKey(gen, filter, skip, take)
	if users, total, ok := r.read(ctx, key); ok {
		return users, total, nil
	}
	users, total, err := r.inner.Query(ctx, filter, skip, take)
	if err != nil {
		return nil, 0, err
	}
	r.write(ctx, key, users, total)
	return users, total, nil
}

// EmailExists is never cached; duplicate detection must see the latest insert.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.inner.EmailExists(ctx, email)
}

// PageKey derives the cache key of one page within a generation.
func PageKey(gen int64, filter domain.Filter, skip, take int) string {
	sum := sha256.Sum256([]byte(filter.Text()))
	return fmt.Sprintf("%s%d:%s:%d:%d", keyPrefix, gen, hex.EncodeToString(sum[:8]), skip, take)
}

func (r *Repository) generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *Repository) read(ctx context.Context, key string) ([]*domain.User, int64, bool) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "users cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, 0, false
	}
	var page cachedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "users cache entry corrupt", slog.String("key", key), slog.String("error", err.Error()))
		return nil, 0, false
	}
	users := make([]*domain.User, 0, len(page.Users))
	for _, u := range page.Users {
		users = append(users, &domain.User{
			ID:          u.ID,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Email:       u.Email,
			DateCreated: u.DateCreated.UTC(),
		})
	}
	return users, page.Total, true
}

func (r *Repository) write(ctx context.Context, key string, users []*domain.User, total int64) {
	page := cachedPage{Users: make([]cachedUser, 0, len(users)), Total: total}
	for _, u := range users {
		page.Users = append(page.Users, cachedUser{
			ID:          u.ID,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Email:       u.Email,
			DateCreated: u.DateCreated,
		})
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.LogAttrs(ctx, slog.LevelWarn, "users cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
