package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	userclient "github.com/Apurer/go-gin-user-directory/internal/clients/http/users"
)

// API is the subset of the users client the store depends on.
type API interface {
	ListUsers(ctx context.Context, params userclient.ListUsersParams) (*userclient.Page, error)
	CreateUser(ctx context.Context, body userclient.CreateUserJSONRequestBody) (string, error)
}

// Store is the single source of truth for the portal. Transitions are
// serialized; fetch responses that arrive after a newer fetch was issued are dropped.
type Store struct {
	api    API
	logger *slog.Logger

	mu    sync.Mutex
	state State
	seq   uint64
}

type StoreOption func(*Store)

func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

func NewStore(api API, opts ...StoreOption) *Store {
	s := &Store{api: api, state: InitialState()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) apply(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

func (s *Store) SetPageSize(size int) State {
	return s.apply(func(st State) State { return st.SetPageSize(size) })
}

func (s *Store) SetPageNumber(page int) State {
	return s.apply(func(st State) State { return st.SetPageNumber(page) })
}

func (s *Store) SetFilter(filter string) State {
	return s.apply(func(st State) State { return st.SetFilter(filter) })
}

func (s *Store) MarkInitialized() State   { return s.apply(State.MarkInitialized) }
func (s *Store) ResetError() State        { return s.apply(State.ResetError) }
func (s *Store) ResetCreateStatus() State { return s.apply(State.ResetCreateStatus) }

// Reset restores the initial state and invalidates every fetch still in flight.
func (s *Store) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = s.state.Reset()
	s.state.fetchSeq = s.seq
	return s.state
}

// Fetch loads the page described by the state at call time.
func (s *Store) Fetch(ctx context.Context) State {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = s.state.FetchStarted(seq)
	params := listParams(s.state)
	s.mu.Unlock()

	page, err := s.api.ListUsers(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.state.fetchSeq {
		s.logger.Debug("dropping stale users page", slog.Uint64("seq", seq), slog.Uint64("latest", s.state.fetchSeq))
		return s.state
	}
	if err != nil {
		s.logger.Warn("fetch users failed", slog.String("error", err.Error()))
		s.state = s.state.FetchFailed(seq, errorMessage(err))
		return s.state
	}
	s.state = s.state.FetchSucceeded(seq, *page)
	return s.state
}

// Create registers a user and, on success, refreshes the list using the page,
// size and filter current when the create completes.
func (s *Store) Create(ctx context.Context, body userclient.CreateUserJSONRequestBody) State {
	s.apply(State.CreateStarted)
	if _, err := s.api.CreateUser(ctx, body); err != nil {
		s.logger.Warn("create user failed", slog.String("error", err.Error()))
		return s.apply(func(st State) State { return st.CreateFailed(errorMessage(err)) })
	}
	s.apply(State.CreateSucceeded)
	return s.Fetch(ctx)
}

func listParams(st State) userclient.ListUsersParams {
	pageNo, pageSize := st.PageNumber, st.PageSize
	params := userclient.ListUsersParams{PageNo: &pageNo, PageSize: &pageSize}
	if strings.TrimSpace(st.Filter) != "" {
		filter := st.Filter
		params.Filter = &filter
	}
	return params
}

func errorMessage(err error) string {
	var apiErr *userclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
