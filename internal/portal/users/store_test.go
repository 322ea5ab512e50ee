package users

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userclient "github.com/Apurer/go-gin-user-directory/internal/clients/http/users"
)

type listCall struct {
	params userclient.ListUsersParams
	result chan listResult
}

type listResult struct {
	page *userclient.Page
	err  error
}

type fakeAPI struct {
	mu        sync.Mutex
	lists     []userclient.ListUsersParams
	pending   chan listCall
	page      *userclient.Page
	listErr   error
	createErr error
	onCreate  func()
}

func (f *fakeAPI) ListUsers(_ context.Context, params userclient.ListUsersParams) (*userclient.Page, error) {
	f.mu.Lock()
	f.lists = append(f.lists, params)
	pending := f.pending
	f.mu.Unlock()
	if pending != nil {
		call := listCall{params: params, result: make(chan listResult)}
		pending <- call
		res := <-call.result
		return res.page, res.err
	}
	return f.page, f.listErr
}

func (f *fakeAPI) CreateUser(context.Context, userclient.CreateUserJSONRequestBody) (string, error) {
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.createErr != nil {
		return "", f.createErr
	}
	return "id-1", nil
}

func TestStoreFetch(t *testing.T) {
	api := &fakeAPI{page: &userclient.Page{Users: []userclient.User{{ID: "a"}, {ID: "b"}}, TotalCount: 12}}
	store := NewStore(api)
	store.SetFilter("  jo ")
	store.SetPageNumber(2)

	st := store.Fetch(context.Background())
	assert.False(t, st.Loading)
	assert.EqualValues(t, 12, st.TotalCount)
	assert.Len(t, st.Users, 2)

	require.Len(t, api.lists, 1)
	assert.Equal(t, "  jo ", *api.lists[0].Filter)
	assert.Equal(t, 2, *api.lists[0].PageNo)
	assert.Equal(t, 30, *api.lists[0].PageSize)
}

func TestStoreFetchOmitsBlankFilter(t *testing.T) {
	api := &fakeAPI{page: &userclient.Page{}}
	NewStore(api).Fetch(context.Background())
	store := NewStore(api)
	store.SetFilter("   ")
	store.Fetch(context.Background())
	require.Len(t, api.lists, 2)
	assert.Nil(t, api.lists[0].Filter)
	assert.Nil(t, api.lists[1].Filter)
}

func TestStoreFetchFailure(t *testing.T) {
	api := &fakeAPI{listErr: &userclient.APIError{StatusCode: 400, Message: "db down"}}
	st := NewStore(api).Fetch(context.Background())
	assert.Equal(t, "db down", st.Error)
	assert.Zero(t, st.TotalCount)
	assert.False(t, st.Loading)

	api.listErr = errors.New("dial tcp: connection refused")
	st = NewStore(api).Fetch(context.Background())
	assert.Equal(t, "dial tcp: connection refused", st.Error)
}

func TestStoreDropsStaleResponses(t *testing.T) {
	api := &fakeAPI{pending: make(chan listCall)}
	store := NewStore(api)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.SetFilter("old")
		store.Fetch(context.Background())
	}()
	first := <-api.pending

	wg.Add(1)
	go func() {
		defer wg.Done()
		store.SetFilter("new")
		store.Fetch(context.Background())
	}()
	second := <-api.pending

	second.result <- listResult{page: &userclient.Page{Users: []userclient.User{{ID: "new"}}, TotalCount: 1}}
	first.result <- listResult{page: &userclient.Page{Users: []userclient.User{{ID: "old"}}, TotalCount: 50}}
	wg.Wait()

	st := store.Snapshot()
	assert.EqualValues(t, 1, st.TotalCount)
	require.Len(t, st.Users, 1)
	assert.Equal(t, "new", st.Users[0].ID)
	assert.False(t, st.Loading)
}

func TestStoreResetDiscardsInFlightFetch(t *testing.T) {
	api := &fakeAPI{pending: make(chan listCall)}
	store := NewStore(api)
	store.SetPageNumber(3)

	done := make(chan State)
	go func() { done <- store.Fetch(context.Background()) }()
	call := <-api.pending

	reset := store.Reset()
	assert.Equal(t, DefaultPageNo, reset.PageNumber)
	assert.False(t, reset.Loading)

	call.result <- listResult{page: &userclient.Page{Users: []userclient.User{{ID: "stale"}}, TotalCount: 99}}
	<-done

	st := store.Snapshot()
	assert.Empty(t, st.Users)
	assert.Zero(t, st.TotalCount)
	assert.False(t, st.Loading)

	api.pending = nil
	api.page = &userclient.Page{Users: []userclient.User{{ID: "fresh"}}, TotalCount: 1}
	st = store.Fetch(context.Background())
	require.Len(t, st.Users, 1)
	assert.Equal(t, "fresh", st.Users[0].ID)
}

func TestStoreCreateRefreshesWithCompletionState(t *testing.T) {
	api := &fakeAPI{page: &userclient.Page{TotalCount: 1}}
	store := NewStore(api)
	store.SetPageNumber(1)
	api.onCreate = func() {
		store.SetPageNumber(4)
		store.SetFilter("ann")
	}

	st := store.Create(context.Background(), userclient.CreateUserJSONRequestBody{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"})
	assert.Equal(t, CreateFulfilled, st.CreateStatus)
	require.Len(t, api.lists, 1)
	assert.Equal(t, 4, *api.lists[0].PageNo)
	assert.Equal(t, "ann", *api.lists[0].Filter)
	assert.EqualValues(t, 1, st.TotalCount)
}

func TestStoreCreateFailure(t *testing.T) {
	api := &fakeAPI{createErr: &userclient.APIError{StatusCode: 400, Message: "The email is already exist"}}
	store := NewStore(api)

	st := store.Create(context.Background(), userclient.CreateUserJSONRequestBody{})
	assert.Equal(t, CreateRejected, st.CreateStatus)
	assert.True(t, st.IsDuplicateEmail())
	assert.Empty(t, api.lists)

	st = store.ResetCreateStatus()
	assert.Equal(t, CreateIdle, st.CreateStatus)
	st = store.ResetError()
	assert.False(t, st.IsDuplicateEmail())
}
