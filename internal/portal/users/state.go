// Package users holds the client-side state of the user directory portal:
// the current page, filter and rows, and the status of the last create.
package users

import (
	"strings"

	userclient "github.com/Apurer/go-gin-user-directory/internal/clients/http/users"
)

const (
	DefaultPageSize = 30
	DefaultPageNo   = 1

	DefaultFetchError  = "An error occurred while fetching data"
	DefaultCreateError = "An error occurred while creating a User"

	duplicateEmailMessage = "The email is already exist"
)

// CreateStatus tracks the last create request.
type CreateStatus string

const (
	CreateIdle      CreateStatus = "idle"
	CreatePending   CreateStatus = "pending"
	CreateFulfilled CreateStatus = "fulfilled"
	CreateRejected  CreateStatus = "rejected"
)

// State is an immutable snapshot. Transitions return a new value.
type State struct {
	Init         bool
	Users        []userclient.User
	TotalCount   int64
	PageNumber   int
	PageSize     int
	Loading      bool
	Filter       string
	CreateStatus CreateStatus
	Error        string

	fetchSeq uint64
}

func InitialState() State {
	return State{
		PageNumber:   DefaultPageNo,
		PageSize:     DefaultPageSize,
		CreateStatus: CreateIdle,
	}
}

// FetchSeq is the sequence token of the latest issued fetch.
func (s State) FetchSeq() uint64 { return s.fetchSeq }

func (s State) FetchStarted(seq uint64) State {
	s.Loading = true
	s.Error = ""
	s.fetchSeq = seq
	return s
}

// FetchSucceeded applies page unless a newer fetch was issued after seq.
func (s State) FetchSucceeded(seq uint64, page userclient.Page) State {
	if seq != s.fetchSeq {
		return s
	}
	s.Users = page.Users
	s.TotalCount = page.TotalCount
	s.Loading = false
	s.Error = ""
	return s
}

func (s State) FetchFailed(seq uint64, msg string) State {
	if seq != s.fetchSeq {
		return s
	}
	s.Loading = false
	s.TotalCount = 0
	s.Error = orDefault(msg, DefaultFetchError)
	return s
}

func (s State) CreateStarted() State {
	s.CreateStatus = CreatePending
	s.Error = ""
	return s
}

func (s State) CreateSucceeded() State {
	s.CreateStatus = CreateFulfilled
	s.Error = ""
	return s
}

func (s State) CreateFailed(msg string) State {
	s.CreateStatus = CreateRejected
	s.Error = orDefault(msg, DefaultCreateError)
	return s
}

func (s State) ResetCreateStatus() State {
	s.CreateStatus = CreateIdle
	return s
}

func (s State) ResetError() State {
	s.Error = ""
	return s
}

// Reset returns the initial state. The fetch sequence survives; Store.Reset
// advances it so responses issued before the reset are discarded.
func (s State) Reset() State {
	seq := s.fetchSeq
	s = InitialState()
	s.fetchSeq = seq
	return s
}

func (s State) MarkInitialized() State {
	s.Init = true
	return s
}

func (s State) SetPageSize(size int) State {
	if size <= 0 {
		size = DefaultPageSize
	}
	s.PageSize = size
	return s
}

func (s State) SetPageNumber(page int) State {
	if page <= 0 {
		page = DefaultPageNo
	}
	s.PageNumber = page
	return s
}

func (s State) SetFilter(filter string) State {
	s.Filter = filter
	return s
}

// IsDuplicateEmail reports whether the last error is the server's duplicate email rejection.
func (s State) IsDuplicateEmail() bool {
	return s.Error == duplicateEmailMessage
}

func orDefault(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
