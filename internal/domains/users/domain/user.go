package domain

import (
	"errors"
	"strings"
	"time"
)

// Validation and conflict messages are part of the wire contract; clients match on them.
var (
	ErrEmailRequired = errors.New("Email cannot be null")
	ErrNameRequired  = errors.New("First/Last name cannot be null")
	ErrEmailExists   = errors.New("The email is already exist")
)

// User represents a directory user. Users are created once and never mutated.
type User struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	DateCreated time.Time
}

// NewUser builds an unsaved user, checking the email first and the names second.
func NewUser(firstName, lastName, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, ErrNameRequired
	}
	return &User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}, nil
}

// FullName joins first and last name with a single space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Stamp sets the creation timestamp in UTC. It is a no-op once set.
func (u *User) Stamp(now time.Time) {
	if !u.DateCreated.IsZero() {
		return
	}
	u.DateCreated = now.UTC()
}
