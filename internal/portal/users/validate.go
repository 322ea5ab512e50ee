package users

import (
	"errors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)

var (
	ErrFirstNameRequired = errors.New("First name is required")
	ErrLastNameRequired  = errors.New("Last name is required")
	ErrEmailInvalid      = errors.New("Email is invalid")
)

// ValidateEmail reports whether email has the shape accepted by the create form.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateCreate checks the create form before a request is sent.
func ValidateCreate(firstName, lastName, email string) error {
	var errs []error
	if strings.TrimSpace(firstName) == "" {
		errs = append(errs, ErrFirstNameRequired)
	}
	if strings.TrimSpace(lastName) == "" {
		errs = append(errs, ErrLastNameRequired)
	}
	if !ValidateEmail(strings.TrimSpace(email)) {
		errs = append(errs, ErrEmailInvalid)
	}
	return errors.Join(errs...)
}
