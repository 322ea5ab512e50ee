package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-user-directory/internal/domains/users/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrConflict signals the request collides with an existing user.
	ErrConflict = errors.New("user conflict")
)

// MapError classifies domain sentinels under ErrInvalidInput or ErrConflict.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrConflict) {
		return err
	}
	if errors.Is(err, domain.ErrEmailRequired) ||
		errors.Is(err, domain.ErrNameRequired) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrEmailExists) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
