// Package errors provides RFC 7807 Problem Details for responses outside the
// resource envelopes: unknown routes, unsupported methods and panics.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// RequestID correlates the problem with the access log.
	RequestID string `json:"requestId,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

const (
	TypeNotFound         = "/problems/not-found"
	TypeMethodNotAllowed = "/problems/method-not-allowed"
	TypeBadRequest       = "/problems/bad-request"
	TypeInternal         = "/problems/internal-error"
)

var (
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	ErrMethodNotAllowed = ProblemDetail{
		Type:   TypeMethodNotAllowed,
		Title:  "Method Not Allowed",
		Status: http.StatusMethodNotAllowed,
	}

	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}
)
