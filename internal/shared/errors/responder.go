package errors

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Respond sends problem with the problem+json content type. Instance defaults
// to the request path and RequestID to the X-Request-ID response header.
func Respond(c *gin.Context, problem ProblemDetail) {
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if problem.RequestID == "" {
		problem.RequestID = c.Writer.Header().Get("X-Request-ID")
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError sends err as-is when it is a ProblemDetail, otherwise as a 500.
func RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		Respond(c, problem)
		return
	}
	Respond(c, ErrInternal.WithDetail(err.Error()))
}

// NoRoute is the gin.NoRoute handler.
func NoRoute(c *gin.Context) {
	Respond(c, ErrNotFound.WithDetail(fmt.Sprintf("no route for %s %s", c.Request.Method, c.Request.URL.Path)))
}

// NoMethod is the gin.NoMethod handler.
func NoMethod(c *gin.Context) {
	Respond(c, ErrMethodNotAllowed.WithDetail(fmt.Sprintf("method %s is not supported on %s", c.Request.Method, c.Request.URL.Path)))
}
