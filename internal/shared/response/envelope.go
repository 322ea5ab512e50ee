// Package response holds the status envelope returned by the resource endpoints.
package response

// Status reports the outcome of a call alongside its payload.
type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Response wraps a single value.
type Response[T any] struct {
	Status Status `json:"status"`
	Value  T      `json:"value"`
}

// PaginatedResponse wraps one page of values and the size of the full result set.
type PaginatedResponse[T any] struct {
	Status     Status `json:"status"`
	Value      []T    `json:"value"`
	TotalCount int64  `json:"totalCount"`
}

// Failure is the envelope for a rejected call that carries no value.
type Failure struct {
	Status Status `json:"status"`
}

func OK[T any](message string, value T) Response[T] {
	return Response[T]{Status: Status{Success: true, Message: message}, Value: value}
}

func Page[T any](message string, values []T, total int64) PaginatedResponse[T] {
	if values == nil {
		values = []T{}
	}
	return PaginatedResponse[T]{Status: Status{Success: true, Message: message}, Value: values, TotalCount: total}
}

// PageFailure keeps the list shape with a null value and a zero count.
func PageFailure[T any](message string) PaginatedResponse[T] {
	return PaginatedResponse[T]{Status: Status{Message: message}}
}

func Fail(message string) Failure {
	return Failure{Status: Status{Message: message}}
}
