package commons

import "strings"

// Response is the JSON envelope returned by every ledger endpoint.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// ValidationResponse lists each problem of a request Validate error separately.
// Validate joins its problems with "; ".
func ValidationResponse[T any](err error) Response[T] {
	var problems []string
	for _, part := range strings.Split(err.Error(), "; ") {
		if part = strings.TrimSpace(part); part != "" {
			problems = append(problems, part)
		}
	}
	return ErrorResponse[T]("validation failed", problems...)
}
