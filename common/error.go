package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type APIError struct {
	Status  int            `json:"-"`
	Message string         `json:"error"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e APIError) Error() string {
	return e.Message
}

func Errf(status int, format string, args ...any) APIError {
	return APIError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// NewAPIError creates an APIError with status, message, and optional fields
func NewAPIError(status int, message string, fields map[string]any) APIError {
	return APIError{
		Status:  status,
		Message: message,
		Fields:  fields,
	}
}

// Forbidden reports a missing or wrong role. current is "" when the
// request carried no usable role.
func Forbidden(required, current string) APIError {
	if current == "" {
		current = "none"
	}
	return NewAPIError(
		http.StatusForbidden,
		fmt.Sprintf("Forbidden: requires %s role", required),
		map[string]any{"role": current},
	)
}

// Conflict reports an action that is not valid for the current state.
func Conflict(format string, args ...any) APIError {
	return Errf(http.StatusConflict, format, args...)
}

// FromContext maps a canceled or expired context to a 408 APIError.
// It returns false for any other error.
func FromContext(err error) (APIError, bool) {
	switch {
	case errors.Is(err, context.Canceled):
		return Errf(http.StatusRequestTimeout, "request was canceled"), true
	case errors.Is(err, context.DeadlineExceeded):
		return Errf(http.StatusRequestTimeout, "request timeout"), true
	}
	return APIError{}, false
}
