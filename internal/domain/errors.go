package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// BadFieldError reports input the caller has to fix before anything is sent
// to the service. Record, when set, is the offending entity's wire form.
type BadFieldError struct {
	Message string
	Record  map[string]any
}

func NewBadFieldError(msg string, record map[string]any) *BadFieldError {
	return &BadFieldError{Message: msg, Record: record}
}

func (e *BadFieldError) Error() string {
	if e.Record == nil {
		return e.Message
	}
	b, err := json.Marshal(e.Record)
	if err != nil {
		return e.Message
	}
	return e.Message + " " + string(b)
}

// APIError is a non-2xx response from the planner or dashboard.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Return HTTP Code %d : %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
