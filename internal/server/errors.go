// Package server provides the HTTP REST API for the portfolio.
package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates the requested record does not exist.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrAuthDisabled indicates that no admin account is configured.
type ErrAuthDisabled struct{}

func (e *ErrAuthDisabled) Error() string {
	return "admin login is not configured"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound   *ErrNotFound
		badCreds   *ErrInvalidCredentials
		disabled   *ErrAuthDisabled
		validation *ErrValidation
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badCreds):
		return http.StatusUnauthorized
	case errors.As(err, &disabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
