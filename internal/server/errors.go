// Package server provides the HTTP REST API for EZResume.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/ezresume/internal/builder"
	"github.com/jonathan/ezresume/internal/generate"
	"github.com/jonathan/ezresume/internal/onboarding"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, onboarding.ErrSaveInProgress),
		errors.Is(err, builder.ErrSaveInProgress):
		return http.StatusConflict
	case errors.Is(err, onboarding.ErrOnboardingComplete),
		errors.Is(err, onboarding.ErrNotAtFinalStep):
		return http.StatusConflict
	case errors.Is(err, builder.ErrResumeNotFound):
		return http.StatusNotFound
	case errors.Is(err, builder.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, generate.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
