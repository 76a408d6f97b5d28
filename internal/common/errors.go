package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("invalid ID or PIN")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict") // e.g., userID already taken
	ErrInternalServer     = errors.New("internal server error")
	ErrValidation         = errors.New("validation failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrStore              = errors.New("store unavailable")
	ErrStoreTimeout       = errors.New("store timed out")
	ErrNotify             = errors.New("notification delivery failed")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrStoreTimeout) || errors.Is(err, ErrServiceUnavailable) {
		return http.StatusServiceUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // Unique violation
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to show a caller. Server side
// failures never expose their cause.
func PublicMessage(err error) string {
	status := HTTPStatusFromError(err)
	switch {
	case status == http.StatusServiceUnavailable:
		return ErrServiceUnavailable.Error()
	case status >= http.StatusInternalServerError:
		return ErrInternalServer.Error()
	case status == http.StatusUnauthorized:
		return ErrUnauthorized.Error()
	}
	return err.Error()
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Validationf wraps ErrValidation with a field-level message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
