package controller

import (
	"errors"
	"net/http"

	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
)

const internalErrorMessage = "internal server error"

// statusFor maps ledger errors to HTTP statuses. Anything unrecognised is a storage
// or infrastructure failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrNegativeInitialBalance),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// failure builds the envelope for a ledger error. Internal failures are not echoed.
func failure[T any](err error) (int, commons.Response[T]) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return status, commons.ErrorResponse[T](internalErrorMessage)
	}
	return status, commons.ErrorResponse[T](err.Error())
}

func methodNotAllowed[T any]() commons.Response[T] {
	return commons.ErrorResponse[T]("method not allowed")
}
