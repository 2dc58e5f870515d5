package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

// ErrorStatus maps a ledger error to its HTTP status and client message.
// known is false for errors the ledger did not classify; those must not be
// echoed to the client.
func ErrorStatus(err error) (code int, msg string, known bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, domain.ErrEmailTaken.Error(), true
	case errors.Is(err, domain.ErrSelfVote):
		return http.StatusForbidden, domain.ErrSelfVote.Error(), true
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error(), true
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusServiceUnavailable, "changes could not be saved, try again", true
	}
	return http.StatusInternalServerError, "internal server error", false
}

// fail renders a classified ledger error and hands anything else to the
// central error handler.
func fail(c echo.Context, err error) error {
	code, msg, known := ErrorStatus(err)
	if !known {
		return err
	}
	return c.JSON(code, errorResponse{Error: msg})
}
