package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps the error taxonomy onto HTTP status codes. Anything not
// recognised is a storage or programming failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, delivery.ErrInvalidCode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ports.ErrThrottled):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrNoEligibleDriver),
		errors.Is(err, delivery.ErrAlreadyClaimed),
		errors.Is(err, delivery.ErrInvalidTransition),
		errors.Is(err, delivery.ErrInvalidState),
		errors.Is(err, delivery.ErrAlreadyRated),
		errors.Is(err, driver.ErrDriverUnavailable),
		errors.Is(err, driver.ErrAccountAlreadyRegistered):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		ctx.Logger().Error(err)
		message = http.StatusText(code)
	}
	return ctx.JSON(code, servers.Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: message})
}
