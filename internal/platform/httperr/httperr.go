// Package httperr defines the error taxonomy shared by all handlers and the
// echo error handler that renders every failure as {"error": message}.
package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error is a typed request failure carrying the HTTP status to return.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Unauthenticated(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Access Denied"
	}
	return New(http.StatusForbidden, message)
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict reports a duplicate unique field. The original API surfaces these
// as 400, not 409.
func Conflict(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Server() *Error {
	return New(http.StatusInternalServerError, "Server error")
}

// errorBody is the uniform JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// Handler returns an echo HTTPErrorHandler that serializes typed errors,
// echo.HTTPErrors and unexpected failures into the {"error": message}
// envelope. Unexpected errors are logged and replaced with a generic message.
func Handler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Server error"

		var typed *Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &typed):
			status = typed.Status
			message = typed.Message
		case errors.As(err, &httpErr):
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		default:
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		if status >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, errorBody{Error: message})
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
