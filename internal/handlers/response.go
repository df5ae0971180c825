// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/vocabulary-app/internal/repository"
	authsvc "codeberg.org/oliverandrich/vocabulary-app/internal/services/auth"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/llm"
	"codeberg.org/oliverandrich/vocabulary-app/internal/validate"
	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal server error"

// Envelope wraps every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success writes a successful envelope.
func Success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failed envelope.
func Fail(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: false, Message: message, Data: data})
}

// statusFor maps an error kind to its status and user-safe message.
func statusFor(err error) (int, string, any) {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return http.StatusBadRequest, verr.Error(), verr.Fields()
	}

	var herr *echo.HTTPError
	if errors.As(err, &herr) {
		msg, ok := herr.Message.(string)
		if !ok || msg == "" {
			msg = http.StatusText(herr.Code)
		}
		return herr.Code, msg, nil
	}

	switch {
	case errors.Is(err, authsvc.ErrUserExists):
		return http.StatusBadRequest, "User with this email already exists", nil
	case errors.Is(err, authsvc.ErrInvalidCode):
		return http.StatusBadRequest, "Invalid verification code", nil
	case errors.Is(err, authsvc.ErrCodeExpired):
		return http.StatusBadRequest, "Verification code has expired", nil
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusBadRequest, "Resource already exists", nil
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password", nil
	case errors.Is(err, authsvc.ErrNotVerified):
		return http.StatusUnauthorized, "Please verify your email before logging in", nil
	case errors.Is(err, authsvc.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", nil
	case errors.Is(err, authsvc.ErrUserNotFound):
		return http.StatusNotFound, "User not found", nil
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "Not found", nil
	case errors.Is(err, llm.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "Service temporarily unavailable", nil
	}

	return http.StatusInternalServerError, internalErrorMessage, nil
}

// ErrorHandler renders every handler error as an envelope. Raw error text
// of unexpected failures is only logged.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message, data := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", status,
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = Fail(c, status, message, data)
	}
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

// bind decodes the request body, rejecting malformed JSON as a validation error.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		v := &validate.Validator{}
		v.Add("body", "Invalid request body")
		return v.Err()
	}
	return nil
}
