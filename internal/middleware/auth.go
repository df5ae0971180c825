// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware provides echo middleware for bearer authentication and locale detection.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"codeberg.org/oliverandrich/vocabulary-app/internal/auth"
	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// ErrMalformedHeader is returned when the Authorization header is not a bearer token.
var ErrMalformedHeader = errors.New("missing or malformed authorization header")

// TokenValidator resolves a session token to its user.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// ExtractBearer returns the session token of an "Authorization: Bearer <token>" header.
func ExtractBearer(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMalformedHeader
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrMalformedHeader
	}
	return token, nil
}

// BearerToken stores the bearer token in the request context. A missing
// or malformed header is answered with malformedStatus.
func BearerToken(malformedStatus int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return echo.NewHTTPError(malformedStatus, "Invalid authorization header")
			}
			ctx := auth.SetToken(c.Request().Context(), token)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireUser validates the bearer token and loads its user into the request
// context. It must run after BearerToken.
func RequireUser(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			user, err := validator.ValidateToken(ctx, auth.GetToken(ctx))
			if err != nil {
				slog.Debug("bearer_rejected", "error", err)
				return err
			}
			c.SetRequest(c.Request().WithContext(auth.SetUser(ctx, user)))
			return next(c)
		}
	}
}

// RequireBearer combines BearerToken and RequireUser, answering 401 for a
// malformed header.
func RequireBearer(validator TokenValidator) echo.MiddlewareFunc {
	token := BearerToken(http.StatusUnauthorized)
	user := RequireUser(validator)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return token(user(next))
	}
}
