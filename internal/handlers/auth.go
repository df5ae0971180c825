// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/vocabulary-app/internal/auth"
	authsvc "codeberg.org/oliverandrich/vocabulary-app/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Email     string `json:"email" validate:"notblank,email"`
	Password  string `json:"password" validate:"min=8,maxbytes=72"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterResponse is returned for a new account.
type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// VerifyEmailRequest is the request body for email verification.
type VerifyEmailRequest struct {
	Email            string `json:"email" validate:"notblank,email"`
	VerificationCode string `json:"verification_code" validate:"digits=6"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"min=8,maxbytes=72"`
}

// ResendVerificationRequest is the request body for a new verification code.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"notblank,email"`
}

// Register creates an unverified account.
func (h *Handlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Email = authsvc.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), authsvc.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return Success(c, http.StatusCreated,
		"User registered successfully. Please check your email for the verification code.",
		RegisterResponse{ID: user.ID, Email: user.Email})
}

// VerifyEmail consumes a verification code.
func (h *Handlers) VerifyEmail(c echo.Context) error {
	var req VerifyEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Email = authsvc.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.VerifyEmail(c.Request().Context(), req.Email, req.VerificationCode)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "Email verified successfully", user.View(nil))
}

// ResendVerification issues a new code. The answer never reveals whether
// the address has an account.
func (h *Handlers) ResendVerification(c echo.Context) error {
	var req ResendVerificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Email = authsvc.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.ResendVerification(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return Success(c, http.StatusOK,
		"If the account exists and is not verified yet, a new verification code has been sent.", nil)
}

// Login issues a session token.
func (h *Handlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.Email = authsvc.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "Login successful", result)
}

// Logout revokes the bearer token. Storage failures are logged, never surfaced.
func (h *Handlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.auth.Logout(ctx, auth.GetToken(ctx)); err != nil {
		slog.Warn("logout_failed", "error", err)
	}
	return Success(c, http.StatusOK, "Logged out successfully", nil)
}

// Profile returns the authenticated user with its subscription.
func (h *Handlers) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	user := auth.GetUser(ctx)
	if user == nil {
		return authsvc.ErrUnauthorized
	}

	view, err := h.auth.Profile(ctx, user)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "Profile retrieved successfully", view)
}
