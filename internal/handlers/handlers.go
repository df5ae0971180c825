// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers implements the JSON API.
package handlers

import (
	"context"
	"net/http"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"codeberg.org/oliverandrich/vocabulary-app/internal/repository"
	authsvc "codeberg.org/oliverandrich/vocabulary-app/internal/services/auth"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/translate"
	"github.com/labstack/echo/v4"
)

// AuthService is the account and session API used by the auth handlers.
type AuthService interface {
	Register(ctx context.Context, params authsvc.RegisterParams) (*models.User, error)
	VerifyEmail(ctx context.Context, email, code string) (*models.User, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*authsvc.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, user *models.User) (models.UserView, error)
}

// Translator produces best-effort translations. It never fails.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) translate.Result
}

// Assistant is the instruction model behind explain and extract.
type Assistant interface {
	Explain(ctx context.Context, sentence string) (string, error)
	ExtractVocabulary(ctx context.Context, sentence string) ([]string, error)
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo       *repository.Repository
	auth       AuthService
	translator Translator
	assistant  Assistant
}

// New creates a new Handlers instance.
func New(repo *repository.Repository, auth AuthService, translator Translator, assistant Assistant) *Handlers {
	return &Handlers{
		repo:       repo,
		auth:       auth,
		translator: translator,
		assistant:  assistant,
	}
}

// Health reports whether the database answers.
func (h *Handlers) Health(c echo.Context) error {
	if err := h.repo.Ping(c.Request().Context()); err != nil {
		return err
	}
	return Success(c, http.StatusOK, "OK", nil)
}

// Home greets API clients.
func (h *Handlers) Home(c echo.Context) error {
	return Success(c, http.StatusOK, "Hello from vocabulary backend!", nil)
}
