// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"net/http"

	"codeberg.org/oliverandrich/vocabulary-app/internal/handlers"
	"codeberg.org/oliverandrich/vocabulary-app/internal/middleware"
	"github.com/labstack/echo/v4"
)

func setupRoutes(e *echo.Echo, h *handlers.Handlers, validator middleware.TokenValidator) {
	e.GET("/", h.Home)
	e.GET("/health", h.Health)

	// Auth
	a := e.Group("/auth")
	a.POST("/register", h.Register)
	a.POST("/verify-email", h.VerifyEmail)
	a.POST("/resend-verification", h.ResendVerification)
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout, middleware.BearerToken(http.StatusBadRequest))
	a.GET("/profile", h.Profile, middleware.RequireBearer(validator))

	// AI
	e.POST("/ai-translate", h.Translate)
	e.POST("/explain-sentence", h.ExplainSentence)
	e.POST("/extract-vocabulary", h.ExtractVocabulary)

	// Vocabulary
	e.GET("/words", h.ListWords)
	e.POST("/words", h.CreateWord)
	e.PUT("/words/:id", h.UpdateWord)
	e.DELETE("/words/:id", h.DeleteWord)
	e.POST("/words/:id/ai-translate", h.TranslateWord)

	e.GET("/directories", h.ListDirectories)
	e.POST("/directories", h.CreateDirectory)
	e.PUT("/directories/:id", h.RenameDirectory)
	e.DELETE("/directories/:id", h.DeleteDirectory)

	e.GET("/progress", h.ListProgress)
	e.POST("/progress", h.RecordProgress)
	e.GET("/sessions", h.ListSessions)
}
