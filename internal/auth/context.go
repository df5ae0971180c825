// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth provides authentication context helpers.
package auth

import (
	"context"

	"codeberg.org/oliverandrich/vocabulary-app/internal/ctxkeys"
	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
)

// GetUser returns the authenticated user from the context, or nil if not authenticated.
func GetUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(ctxkeys.User{}).(*models.User); ok {
		return user
	}
	return nil
}

// SetUser returns a copy of ctx carrying user.
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxkeys.User{}, user)
}

// IsAuthenticated returns true if the context has an authenticated user.
func IsAuthenticated(ctx context.Context) bool {
	return GetUser(ctx) != nil
}

// GetToken returns the bearer session token from the context, or "".
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxkeys.SessionToken{}).(string)
	return token
}

// SetToken returns a copy of ctx carrying the bearer session token.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxkeys.SessionToken{}, token)
}
