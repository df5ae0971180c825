// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
)

const userColumns = `id, email, password_hash, first_name, last_name, is_verified,
	verification_code, verification_code_expires_at, created_at, updated_at`

// CreateUser inserts a new user and sets its ID.
// A duplicate email yields ErrDuplicate.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt

	err := r.db.GetContext(ctx, &user.ID, r.q(
		`INSERT INTO users (email, password_hash, first_name, last_name, is_verified,
			verification_code, verification_code_expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.IsVerified,
		user.VerificationCode, utcPtr(user.VerificationCodeExpiresAt), user.CreatedAt.UTC(), user.UpdatedAt.UTC())
	return wrapError(err)
}

// GetUserByID retrieves a user by their ID
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email address
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.q(`SELECT `+userColumns+` FROM users WHERE email = ?`), email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByVerificationCode finds the user holding exactly this (email, code) pair.
func (r *Repository) GetUserByVerificationCode(ctx context.Context, email, code string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.q(
		`SELECT `+userColumns+` FROM users WHERE email = ? AND verification_code = ?`), email, code)
	if err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// MarkUserVerified sets the verified flag and clears the pending code.
func (r *Repository) MarkUserVerified(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, r.q(
		`UPDATE users SET is_verified = ?, verification_code = NULL,
			verification_code_expires_at = NULL, updated_at = ? WHERE id = ?`),
		true, at.UTC(), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetVerificationCode replaces the pending code of an unverified user.
func (r *Repository) SetVerificationCode(ctx context.Context, id int64, code string, expiresAt, at time.Time) error {
	res, err := r.db.ExecContext(ctx, r.q(
		`UPDATE users SET verification_code = ?, verification_code_expires_at = ?, updated_at = ?
		WHERE id = ? AND is_verified = ?`),
		code, expiresAt.UTC(), at.UTC(), id, false)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteUser deletes a user by their ID
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, r.q(`DELETE FROM users WHERE id = ?`), id)
	return err
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
