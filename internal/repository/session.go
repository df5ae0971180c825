// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
)

// CreateSession persists an issued session token.
func (r *Repository) CreateSession(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	err := r.db.GetContext(ctx, &session.ID, r.q(
		`INSERT INTO user_sessions (user_id, session_token, expires_at, created_at)
		VALUES (?, ?, ?, ?) RETURNING id`),
		session.UserID, session.SessionToken, session.ExpiresAt.UTC(), session.CreatedAt.UTC())
	return wrapError(err)
}

// GetActiveSession returns the session for token if it has not expired at now.
func (r *Repository) GetActiveSession(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	var session models.Session
	err := r.db.GetContext(ctx, &session, r.q(
		`SELECT id, user_id, session_token, expires_at, created_at
		FROM user_sessions WHERE session_token = ? AND expires_at > ?`),
		token, now.UTC())
	if err != nil {
		return nil, wrapError(err)
	}
	return &session, nil
}

// DeleteSession removes the session for token. Missing tokens are not an error.
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, r.q(`DELETE FROM user_sessions WHERE session_token = ?`), token)
	return err
}

// DeleteExpiredSessions purges sessions whose expiry is at or before now.
func (r *Repository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM user_sessions WHERE expires_at <= ?`), now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountUserSessions returns the number of stored sessions for a user.
func (r *Repository) CountUserSessions(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, r.q(`SELECT COUNT(*) FROM user_sessions WHERE user_id = ?`), userID)
	return count, err
}
