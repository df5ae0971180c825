// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"github.com/vinovest/sqlx"
)

// ListDirectories returns all directories ordered by name.
func (r *Repository) ListDirectories(ctx context.Context) ([]models.Directory, error) {
	dirs := []models.Directory{}
	err := r.db.SelectContext(ctx, &dirs,
		`SELECT id, name, created_at, updated_at FROM directories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// GetDirectory retrieves a directory by ID.
func (r *Repository) GetDirectory(ctx context.Context, id int64) (*models.Directory, error) {
	var dir models.Directory
	err := r.db.GetContext(ctx, &dir, r.q(
		`SELECT id, name, created_at, updated_at FROM directories WHERE id = ?`), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &dir, nil
}

// CreateDirectory inserts a directory and returns it.
func (r *Repository) CreateDirectory(ctx context.Context, name string) (*models.Directory, error) {
	now := time.Now().UTC()
	dir := &models.Directory{Name: name, CreatedAt: now, UpdatedAt: now}
	err := r.db.GetContext(ctx, &dir.ID, r.q(
		`INSERT INTO directories (name, created_at, updated_at) VALUES (?, ?, ?) RETURNING id`),
		dir.Name, dir.CreatedAt, dir.UpdatedAt)
	if err != nil {
		return nil, wrapError(err)
	}
	return dir, nil
}

// RenameDirectory changes a directory's name.
func (r *Repository) RenameDirectory(ctx context.Context, id int64, name string) (*models.Directory, error) {
	res, err := r.db.ExecContext(ctx, r.q(
		`UPDATE directories SET name = ?, updated_at = ? WHERE id = ?`), name, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return r.GetDirectory(ctx, id)
}

// DeleteDirectory removes a directory. Its words stay with directory_id cleared.
func (r *Repository) DeleteDirectory(ctx context.Context, id int64) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`UPDATE words SET directory_id = NULL WHERE directory_id = ?`), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(
			`UPDATE quiz_sessions SET directory_id = NULL WHERE directory_id = ?`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM directories WHERE id = ?`), id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}
