// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
)

const wordColumns = `id, english, indonesian, directory_id, correct_count, wrong_count,
	last_practiced, created_at, updated_at`

// ListWords returns words, newest first. A non-nil directoryID filters by directory.
func (r *Repository) ListWords(ctx context.Context, directoryID *int64) ([]models.Word, error) {
	words := []models.Word{}
	var err error
	if directoryID != nil {
		err = r.db.SelectContext(ctx, &words, r.q(
			`SELECT `+wordColumns+` FROM words WHERE directory_id = ? ORDER BY created_at DESC, id DESC`),
			*directoryID)
	} else {
		err = r.db.SelectContext(ctx, &words,
			`SELECT `+wordColumns+` FROM words ORDER BY created_at DESC, id DESC`)
	}
	if err != nil {
		return nil, err
	}
	return words, nil
}

// GetWord retrieves a word by ID.
func (r *Repository) GetWord(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	err := r.db.GetContext(ctx, &word, r.q(`SELECT `+wordColumns+` FROM words WHERE id = ?`), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &word, nil
}

// CreateWord inserts a word and sets its ID and timestamps.
func (r *Repository) CreateWord(ctx context.Context, word *models.Word) error {
	now := time.Now().UTC()
	word.CreatedAt = now
	word.UpdatedAt = now
	err := r.db.GetContext(ctx, &word.ID, r.q(
		`INSERT INTO words (english, indonesian, directory_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?) RETURNING id`),
		word.English, word.Indonesian, word.DirectoryID, word.CreatedAt, word.UpdatedAt)
	return wrapError(err)
}

// UpdateWord writes the editable fields of a word.
func (r *Repository) UpdateWord(ctx context.Context, word *models.Word) error {
	word.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.q(
		`UPDATE words SET english = ?, indonesian = ?, directory_id = ?, updated_at = ? WHERE id = ?`),
		word.English, word.Indonesian, word.DirectoryID, word.UpdatedAt, word.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteWord removes a word by ID.
func (r *Repository) DeleteWord(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM words WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
