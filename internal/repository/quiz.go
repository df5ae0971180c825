// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"github.com/vinovest/sqlx"
)

// RecordQuiz applies every result to its word's counters and stores one
// quiz session row, atomically. Unknown word IDs are skipped.
// totalWords below the number of results is raised to it.
func (r *Repository) RecordQuiz(ctx context.Context, directoryID *int64, totalWords int, results []models.QuizResult, at time.Time) (*models.QuizSession, error) {
	at = at.UTC()
	correct := 0
	for _, res := range results {
		if res.Correct {
			correct++
		}
	}
	if totalWords < len(results) {
		totalWords = len(results)
	}

	session := &models.QuizSession{
		DirectoryID:     directoryID,
		TotalWords:      totalWords,
		Correct:         correct,
		Wrong:           len(results) - correct,
		ScorePercentage: models.Score(correct, totalWords),
		CreatedAt:       at,
	}

	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, res := range results {
			column := "wrong_count"
			if res.Correct {
				column = "correct_count"
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(
				`UPDATE words SET `+column+` = `+column+` + 1, last_practiced = ?, updated_at = ? WHERE id = ?`),
				at, at, res.WordID); err != nil {
				return err
			}
		}

		return tx.GetContext(ctx, &session.ID, tx.Rebind(
			`INSERT INTO quiz_sessions (directory_id, total_words, correct, wrong, score_percentage, created_at)
			VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
			session.DirectoryID, session.TotalWords, session.Correct, session.Wrong, session.ScorePercentage, session.CreatedAt)
	})
	if err != nil {
		return nil, wrapError(err)
	}

	if directoryID != nil {
		if dir, err := r.GetDirectory(ctx, *directoryID); err == nil {
			session.DirectoryName = &dir.Name
		}
	}
	return session, nil
}

// ListQuizSessions returns quiz sessions newest first with their directory name.
func (r *Repository) ListQuizSessions(ctx context.Context, limit, offset int) ([]models.QuizSession, error) {
	sessions := []models.QuizSession{}
	err := r.db.SelectContext(ctx, &sessions, r.q(
		`SELECT q.id, q.directory_id, d.name AS directory_name, q.total_words, q.correct, q.wrong,
			q.score_percentage, q.created_at
		FROM quiz_sessions q LEFT JOIN directories d ON d.id = q.directory_id
		ORDER BY q.created_at DESC, q.id DESC LIMIT ? OFFSET ?`),
		limit, offset)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountQuizSessions returns the number of recorded quiz sessions.
func (r *Repository) CountQuizSessions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM quiz_sessions`); err != nil {
		return 0, err
	}
	return count, nil
}
