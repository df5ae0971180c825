// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

type Directory struct { //nolint:govet // fieldalignment not critical for models
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Word struct { //nolint:govet // fieldalignment not critical for models
	ID            int64      `db:"id" json:"id"`
	English       string     `db:"english" json:"english"`
	Indonesian    string     `db:"indonesian" json:"indonesian"`
	DirectoryID   *int64     `db:"directory_id" json:"directory_id"`
	CorrectCount  int        `db:"correct_count" json:"correct_count"`
	WrongCount    int        `db:"wrong_count" json:"wrong_count"`
	LastPracticed *time.Time `db:"last_practiced" json:"last_practiced"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// QuizResult is one answered word in a quiz round.
type QuizResult struct {
	WordID  int64 `json:"word_id"`
	Correct bool  `json:"correct"`
}

// QuizSession is a recorded quiz round. DirectoryName is filled by joins.
type QuizSession struct { //nolint:govet // fieldalignment not critical for models
	ID              int64     `db:"id" json:"id"`
	DirectoryID     *int64    `db:"directory_id" json:"directory_id"`
	DirectoryName   *string   `db:"directory_name" json:"directory_name"`
	TotalWords      int       `db:"total_words" json:"total_words"`
	Correct         int       `db:"correct" json:"correct"`
	Wrong           int       `db:"wrong" json:"wrong"`
	ScorePercentage float64   `db:"score_percentage" json:"score_percentage"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Score returns the rounded percentage of correct answers out of total.
func Score(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(correct) * 100 / float64(total)
	return float64(int(pct*100+0.5)) / 100
}
