// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"codeberg.org/oliverandrich/vocabulary-app/internal/repository"
	"codeberg.org/oliverandrich/vocabulary-app/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectories_CRUD(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	food := testutil.NewTestDirectory(t, repo, "Food")
	testutil.NewTestDirectory(t, repo, "Animals")

	dirs, err := repo.ListDirectories(ctx)
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, "Animals", dirs[0].Name)
	assert.Equal(t, "Food", dirs[1].Name)

	renamed, err := repo.RenameDirectory(ctx, food.ID, "Drinks")
	require.NoError(t, err)
	assert.Equal(t, "Drinks", renamed.Name)

	_, err = repo.RenameDirectory(ctx, 999, "Nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.DeleteDirectory(ctx, food.ID))
	_, err = repo.GetDirectory(ctx, food.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteDirectory(ctx, food.ID), repository.ErrNotFound)
}

func TestDeleteDirectory_KeepsWords(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	dir := testutil.NewTestDirectory(t, repo, "Food")
	word := testutil.NewTestWord(t, repo, "rice", "nasi", &dir.ID)

	require.NoError(t, repo.DeleteDirectory(ctx, dir.ID))

	stored, err := repo.GetWord(ctx, word.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DirectoryID)
}

func TestWords_CRUD(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	dir := testutil.NewTestDirectory(t, repo, "Food")

	rice := testutil.NewTestWord(t, repo, "rice", "nasi", &dir.ID)
	testutil.NewTestWord(t, repo, "house", "", nil)

	all, err := repo.ListWords(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inDir, err := repo.ListWords(ctx, &dir.ID)
	require.NoError(t, err)
	require.Len(t, inDir, 1)
	assert.Equal(t, "rice", inDir[0].English)

	rice.Indonesian = "beras"
	require.NoError(t, repo.UpdateWord(ctx, rice))
	stored, err := repo.GetWord(ctx, rice.ID)
	require.NoError(t, err)
	assert.Equal(t, "beras", stored.Indonesian)
	require.NotNil(t, stored.DirectoryID)
	assert.Equal(t, dir.ID, *stored.DirectoryID)

	require.NoError(t, repo.DeleteWord(ctx, rice.ID))
	_, err = repo.GetWord(ctx, rice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteWord(ctx, rice.ID), repository.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateWord(ctx, rice), repository.ErrNotFound)
}

func TestCreateWord_UnknownDirectory(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	missing := int64(999)

	err := repo.CreateWord(context.Background(), &models.Word{English: "rice", DirectoryID: &missing})

	assert.Error(t, err)
}

func TestRecordQuiz(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	dir := testutil.NewTestDirectory(t, repo, "Food")
	rice := testutil.NewTestWord(t, repo, "rice", "nasi", &dir.ID)
	water := testutil.NewTestWord(t, repo, "water", "air", &dir.ID)

	session, err := repo.RecordQuiz(ctx, &dir.ID, 0, []models.QuizResult{
		{WordID: rice.ID, Correct: true},
		{WordID: water.ID, Correct: false},
		{WordID: rice.ID, Correct: true},
	}, fixedTime)

	require.NoError(t, err)
	assert.NotZero(t, session.ID)
	assert.Equal(t, 3, session.TotalWords)
	assert.Equal(t, 2, session.Correct)
	assert.Equal(t, 1, session.Wrong)
	assert.Equal(t, 66.67, session.ScorePercentage)
	require.NotNil(t, session.DirectoryName)
	assert.Equal(t, "Food", *session.DirectoryName)

	storedRice, err := repo.GetWord(ctx, rice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, storedRice.CorrectCount)
	assert.Equal(t, 0, storedRice.WrongCount)
	require.NotNil(t, storedRice.LastPracticed)
	assert.True(t, fixedTime.Equal(*storedRice.LastPracticed))

	storedWater, err := repo.GetWord(ctx, water.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, storedWater.WrongCount)
}

func TestRecordQuiz_TotalNeverBelowResults(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	rice := testutil.NewTestWord(t, repo, "rice", "nasi", nil)

	session, err := repo.RecordQuiz(ctx, nil, 1, []models.QuizResult{
		{WordID: rice.ID, Correct: true},
		{WordID: rice.ID, Correct: true},
		{WordID: rice.ID, Correct: true},
	}, fixedTime)

	require.NoError(t, err)
	assert.Equal(t, 3, session.TotalWords)
	assert.Equal(t, 100.0, session.ScorePercentage)
}

func TestListQuizSessions_Pagination(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	dir := testutil.NewTestDirectory(t, repo, "Food")
	word := testutil.NewTestWord(t, repo, "rice", "nasi", &dir.ID)

	for i := 0; i < 5; i++ {
		_, err := repo.RecordQuiz(ctx, &dir.ID, 1, []models.QuizResult{{WordID: word.ID, Correct: i%2 == 0}},
			fixedTime.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	_, err := repo.RecordQuiz(ctx, nil, 1, nil, fixedTime.Add(time.Hour))
	require.NoError(t, err)

	count, err := repo.CountQuizSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	page, err := repo.ListQuizSessions(ctx, 4, 0)
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Nil(t, page[0].DirectoryName, "newest session has no directory")
	require.NotNil(t, page[1].DirectoryName)
	assert.Equal(t, "Food", *page[1].DirectoryName)
	assert.True(t, page[1].CreatedAt.After(page[2].CreatedAt))

	rest, err := repo.ListQuizSessions(ctx, 4, 4)
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}
