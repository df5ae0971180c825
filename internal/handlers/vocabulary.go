// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"codeberg.org/oliverandrich/vocabulary-app/internal/repository"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/translate"
	"codeberg.org/oliverandrich/vocabulary-app/internal/validate"
	"github.com/labstack/echo/v4"
)

// SessionsPageSize is the number of quiz sessions per page.
const SessionsPageSize = 15

// maxSessionsPage keeps the page offset within int.
const maxSessionsPage = math.MaxInt / SessionsPageSize

// WordRequest is the request body for creating and updating words.
// Nil fields are left unchanged on update.
type WordRequest struct {
	English     *string `json:"english" validate:"omitnil,notblank"`
	Indonesian  *string `json:"indonesian"`
	DirectoryID *int64  `json:"directory_id"`
}

// DirectoryRequest is the request body for directories.
type DirectoryRequest struct {
	Name string `json:"name" validate:"notblank"`
}

// ProgressRequest records one finished quiz round.
type ProgressRequest struct {
	DirectoryID *int64              `json:"directory_id"`
	TotalWords  int                 `json:"total_words" validate:"gte=0"`
	Results     []models.QuizResult `json:"results" validate:"required,min=1"`
}

// WordProgress is the practice state of one word.
type WordProgress struct {
	WordID        int64      `json:"word_id"`
	English       string     `json:"english"`
	Indonesian    string     `json:"indonesian"`
	CorrectCount  int        `json:"correct_count"`
	WrongCount    int        `json:"wrong_count"`
	LastPracticed *time.Time `json:"last_practiced"`
}

// SessionPage is one page of quiz history.
type SessionPage struct {
	Sessions   []models.QuizSession `json:"sessions"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	Total      int64                `json:"total"`
	TotalPages int                  `json:"total_pages"`
}

// ListWords returns all words, optionally filtered by directory_id.
func (h *Handlers) ListWords(c echo.Context) error {
	dirID, err := optionalID(c.QueryParam("directory_id"), "directory_id")
	if err != nil {
		return err
	}

	words, err := h.repo.ListWords(c.Request().Context(), dirID)
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, "Words retrieved successfully", words)
}

// CreateWord stores a word. A missing Indonesian text is filled by the
// translation chain when it has an answer.
func (h *Handlers) CreateWord(c echo.Context) error {
	var req WordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.English == nil {
		v := &validate.Validator{}
		v.Add("english", "english is required")
		return v.Err()
	}

	ctx := c.Request().Context()
	if err := h.checkDirectory(ctx, req.DirectoryID); err != nil {
		return err
	}

	word := &models.Word{
		English:     strings.TrimSpace(*req.English),
		DirectoryID: req.DirectoryID,
	}
	if req.Indonesian != nil {
		word.Indonesian = strings.TrimSpace(*req.Indonesian)
	}
	if word.Indonesian == "" {
		word.Indonesian = h.suggest(ctx, word.English)
	}

	if err := h.repo.CreateWord(ctx, word); err != nil {
		return err
	}
	return Success(c, http.StatusCreated, "Word created successfully", word)
}

// UpdateWord changes the fields present in the request.
func (h *Handlers) UpdateWord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req WordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	word, err := h.repo.GetWord(ctx, id)
	if err != nil {
		return err
	}

	if req.English != nil {
		word.English = strings.TrimSpace(*req.English)
	}
	if req.Indonesian != nil {
		word.Indonesian = strings.TrimSpace(*req.Indonesian)
	}
	if req.DirectoryID != nil {
		if err := h.checkDirectory(ctx, req.DirectoryID); err != nil {
			return err
		}
		word.DirectoryID = req.DirectoryID
	}

	if err := h.repo.UpdateWord(ctx, word); err != nil {
		return err
	}
	return Success(c, http.StatusOK, "Word updated successfully", word)
}

// DeleteWord removes a word.
func (h *Handlers) DeleteWord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.DeleteWord(c.Request().Context(), id); err != nil {
		return err
	}
	return Success(c, http.StatusOK, "Word deleted successfully", nil)
}

// TranslateWord fills a word's Indonesian text from the translation chain.
func (h *Handlers) TranslateWord(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	word, err := h.repo.GetWord(ctx, id)
	if err != nil {
		return err
	}

	result := h.translator.Translate(ctx, word.English, "en", "id")
	if result.Text != translate.Unavailable {
		word.Indonesian = result.Text
		if err := h.repo.UpdateWord(ctx, word); err != nil {
			return err
		}
	}
	return Success(c, http.StatusOK, "Translation completed successfully", word)
}

// ListDirectories returns all directories by name.
func (h *Handlers) ListDirectories(c echo.Context) error {
	dirs, err := h.repo.ListDirectories(c.Request().Context())
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, "Directories retrieved successfully", dirs)
}

// CreateDirectory stores a directory.
func (h *Handlers) CreateDirectory(c echo.Context) error {
	name, err := bindDirectoryName(c)
	if err != nil {
		return err
	}
	dir, err := h.repo.CreateDirectory(c.Request().Context(), name)
	if err != nil {
		return err
	}
	return Success(c, http.StatusCreated, "Directory created successfully", dir)
}

// RenameDirectory changes a directory's name.
func (h *Handlers) RenameDirectory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	name, err := bindDirectoryName(c)
	if err != nil {
		return err
	}
	dir, err := h.repo.RenameDirectory(c.Request().Context(), id, name)
	if err != nil {
		return err
	}
	return Success(c, http.StatusOK, "Directory updated successfully", dir)
}

// DeleteDirectory removes a directory and detaches its words.
func (h *Handlers) DeleteDirectory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.repo.DeleteDirectory(c.Request().Context(), id); err != nil {
		return err
	}
	return Success(c, http.StatusOK, "Directory deleted successfully", nil)
}

// RecordProgress applies a quiz round to the words and stores the session.
func (h *Handlers) RecordProgress(c echo.Context) error {
	var req ProgressRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.TotalWords > 0 && req.TotalWords < len(req.Results) {
		v := &validate.Validator{}
		v.Add("total_words", "total words must not be less than the number of results")
		return v.Err()
	}

	ctx := c.Request().Context()
	if err := h.checkDirectory(ctx, req.DirectoryID); err != nil {
		return err
	}

	session, err := h.repo.RecordQuiz(ctx, req.DirectoryID, req.TotalWords, req.Results, time.Now())
	if err != nil {
		return err
	}
	return Success(c, http.StatusCreated, "Progress saved successfully", session)
}

// ListProgress returns the practice counters of every word.
func (h *Handlers) ListProgress(c echo.Context) error {
	dirID, err := optionalID(c.QueryParam("directory_id"), "directory_id")
	if err != nil {
		return err
	}

	words, err := h.repo.ListWords(c.Request().Context(), dirID)
	if err != nil {
		return err
	}

	progress := make([]WordProgress, len(words))
	for i, w := range words {
		progress[i] = WordProgress{
			WordID:        w.ID,
			English:       w.English,
			Indonesian:    w.Indonesian,
			CorrectCount:  w.CorrectCount,
			WrongCount:    w.WrongCount,
			LastPracticed: w.LastPracticed,
		}
	}
	return Success(c, http.StatusOK, "Progress retrieved successfully", progress)
}

// ListSessions returns one page of quiz history, newest first.
func (h *Handlers) ListSessions(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSessionsPage {
			v := &validate.Validator{}
			v.Add("page", "page must be a positive number")
			return v.Err()
		}
		page = n
	}

	ctx := c.Request().Context()
	total, err := h.repo.CountQuizSessions(ctx)
	if err != nil {
		return err
	}
	sessions, err := h.repo.ListQuizSessions(ctx, SessionsPageSize, (page-1)*SessionsPageSize)
	if err != nil {
		return err
	}

	return Success(c, http.StatusOK, "Sessions retrieved successfully", SessionPage{
		Sessions:   sessions,
		Page:       page,
		PageSize:   SessionsPageSize,
		Total:      total,
		TotalPages: int((total + SessionsPageSize - 1) / SessionsPageSize),
	})
}

// suggest returns a chain translation, or "" when none is available.
func (h *Handlers) suggest(ctx context.Context, english string) string {
	result := h.translator.Translate(ctx, english, "en", "id")
	if result.Text == translate.Unavailable {
		return ""
	}
	return result.Text
}

// checkDirectory rejects references to directories that do not exist.
func (h *Handlers) checkDirectory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := h.repo.GetDirectory(ctx, *id)
	if errors.Is(err, repository.ErrNotFound) {
		v := &validate.Validator{}
		v.Add("directory_id", "directory does not exist")
		return v.Err()
	}
	return err
}

func bindDirectoryName(c echo.Context) (string, error) {
	var req DirectoryRequest
	if err := bind(c, &req); err != nil {
		return "", err
	}
	if err := c.Validate(&req); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.Name), nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

func optionalID(raw, field string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		v := &validate.Validator{}
		v.Add(field, field+" must be a number")
		return nil, v.Err()
	}
	return &id, nil
}
