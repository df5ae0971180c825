// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TranslateRequest is the request body for /ai-translate.
type TranslateRequest struct {
	Text string `json:"text" validate:"notblank"`
	From string `json:"from"`
	To   string `json:"to"`
}

// SentenceRequest is the request body for explain and extract.
type SentenceRequest struct {
	Sentence string `json:"sentence" validate:"notblank"`
}

// ExplainResponse pairs a translation with the model's grammar analysis.
type ExplainResponse struct {
	Translation string `json:"translation"`
	Explanation string `json:"explanation"`
}

// VocabularyResponse lists the extracted terms.
type VocabularyResponse struct {
	Vocabulary []string `json:"vocabulary"`
}

// Translate runs the translation fallback chain.
func (h *Handlers) Translate(c echo.Context) error {
	var req TranslateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := c.Validate(&req); err != nil {
		return err
	}

	result := h.translator.Translate(c.Request().Context(), req.Text, req.From, req.To)
	return Success(c, http.StatusOK, "Translation completed successfully", result)
}

// ExplainSentence translates a sentence and asks the model to explain it.
func (h *Handlers) ExplainSentence(c echo.Context) error {
	req, err := bindSentence(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	explanation, err := h.assistant.Explain(ctx, req.Sentence)
	if err != nil {
		return fmt.Errorf("explain sentence: %w", err)
	}
	translation := h.translator.Translate(ctx, req.Sentence, "en", "id")

	return Success(c, http.StatusOK, "Sentence explained successfully", ExplainResponse{
		Translation: translation.Text,
		Explanation: explanation,
	})
}

// ExtractVocabulary asks the model for the key terms of a sentence.
func (h *Handlers) ExtractVocabulary(c echo.Context) error {
	req, err := bindSentence(c)
	if err != nil {
		return err
	}

	words, err := h.assistant.ExtractVocabulary(c.Request().Context(), req.Sentence)
	if err != nil {
		return fmt.Errorf("extract vocabulary: %w", err)
	}

	return Success(c, http.StatusOK, "Vocabulary extracted successfully", VocabularyResponse{Vocabulary: words})
}

func bindSentence(c echo.Context) (*SentenceRequest, error) {
	var req SentenceRequest
	if err := bind(c, &req); err != nil {
		return nil, err
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
