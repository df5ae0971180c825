// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package llm talks to an OpenRouter compatible chat completion endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultURL   = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel = "openrouter/sonoma-dusk-alpha"

	defaultTimeout = 10 * time.Second
	bodyLimit      = 1 << 20
)

// ErrUpstreamUnavailable wraps every failure of the model endpoint.
var ErrUpstreamUnavailable = errors.New("upstream service unavailable")

const explainPrompt = "You are an assistant that analyzes English sentences for Indonesian learners, " +
	"give the analysis directly in Indonesian (no introduction), focusing on grammar and natural alternatives, " +
	"and always use this format: 1. **Grammar Analysis** - jelaskan tenses, aspek, struktur subjek-kata kerja-objek, " +
	"dan poin grammar penting; 2. **Natural Alternatives** - berikan cara lain yang lebih natural untuk " +
	"menyampaikan ide yang sama dalam bahasa Inggris."

const extractPrompt = "You are a language learning assistant. Extract the most important vocabulary words " +
	"from an English sentence that would be valuable for Indonesian learners to learn. Focus on:\n" +
	"- Key nouns, verbs, adjectives, and adverbs\n" +
	"- Words that are central to understanding the sentence\n" +
	"- Words that might be challenging for language learners\n" +
	"- Avoid very common words like 'the', 'a', 'is', 'are', 'and', 'or', 'but'\n\n" +
	"Return only a JSON array of strings containing the vocabulary words, nothing else. " +
	"Example: [\"important\", \"vocabulary\", \"words\"]"

// Config configures the client.
type Config struct {
	URL        string
	APIKey     string
	Model      string
	Timeout    time.Duration // per request, default 10s
	HTTPClient *http.Client
}

// Client is a single-provider model client. It has no fallback.
type Client struct {
	url     string
	apiKey  string
	model   string
	timeout time.Duration
	client  *http.Client
}

func New(cfg Config) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		client:  cfg.HTTPClient,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Translate asks the model for a bare translation of text.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	fromName := languageName(from, "English")
	toName := languageName(to, "Indonesian")
	system := fmt.Sprintf("You are a professional translator. Translate the given %s text to %s. "+
		"Only return the translation, nothing else.", fromName, toName)
	user := fmt.Sprintf("Translate this %s text to %s: %s", fromName, toName, text)
	return c.complete(ctx, system, user, 100, 0.3)
}

// Explain returns a grammar analysis of an English sentence in Indonesian.
func (c *Client) Explain(ctx context.Context, sentence string) (string, error) {
	return c.complete(ctx, explainPrompt, fmt.Sprintf("Please explain this English sentence: %q", sentence), 800, 0.5)
}

// ExtractVocabulary returns the key vocabulary of an English sentence.
// An unparseable model answer yields an empty list.
func (c *Client) ExtractVocabulary(ctx context.Context, sentence string) ([]string, error) {
	content, err := c.complete(ctx, extractPrompt,
		fmt.Sprintf("Extract key vocabulary words from this English sentence: %q", sentence), 200, 0.3)
	if err != nil {
		return nil, err
	}
	return parseWordList(content), nil
}

func (c *Client) complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("%w: api key not configured", ErrUpstreamUnavailable)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("llm_request_failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("llm_request_failed", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to parse response: %v", ErrUpstreamUnavailable, err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUpstreamUnavailable, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrUpstreamUnavailable)
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUpstreamUnavailable)
	}
	return content, nil
}

func languageName(code, fallback string) string {
	switch strings.ToLower(code) {
	case "en":
		return "English"
	case "id":
		return "Indonesian"
	default:
		return fallback
	}
}

// parseWordList decodes a JSON string array, tolerating markdown fences.
func parseWordList(content string) []string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	var raw []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		slog.Warn("llm_vocabulary_unparseable", "error", err)
		return []string{}
	}

	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
