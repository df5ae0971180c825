// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultLibreTranslateURL = "https://libretranslate.com"
	DefaultMyMemoryURL       = "https://api.mymemory.translated.net"

	// bodyLimit caps how much of a provider response is read.
	bodyLimit = 1 << 20
)

var errEmptyTranslation = errors.New("provider returned no translation")

func defaultClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// doJSON sends req and decodes a 200 JSON response into out.
func doJSON(client *http.Client, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, bodyLimit))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// LibreTranslate calls the LibreTranslate /translate endpoint.
type LibreTranslate struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

func NewLibreTranslate(baseURL, apiKey string, client *http.Client) *LibreTranslate {
	if baseURL == "" {
		baseURL = DefaultLibreTranslateURL
	}
	return &LibreTranslate{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  defaultClient(client),
	}
}

func (p *LibreTranslate) Name() string { return "libretranslate" }

func (p *LibreTranslate) Translate(ctx context.Context, text, from, to string) (string, error) {
	payload, err := json.Marshal(libreRequest{
		Q:      text,
		Source: from,
		Target: to,
		Format: "text",
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp libreResponse
	if err := doJSON(p.client, req, &resp); err != nil {
		return "", fmt.Errorf("libretranslate: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("libretranslate: %s", resp.Error)
	}
	if resp.TranslatedText == "" {
		return "", fmt.Errorf("libretranslate: %w", errEmptyTranslation)
	}
	return resp.TranslatedText, nil
}

// MyMemory calls the MyMemory /get endpoint.
type MyMemory struct {
	baseURL string
	email   string
	client  *http.Client
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
}

func NewMyMemory(baseURL, email string, client *http.Client) *MyMemory {
	if baseURL == "" {
		baseURL = DefaultMyMemoryURL
	}
	return &MyMemory{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		client:  defaultClient(client),
	}
}

func (p *MyMemory) Name() string { return "mymemory" }

func (p *MyMemory) Translate(ctx context.Context, text, from, to string) (string, error) {
	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", from+"|"+to)
	if p.email != "" {
		query.Set("de", p.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/get?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var resp myMemoryResponse
	if err := doJSON(p.client, req, &resp); err != nil {
		return "", fmt.Errorf("mymemory: %w", err)
	}
	if status, err := resp.ResponseStatus.Int64(); err == nil && status != http.StatusOK {
		return "", fmt.Errorf("mymemory: status %d: %s", status, resp.ResponseDetails)
	}
	if resp.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("mymemory: %w", errEmptyTranslation)
	}
	return resp.ResponseData.TranslatedText, nil
}

// ModelTranslator is an instruction model able to translate text.
type ModelTranslator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

type modelProvider struct {
	model ModelTranslator
}

// NewModelProvider fills a chain slot with an instruction model.
func NewModelProvider(model ModelTranslator) Provider {
	return modelProvider{model: model}
}

func (modelProvider) Name() string { return "openrouter" }

func (p modelProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	return p.model.Translate(ctx, text, from, to)
}
