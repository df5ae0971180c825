// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibreTranslate(t *testing.T) {
	var got libreRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/translate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"translatedText":"rumah"}`))
	}))
	defer srv.Close()

	p := NewLibreTranslate(srv.URL+"/", "key-1", srv.Client())
	text, err := p.Translate(context.Background(), "house", "en", "id")

	require.NoError(t, err)
	assert.Equal(t, "rumah", text)
	assert.Equal(t, libreRequest{Q: "house", Source: "en", Target: "id", Format: "text", APIKey: "key-1"}, got)
	assert.Equal(t, "libretranslate", p.Name())
}

func TestLibreTranslate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"api key required", http.StatusOK, `{"error":"Visit portal to get an API key"}`},
		{"empty", http.StatusOK, `{"translatedText":""}`},
		{"not json", http.StatusOK, `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewLibreTranslate(srv.URL, "", srv.Client()).Translate(context.Background(), "house", "en", "id")

			assert.Error(t, err)
		})
	}
}

func TestMyMemory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "good morning", r.URL.Query().Get("q"))
		assert.Equal(t, "en|id", r.URL.Query().Get("langpair"))
		assert.Equal(t, "ops@example.com", r.URL.Query().Get("de"))
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"selamat pagi"},"responseStatus":200}`))
	}))
	defer srv.Close()

	p := NewMyMemory(srv.URL, "ops@example.com", srv.Client())
	text, err := p.Translate(context.Background(), "good morning", "en", "id")

	require.NoError(t, err)
	assert.Equal(t, "selamat pagi", text)
	assert.Equal(t, "mymemory", p.Name())
}

func TestMyMemory_QuotaStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"MYMEMORY WARNING"},"responseStatus":"429","responseDetails":"quota"}`))
	}))
	defer srv.Close()

	_, err := NewMyMemory(srv.URL, "", srv.Client()).Translate(context.Background(), "house", "en", "id")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestMyMemory_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewMyMemory(srv.URL, "", srv.Client()).Translate(context.Background(), "house", "en", "id")

	assert.Error(t, err)
}

func TestProviders_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewLibreTranslate(base, "", nil).Translate(context.Background(), "house", "en", "id")
	assert.Error(t, err)
	_, err = NewMyMemory(base, "", nil).Translate(context.Background(), "house", "en", "id")
	assert.Error(t, err)
}

func TestChain_WithHTTPProviders(t *testing.T) {
	libre := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// echoes the input, which the chain must reject
		_, _ = w.Write([]byte(`{"translatedText":"Laptop"}`))
	}))
	defer libre.Close()
	memory := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"komputer jinjing"},"responseStatus":200}`))
	}))
	defer memory.Close()

	chain := NewChain([]Provider{
		NewLibreTranslate(libre.URL, "", libre.Client()),
		NewMyMemory(memory.URL, "", memory.Client()),
		Disabled{},
	}, Options{})

	got := chain.Translate(context.Background(), "laptop", "", "")

	assert.Equal(t, Result{Text: "komputer jinjing", Source: "mymemory"}, got)
}

type stubModel struct {
	answer string
	err    error
}

func (s stubModel) Translate(context.Context, string, string, string) (string, error) {
	return s.answer, s.err
}

func TestModelProvider(t *testing.T) {
	p := NewModelProvider(stubModel{answer: "kucing"})

	text, err := p.Translate(context.Background(), "cat", "en", "id")

	require.NoError(t, err)
	assert.Equal(t, "kucing", text)
	assert.Equal(t, "openrouter", p.Name())

	_, err = NewModelProvider(stubModel{err: errors.New("down")}).Translate(context.Background(), "cat", "en", "id")
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Translate(context.Background(), "cat", "en", "id")

	assert.ErrorIs(t, err, ErrDisabled)
	assert.Equal(t, "disabled", Disabled{}.Name())
	assert.Equal(t, "openrouter", Disabled{Slot: "openrouter"}.Name())
}
