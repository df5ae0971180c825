// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/config"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/email"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/llm"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestNewLogHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, "info", "json"))

	logger.Debug("hidden")
	logger.Info("shown", "key", "value")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "value", line["key"])
}

func TestNewLogHandler_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, "debug", "text"))

	logger.Debug("visible", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "key=value")
	assert.NotContains(t, out, "\x1b[")
}

func TestNewNotifier(t *testing.T) {
	notifier, err := newNotifier(&config.SMTPConfig{})
	require.NoError(t, err)
	assert.IsType(t, email.LogNotifier{}, notifier)

	notifier, err = newNotifier(&config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	require.NoError(t, err)
	assert.IsType(t, &email.Service{}, notifier)

	_, err = newNotifier(&config.SMTPConfig{Host: "smtp.example.com"})
	assert.Error(t, err)
}

func TestNewTranslationChain_Providers(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{}

	chain, closeCache, err := newTranslationChain(ctx, cfg, llm.New(llm.Config{}))
	require.NoError(t, err)
	defer closeCache()
	assert.Equal(t, []string{"libretranslate", "mymemory", "openrouter"}, chain.Providers())

	chain, closeCache2, err := newTranslationChain(ctx, cfg, llm.New(llm.Config{APIKey: "key"}))
	require.NoError(t, err)
	defer closeCache2()
	assert.Equal(t, []string{"libretranslate", "mymemory", "openrouter"}, chain.Providers())
}

func TestNewTranslationChain_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{Cache: config.CacheConfig{RedisURL: "redis://" + mr.Addr(), TTL: time.Hour}}

	chain, closeCache, err := newTranslationChain(context.Background(), cfg, llm.New(llm.Config{}))
	require.NoError(t, err)
	require.NotNil(t, chain)
	closeCache()
}

func TestNewTranslationChain_BadRedis(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{RedisURL: "not-a-url"}}

	_, _, err := newTranslationChain(context.Background(), cfg, llm.New(llm.Config{}))

	assert.Error(t, err)
}
