// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/vocabulary-app/internal/config"
	authsvc "codeberg.org/oliverandrich/vocabulary-app/internal/services/auth"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/email"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/translate"
)

// newNotifier selects SMTP delivery when a host is configured and logs the
// codes otherwise.
func newNotifier(cfg *config.SMTPConfig) (authsvc.Notifier, error) {
	if !cfg.Enabled() {
		slog.Warn("SMTP not configured, verification codes are only logged")
		return email.LogNotifier{}, nil
	}
	svc, err := email.NewService(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("SMTP configured", "host", cfg.Host, "port", cfg.Port)
	return svc, nil
}

// optionalModel is an instruction model that may lack credentials.
type optionalModel interface {
	translate.ModelTranslator
	Enabled() bool
}

// newTranslationChain builds the provider chain. The third slot is the
// instruction model when it has an API key. The returned func releases the
// cache connection.
func newTranslationChain(ctx context.Context, cfg *config.Config, model optionalModel) (*translate.Chain, func(), error) {
	client := &http.Client{}

	var slot3 translate.Provider = translate.Disabled{Slot: "openrouter"}
	if model.Enabled() {
		slot3 = translate.NewModelProvider(model)
	}

	providers := []translate.Provider{
		translate.NewLibreTranslate(cfg.Translate.LibreTranslateURL, cfg.Translate.LibreTranslateAPIKey, client),
		translate.NewMyMemory(cfg.Translate.MyMemoryURL, cfg.Translate.MyMemoryEmail, client),
		slot3,
	}

	opts := translate.Options{Timeout: cfg.Translate.ProviderTimeout}
	closeCache := func() {}

	if cfg.Cache.RedisURL != "" {
		rdb, err := translate.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		opts.Cache = translate.NewRedisCache(rdb, cfg.Cache.TTL)
		closeCache = func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis", "error", err)
			}
		}
	}

	chain := translate.NewChain(providers, opts)
	slog.Info("translation chain configured", "providers", chain.Providers(), "cache", opts.Cache != nil)
	return chain, closeCache, nil
}
