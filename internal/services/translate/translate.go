// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package translate implements the ordered translation fallback chain.
package translate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// Unavailable is returned when neither a provider nor the dictionary answered.
const Unavailable = "Translation unavailable"

const (
	DefaultFrom = "en"
	DefaultTo   = "id"

	defaultTimeout = 10 * time.Second
)

// Result sources besides provider names.
const (
	SourceCache      = "cache"
	SourceDictionary = "dictionary"
	SourceNone       = "none"
)

// ErrDisabled is returned by a provider slot without a backing service.
var ErrDisabled = errors.New("provider disabled")

// Provider is one link of the chain.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Cache stores accepted provider answers.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Result is the outcome of a chain run.
type Result struct {
	Text   string `json:"translation"`
	Source string `json:"source"`
}

// Options tune the chain. Zero values select the defaults.
type Options struct {
	Timeout time.Duration // per provider call, default 10s
	Cache   Cache         // optional
}

// Chain tries providers in order and falls back to a static dictionary.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	cache     Cache
}

func NewChain(providers []Provider, opts Options) *Chain {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Chain{
		providers: providers,
		timeout:   opts.Timeout,
		cache:     opts.Cache,
	}
}

// Providers returns the provider names in chain order.
func (c *Chain) Providers() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Translate never fails. Empty from/to select English to Indonesian.
func (c *Chain) Translate(ctx context.Context, text, from, to string) Result {
	from, to = languages(from, to)
	original := Normalize(text)
	if original == "" {
		return Result{Text: Unavailable, Source: SourceNone}
	}

	key := cacheKey(from, to, original)
	if hit, ok := c.cached(ctx, key); ok {
		return Result{Text: hit, Source: SourceCache}
	}

	for _, p := range c.providers {
		candidate, err := c.call(ctx, p, original, from, to)
		if err != nil {
			if !errors.Is(err, ErrDisabled) {
				slog.Warn("translate_provider_failed", "provider", p.Name(), "error", err)
			}
			continue
		}
		candidate = strings.TrimSpace(candidate)
		if !Accept(candidate, original) {
			slog.Debug("translate_candidate_rejected", "provider", p.Name(), "candidate", candidate)
			continue
		}
		c.store(ctx, key, candidate)
		return Result{Text: candidate, Source: p.Name()}
	}

	if word, ok := lookup(from, to, original); ok {
		return Result{Text: word, Source: SourceDictionary}
	}

	slog.Info("translate_unavailable", "from", from, "to", to)
	return Result{Text: Unavailable, Source: SourceNone}
}

func (c *Chain) call(ctx context.Context, p Provider, text, from, to string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return p.Translate(ctx, text, from, to)
}

func (c *Chain) cached(ctx context.Context, key string) (string, bool) {
	if c.cache == nil {
		return "", false
	}
	value, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("translate_cache_failed", "op", "get", "error", err)
		return "", false
	}
	return value, ok
}

func (c *Chain) store(ctx context.Context, key, value string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, value); err != nil {
		slog.Warn("translate_cache_failed", "op", "set", "error", err)
	}
}

// Normalize trims and lower-cases text before it is sent to providers.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Accept reports whether a provider candidate is a plausible translation of
// original. Echoes of the input and provider failure notices are rejected.
func Accept(candidate, original string) bool {
	if utf8.RuneCountInString(candidate) <= 1 {
		return false
	}
	if strings.EqualFold(candidate, original) {
		return false
	}
	lower := strings.ToLower(candidate)
	if strings.Contains(lower, "translation") && strings.Contains(lower, "fail") {
		return false
	}
	return true
}

func languages(from, to string) (string, string) {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if from == "" {
		from = DefaultFrom
	}
	if to == "" {
		to = DefaultTo
	}
	return from, to
}

func cacheKey(from, to, text string) string {
	return "translate:" + from + ":" + to + ":" + text
}

// Disabled occupies a provider slot that has no backing service.
type Disabled struct {
	Slot string
}

func (d Disabled) Name() string {
	if d.Slot == "" {
		return "disabled"
	}
	return d.Slot
}

func (Disabled) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrDisabled
}
