// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

// DefaultJWTSecret is used when no signing secret is configured.
const DefaultJWTSecret = "your-secret-key"

var (
	configPath = "config.toml"
	configFile = altsrc.NewStringPtrSourcer(&configPath)
)

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	Translate TranslateConfig
	LLM       LLMConfig
	Cache     CacheConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	MaxBodySize int // in MB
	CORSOrigins []string
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	URL string // SQLite path or postgres:// URL
}

type AuthConfig struct { //nolint:govet // fieldalignment not critical for config structs
	JWTSecret           string
	SessionDuration     time.Duration
	VerificationCodeTTL time.Duration
	CleanupInterval     time.Duration // 0 disables the session sweeper
}

// UsesDefaultSecret reports whether the signing secret was left at its default.
func (c *AuthConfig) UsesDefaultSecret() bool {
	return c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// Enabled reports whether outbound mail is configured.
func (c *SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type TranslateConfig struct { //nolint:govet // fieldalignment not critical for config structs
	LibreTranslateURL    string
	LibreTranslateAPIKey string
	MyMemoryURL          string
	MyMemoryEmail        string
	ProviderTimeout      time.Duration
}

type LLMConfig struct {
	URL    string
	APIKey string
	Model  string
}

// Enabled reports whether an API key for the instruction model is set.
func (c *LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

type CacheConfig struct {
	RedisURL string // empty disables the translation cache
	TTL      time.Duration
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			MaxBodySize: int(cmd.Int("max-body-size")),
			CORSOrigins: splitOrigins(cmd.StringSlice("cors-origins")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			URL: cmd.String("database-url"),
		},
		Auth: AuthConfig{
			JWTSecret:           cmd.String("jwt-secret"),
			SessionDuration:     cmd.Duration("session-duration"),
			VerificationCodeTTL: cmd.Duration("verification-code-ttl"),
			CleanupInterval:     cmd.Duration("session-cleanup-interval"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Translate: TranslateConfig{
			LibreTranslateURL:    cmd.String("libretranslate-url"),
			LibreTranslateAPIKey: cmd.String("libretranslate-api-key"),
			MyMemoryURL:          cmd.String("mymemory-url"),
			MyMemoryEmail:        cmd.String("mymemory-email"),
			ProviderTimeout:      cmd.Duration("provider-timeout"),
		},
		LLM: LLMConfig{
			URL:    cmd.String("openrouter-url"),
			APIKey: cmd.String("openrouter-api-key"),
			Model:  cmd.String("openrouter-model"),
		},
		Cache: CacheConfig{
			RedisURL: cmd.String("redis-url"),
			TTL:      cmd.Duration("cache-ttl"),
		},
	}

	applyDefaults(cfg)

	return cfg
}

// applyDefaults fills values that must never be zero at runtime.
func applyDefaults(cfg *Config) {
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DefaultJWTSecret
	}
	if cfg.Auth.SessionDuration <= 0 {
		cfg.Auth.SessionDuration = 7 * 24 * time.Hour
	}
	if cfg.Auth.VerificationCodeTTL <= 0 {
		cfg.Auth.VerificationCodeTTL = 24 * time.Hour
	}
	if cfg.Translate.ProviderTimeout <= 0 {
		cfg.Translate.ProviderTimeout = 10 * time.Second
	}
	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 24 * time.Hour
	}
}

// splitOrigins accepts both repeated flags and comma separated env values.
func splitOrigins(values []string) []string {
	var origins []string
	for _, v := range values {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return origins
}

// IsPostgres reports whether the database URL selects the Postgres driver.
func IsPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "config.toml",
			Usage:       "Path to the TOML configuration file",
			Sources:     cli.EnvVars("CONFIG"),
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "0.0.0.0",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   1,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringSliceFlag{
			Name:    "cors-origins",
			Value:   []string{"http://localhost:3000"},
			Usage:   "Allowed CORS origins",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CORS_ORIGINS"), toml.TOML("server.cors_origins", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-url",
			Value:   "./data/vocabulary.db",
			Usage:   "SQLite path or postgres:// connection URL",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_URL"), toml.TOML("database.url", configFile)),
		},
		// Auth flags
		&cli.StringFlag{
			Name:    "jwt-secret",
			Value:   DefaultJWTSecret,
			Usage:   "Secret used to sign session tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("JWT_SECRET"), toml.TOML("auth.jwt_secret", configFile)),
		},
		&cli.DurationFlag{
			Name:    "session-duration",
			Value:   7 * 24 * time.Hour,
			Usage:   "Lifetime of a login session",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_DURATION"), toml.TOML("auth.session_duration", configFile)),
		},
		&cli.DurationFlag{
			Name:    "verification-code-ttl",
			Value:   24 * time.Hour,
			Usage:   "Lifetime of an email verification code",
			Sources: cli.NewValueSourceChain(cli.EnvVar("VERIFICATION_CODE_TTL"), toml.TOML("auth.verification_code_ttl", configFile)),
		},
		&cli.DurationFlag{
			Name:    "session-cleanup-interval",
			Value:   time.Hour,
			Usage:   "Interval for purging expired sessions (0 disables)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_CLEANUP_INTERVAL"), toml.TOML("auth.session_cleanup_interval", configFile)),
		},
		// SMTP flags
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host (empty logs verification codes instead of sending)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_SERVER"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   465,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Value:   "noreply@vocabularyapp.com",
			Usage:   "Sender address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_EMAIL"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Vocabulary App",
			Usage:   "Sender display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		// Translation flags
		&cli.StringFlag{
			Name:    "libretranslate-url",
			Value:   "https://libretranslate.com",
			Usage:   "Base URL of the primary translation provider",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LIBRETRANSLATE_URL"), toml.TOML("translate.libretranslate_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "libretranslate-api-key",
			Usage:   "API key for the primary translation provider",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LIBRETRANSLATE_API_KEY"), toml.TOML("translate.libretranslate_api_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "mymemory-url",
			Value:   "https://api.mymemory.translated.net",
			Usage:   "Base URL of the secondary translation provider",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MYMEMORY_URL"), toml.TOML("translate.mymemory_url", configFile)),
		},
		&cli.StringFlag{
			Name:    "mymemory-email",
			Usage:   "Contact email sent to the secondary provider for a higher quota",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MYMEMORY_EMAIL"), toml.TOML("translate.mymemory_email", configFile)),
		},
		&cli.DurationFlag{
			Name:    "provider-timeout",
			Value:   10 * time.Second,
			Usage:   "Timeout for each outbound translation or model call",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PROVIDER_TIMEOUT"), toml.TOML("translate.provider_timeout", configFile)),
		},
		// LLM flags
		&cli.StringFlag{
			Name:    "openrouter-url",
			Value:   "https://openrouter.ai/api/v1/chat/completions",
			Usage:   "Chat completions endpoint",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OPENROUTER_URL"), toml.TOML("llm.url", configFile)),
		},
		&cli.StringFlag{
			Name:    "openrouter-api-key",
			Usage:   "API key for the chat completions endpoint",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OPENROUTER_API_KEY"), toml.TOML("llm.api_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "openrouter-model",
			Value:   "openrouter/sonoma-dusk-alpha",
			Usage:   "Model used for explanations and extraction",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OPENROUTER_MODEL"), toml.TOML("llm.model", configFile)),
		},
		// Cache flags
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis URL for the translation cache (empty disables caching)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_URL"), toml.TOML("cache.redis_url", configFile)),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Value:   24 * time.Hour,
			Usage:   "Lifetime of cached translations",
			Sources: cli.NewValueSourceChain(cli.EnvVar("CACHE_TTL"), toml.TOML("cache.ttl", configFile)),
		},
	}
}
