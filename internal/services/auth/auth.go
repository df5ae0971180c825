// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
	"codeberg.org/oliverandrich/vocabulary-app/internal/repository"
	"codeberg.org/oliverandrich/vocabulary-app/internal/services/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotVerified        = errors.New("please verify your email before logging in")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code has expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Store is the credential persistence the service depends on.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByVerificationCode(ctx context.Context, email, code string) (*models.User, error)
	MarkUserVerified(ctx context.Context, id int64, at time.Time) error
	SetVerificationCode(ctx context.Context, id int64, code string, expiresAt, at time.Time) error
	GetActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetActiveSession(ctx context.Context, token string, now time.Time) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Notifier delivers verification codes. Delivery is best-effort.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string, ttl time.Duration) error
}

// Options tune the service. Zero values select the defaults.
type Options struct { //nolint:govet // fieldalignment not critical
	SessionDuration time.Duration    // default 7 days
	CodeTTL         time.Duration    // default 24 hours
	BcryptCost      int              // default bcrypt.DefaultCost
	Now             func() time.Time // default time.Now
}

type Service struct {
	store    Store
	codec    *token.Codec
	notifier Notifier
	opts     Options
}

func NewService(store Store, codec *token.Codec, notifier Notifier, opts Options) *Service {
	if opts.SessionDuration <= 0 {
		opts.SessionDuration = 7 * 24 * time.Hour
	}
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		store:    store,
		codec:    codec,
		notifier: notifier,
		opts:     opts,
	}
}

func (s *Service) now() time.Time {
	return s.opts.Now().UTC()
}

// RegisterParams holds the parameters for user registration
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	User      models.UserView `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Register creates an unverified account and sends its verification code.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	email := NormalizeEmail(params.Email)

	v := &credentialRules{}
	v.email(email)
	v.password(params.Password)
	if err := v.err(); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	// Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.opts.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, passwordTooLong()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.opts.CodeTTL)
	user := &models.User{
		Email:                     email,
		PasswordHash:              string(passwordHash),
		FirstName:                 optional(params.FirstName),
		LastName:                  optional(params.LastName),
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expiresAt,
		CreatedAt:                 now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		// A concurrent registration won the race on the unique index
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", email)

	s.deliverCode(ctx, email, code)

	return user, nil
}

// VerifyEmail consumes a verification code and marks the user verified.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (*models.User, error) {
	email = NormalizeEmail(email)

	v := &credentialRules{}
	v.email(email)
	v.code(code)
	if err := v.err(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByVerificationCode(ctx, email, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Warn("verify_failed", "email", email, "reason", "invalid_code")
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	now := s.now()
	if user.CodeExpired(now) {
		slog.Warn("verify_failed", "email", email, "reason", "code_expired")
		return nil, ErrCodeExpired
	}

	if err := s.store.MarkUserVerified(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to verify user: %w", err)
	}

	user.IsVerified = true
	user.VerificationCode = nil
	user.VerificationCodeExpiresAt = nil
	user.UpdatedAt = now

	slog.Info("verify_success", "user_id", user.ID, "email", email)
	return user, nil
}

// ResendVerification issues a fresh code for an unverified account.
// Unknown and already verified addresses are accepted silently.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	v := &credentialRules{}
	v.email(email)
	if err := v.err(); err != nil {
		return err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			slog.Info("resend_skipped", "email", email, "reason", "user_not_found")
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsVerified {
		slog.Info("resend_skipped", "email", email, "reason", "already_verified")
		return nil
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	now := s.now()
	if err := s.store.SetVerificationCode(ctx, user.ID, code, now.Add(s.opts.CodeTTL), now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	s.deliverCode(ctx, email, code)
	return nil
}

// Login authenticates a verified user and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	v := &credentialRules{}
	v.email(email)
	v.password(password)
	if err := v.err(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsVerified {
		slog.Warn("login_failed", "email", email, "reason", "not_verified")
		return nil, ErrNotVerified
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	sub, err := s.activeSubscription(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	// Claim and row share one second-precision expiry
	expiresAt := now.Add(s.opts.SessionDuration).Truncate(time.Second)

	signed, err := s.codec.Encode(user.ID, user.Email, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	session := &models.Session{
		UserID:       user.ID,
		SessionToken: signed,
		ExpiresAt:    expiresAt,
		CreatedAt:    now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)

	return &LoginResult{
		User:      user.View(sub),
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes a session token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, sessionToken string) error {
	if err := s.store.DeleteSession(ctx, sessionToken); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ValidateToken requires both a live session row and a valid signed claim,
// then loads the user named by the claim.
func (s *Service) ValidateToken(ctx context.Context, sessionToken string) (*models.User, error) {
	if sessionToken == "" {
		return nil, ErrUnauthorized
	}

	session, err := s.store.GetActiveSession(ctx, sessionToken, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	claims, err := s.codec.Decode(sessionToken)
	if err != nil {
		slog.Warn("token_rejected", "session_id", session.ID, "reason", err.Error())
		return nil, ErrUnauthorized
	}
	if claims.UserID != session.UserID {
		slog.Warn("token_rejected", "session_id", session.ID, "reason", "subject_mismatch")
		return nil, ErrUnauthorized
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Profile returns the sanitized view of user with its active subscription.
func (s *Service) Profile(ctx context.Context, user *models.User) (models.UserView, error) {
	sub, err := s.activeSubscription(ctx, user.ID)
	if err != nil {
		return models.UserView{}, err
	}
	return user.View(sub), nil
}

// PurgeExpiredSessions deletes every session row that has expired.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return n, nil
}

// RunSessionCleanup purges expired sessions every interval until ctx is done.
func (s *Service) RunSessionCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Debug("session cleanup attached", "tick_every", interval)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpiredSessions(ctx)
			if err != nil {
				slog.Error("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("expired sessions purged", "count", n)
			}
		}
	}
}

func (s *Service) activeSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	sub, err := s.store.GetActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// deliverCode sends the code and only logs delivery failures.
func (s *Service) deliverCode(ctx context.Context, email, code string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendVerificationCode(ctx, email, code, s.opts.CodeTTL); err != nil {
		slog.Warn("verification_email_failed", "email", email, "error", err)
	}
}

// generateCode returns a uniformly random zero-padded 6 digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
