// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/config"
	"codeberg.org/oliverandrich/vocabulary-app/internal/i18n"
	"github.com/wneessen/go-mail"
)

// Service delivers verification codes over SMTP.
type Service struct {
	cfg *config.SMTPConfig
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{cfg: cfg}, nil
}

// SendVerificationCode mails the code in the locale carried by ctx.
func (s *Service) SendVerificationCode(ctx context.Context, toEmail, code string, ttl time.Duration) error {
	msg, err := s.buildVerification(ctx, toEmail, code, ttl)
	if err != nil {
		return err
	}
	return s.send(msg)
}

func (s *Service) buildVerification(ctx context.Context, toEmail, code string, ttl time.Duration) (*mail.Msg, error) {
	subject := i18n.T(ctx, "email_verification_subject")
	body := i18n.TData(ctx, "email_verification_body", map[string]any{
		"Code":  code,
		"Hours": int(ttl.Hours()),
	})

	return s.newMessage(toEmail, subject, body)
}

func (s *Service) newMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return nil, fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(msg *mail.Msg) error {
	// Build client options
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(10 * time.Second),
	}

	// Configure TLS based on config and port
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	// Add authentication if credentials are provided
	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// LogNotifier writes verification codes to the log instead of mailing them.
// It is used when no SMTP host is configured.
type LogNotifier struct{}

// SendVerificationCode logs the code.
func (LogNotifier) SendVerificationCode(ctx context.Context, toEmail, code string, ttl time.Duration) error {
	slog.InfoContext(ctx, "verification_code_issued", "email", toEmail, "code", code, "ttl", ttl)
	return nil
}
