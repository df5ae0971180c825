// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"net"
	"testing"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/config"
	"codeberg.org/oliverandrich/vocabulary-app/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func validSMTPConfig() *config.SMTPConfig {
	return &config.SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "testuser",
		Password: "testpass",
		From:     "noreply@example.com",
		FromName: "Test App",
		TLS:      true,
	}
}

func TestNewService(t *testing.T) {
	svc, err := NewService(validSMTPConfig())

	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewService_MissingHost(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.Host = ""

	_, err := NewService(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP host is required")
}

func TestNewService_MissingFrom(t *testing.T) {
	cfg := validSMTPConfig()
	cfg.From = ""

	_, err := NewService(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP from address is required")
}

func TestBuildVerification_English(t *testing.T) {
	require.NoError(t, i18n.Init())
	svc, err := NewService(validSMTPConfig())
	require.NoError(t, err)

	msg, err := svc.buildVerification(context.Background(), "user@example.com", "042517", 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, []string{"Verify your email - Vocabulary App"}, msg.GetGenHeader(mail.HeaderSubject))
	to, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"user@example.com"}, to)
}

func TestBuildVerification_Indonesian(t *testing.T) {
	require.NoError(t, i18n.Init())
	svc, err := NewService(validSMTPConfig())
	require.NoError(t, err)
	ctx := i18n.WithLocale(context.Background(), i18n.Indonesian)

	msg, err := svc.buildVerification(ctx, "user@example.com", "042517", 24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, []string{"Verifikasi email Anda - Vocabulary App"}, msg.GetGenHeader(mail.HeaderSubject))
}

func TestBuildVerification_InvalidRecipient(t *testing.T) {
	require.NoError(t, i18n.Init())
	svc, err := NewService(validSMTPConfig())
	require.NoError(t, err)

	_, err = svc.buildVerification(context.Background(), "not an address", "042517", 24*time.Hour)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "setting to address")
}

func TestSendVerificationCode_ConnectionRefused(t *testing.T) {
	require.NoError(t, i18n.Init())

	// Reserve a port and release it so nothing is listening there
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg := &config.SMTPConfig{Host: "127.0.0.1", Port: port, From: "noreply@example.com"}
	svc, err := NewService(cfg)
	require.NoError(t, err)

	err = svc.SendVerificationCode(context.Background(), "user@example.com", "042517", 24*time.Hour)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sending email")
}

func TestLogNotifier(t *testing.T) {
	err := LogNotifier{}.SendVerificationCode(context.Background(), "user@example.com", "042517", time.Hour)

	assert.NoError(t, err)
}
