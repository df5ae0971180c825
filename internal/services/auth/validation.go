// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"fmt"
	"strings"

	"codeberg.org/oliverandrich/vocabulary-app/internal/validate"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
	// CodeLength is the number of digits in a verification code.
	CodeLength = 6
)

var (
	emailRule    = "notblank,email"
	passwordRule = fmt.Sprintf("min=%d,maxbytes=%d", MinPasswordLength, MaxPasswordBytes)
	codeRule     = fmt.Sprintf("digits=%d", CodeLength)
)

// credentialRules holds the checks shared by the auth operations.
type credentialRules struct {
	validate.Validator
}

func (v *credentialRules) email(value string) {
	v.Check("email", value, emailRule)
}

func (v *credentialRules) password(value string) {
	v.Check("password", value, passwordRule)
}

func (v *credentialRules) code(value string) {
	v.Check("verification_code", value, codeRule)
}

func (v *credentialRules) err() error {
	return v.Err()
}

// passwordTooLong reports a password bcrypt refused to hash.
func passwordTooLong() error {
	v := &credentialRules{}
	v.Add("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	return v.err()
}

// NormalizeEmail trims and lower-cases an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
