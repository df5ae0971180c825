// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// User is an account row. An unverified user carries a verification code;
// verification clears both the code and its expiry.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                        int64      `db:"id" json:"id"`
	Email                     string     `db:"email" json:"email"`
	PasswordHash              string     `db:"password_hash" json:"-"`
	FirstName                 *string    `db:"first_name" json:"first_name,omitempty"`
	LastName                  *string    `db:"last_name" json:"last_name,omitempty"`
	IsVerified                bool       `db:"is_verified" json:"is_verified"`
	VerificationCode          *string    `db:"verification_code" json:"-"`
	VerificationCodeExpiresAt *time.Time `db:"verification_code_expires_at" json:"-"`
	CreatedAt                 time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time  `db:"updated_at" json:"updated_at"`
}

// CodeExpired reports whether the pending verification code has expired at now.
func (u *User) CodeExpired(now time.Time) bool {
	return u.VerificationCodeExpiresAt == nil || !now.Before(*u.VerificationCodeExpiresAt)
}

// View returns the client-safe representation of the user.
func (u *User) View(sub *Subscription) UserView {
	v := UserView{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsVerified: u.IsVerified,
	}
	if sub != nil {
		summary := sub.Summary()
		v.Subscription = &summary
	}
	return v
}

// UserView is the sanitized user returned by login and profile.
type UserView struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64                `json:"id"`
	Email        string               `json:"email"`
	FirstName    *string              `json:"first_name"`
	LastName     *string              `json:"last_name"`
	IsVerified   bool                 `json:"is_verified"`
	Subscription *SubscriptionSummary `json:"subscription"`
}
