// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Subscription statuses written by the billing integration.
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

// Subscription is a billing row. The auth layer only reads it.
type Subscription struct { //nolint:govet // fieldalignment: readability over optimization
	ID                   int64      `db:"id" json:"id"`
	UserID               int64      `db:"user_id" json:"user_id"`
	PlanType             string     `db:"plan_type" json:"plan_type"`
	Status               string     `db:"status" json:"status"`
	StripeCustomerID     *string    `db:"stripe_customer_id" json:"-"`
	StripeSubscriptionID *string    `db:"stripe_subscription_id" json:"-"`
	CurrentPeriodStart   *time.Time `db:"current_period_start" json:"current_period_start"`
	CurrentPeriodEnd     *time.Time `db:"current_period_end" json:"current_period_end"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// Summary returns the subset of fields exposed to clients.
func (s *Subscription) Summary() SubscriptionSummary {
	return SubscriptionSummary{
		PlanType:         s.PlanType,
		Status:           s.Status,
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}

type SubscriptionSummary struct {
	PlanType         string     `json:"plan_type"`
	Status           string     `json:"status"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
}
