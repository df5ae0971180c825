// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/vocabulary-app/internal/models"
)

// GetActiveSubscription returns the newest active subscription of a user.
func (r *Repository) GetActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.GetContext(ctx, &sub, r.q(
		`SELECT id, user_id, plan_type, status, stripe_customer_id, stripe_subscription_id,
			current_period_start, current_period_end, created_at, updated_at
		FROM subscriptions WHERE user_id = ? AND status = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`),
		userID, models.SubscriptionActive)
	if err != nil {
		return nil, wrapError(err)
	}
	return &sub, nil
}

// CreateSubscription inserts a subscription row on behalf of the billing integration.
func (r *Repository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	sub.UpdatedAt = sub.CreatedAt
	err := r.db.GetContext(ctx, &sub.ID, r.q(
		`INSERT INTO subscriptions (user_id, plan_type, status, stripe_customer_id, stripe_subscription_id,
			current_period_start, current_period_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		sub.UserID, sub.PlanType, sub.Status, sub.StripeCustomerID, sub.StripeSubscriptionID,
		utcPtr(sub.CurrentPeriodStart), utcPtr(sub.CurrentPeriodEnd), sub.CreatedAt.UTC(), sub.UpdatedAt.UTC())
	return wrapError(err)
}
