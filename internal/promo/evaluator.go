// Package promo validates promo codes and computes discounts.
package promo

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
)

// Evaluator validates a promo code against its activity window, order
// minimum and usage caps.
type Evaluator struct {
	logger zerolog.Logger
}

// NewEvaluator creates a promo evaluator.
func NewEvaluator(logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		logger: logger.With().Str("component", "promo-evaluator").Logger(),
	}
}

// Evaluate runs the validity checks in order and returns the first failing
// one as a domain error, or nil if the code is redeemable. Callers must
// re-invoke it with fresh usage counts immediately before committing a
// redemption; the counts passed in decide the cap checks, nothing is read
// here.
func (e *Evaluator) Evaluate(code *model.PromoCode, counts model.PromoUsageCounts, orderAmount int64, now time.Time) error {
	if !code.IsActive {
		e.logger.Debug().Str("code", code.Code).Msg("promo code inactive")
		return model.ErrPromoInactive
	}

	if code.StartsAt != nil && now.Before(*code.StartsAt) {
		e.logger.Debug().Str("code", code.Code).Time("starts_at", *code.StartsAt).Msg("promo code not started")
		return model.ErrPromoNotStarted
	}

	if code.ExpiresAt != nil && now.After(*code.ExpiresAt) {
		e.logger.Debug().Str("code", code.Code).Time("expires_at", *code.ExpiresAt).Msg("promo code expired")
		return model.ErrPromoExpired
	}

	if orderAmount < code.MinimumOrderAmount {
		e.logger.Debug().
			Str("code", code.Code).
			Int64("order_amount", orderAmount).
			Int64("minimum", code.MinimumOrderAmount).
			Msg("order below promo minimum")
		return model.ErrPromoMinimum
	}

	if code.MaxUses != nil && counts.Total >= *code.MaxUses {
		e.logger.Debug().
			Str("code", code.Code).
			Int("total_uses", counts.Total).
			Int("max_uses", *code.MaxUses).
			Msg("promo global cap reached")
		return model.ErrPromoGlobalCap
	}

	if code.MaxUsesPerUser != nil && counts.ByUser >= *code.MaxUsesPerUser {
		e.logger.Debug().
			Str("code", code.Code).
			Int("user_uses", counts.ByUser).
			Int("max_uses_per_user", *code.MaxUsesPerUser).
			Msg("promo per-user cap reached")
		return model.ErrPromoUserCap
	}

	return nil
}

// Discount computes the discount amount for a subtotal. Fixed discounts are
// capped at the order amount so the discount never exceeds what is owed.
func (e *Evaluator) Discount(code *model.PromoCode, orderAmount int64) int64 {
	switch code.Type {
	case model.PromoTypePercentage:
		return orderAmount * code.Value / 100
	case model.PromoTypeFixed:
		if code.Value > orderAmount {
			return orderAmount
		}
		return code.Value
	default:
		return 0
	}
}
