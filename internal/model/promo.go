package model

import (
	"time"

	"github.com/google/uuid"
)

// PromoType distinguishes percentage discounts from fixed-amount discounts.
type PromoType string

const (
	PromoTypePercentage PromoType = "percentage"
	PromoTypeFixed      PromoType = "fixed"
)

// PromoCode defines a discount rule with activity window and usage caps.
// Value is a percentage for PromoTypePercentage and a minor-unit amount for
// PromoTypeFixed. Nil caps and window bounds mean unlimited/unbounded.
type PromoCode struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Code               string     `json:"code" db:"code"`
	Type               PromoType  `json:"type" db:"type"`
	Value              int64      `json:"value" db:"value"`
	MinimumOrderAmount int64      `json:"minimumOrderAmount" db:"minimum_order_amount"`
	IsActive           bool       `json:"isActive" db:"is_active"`
	StartsAt           *time.Time `json:"startsAt,omitempty" db:"starts_at"`
	ExpiresAt          *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	MaxUses            *int       `json:"maxUses,omitempty" db:"max_uses"`
	MaxUsesPerUser     *int       `json:"maxUsesPerUser,omitempty" db:"max_uses_per_user"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
}

// PromoUsage is an append-only ledger entry recording one redemption.
type PromoUsage struct {
	ID             uuid.UUID `json:"id" db:"id"`
	PromoCodeID    uuid.UUID `json:"promoCodeId" db:"promo_code_id"`
	UserID         uuid.UUID `json:"userId" db:"user_id"`
	OrderID        uuid.UUID `json:"orderId" db:"order_id"`
	DiscountAmount int64     `json:"discountAmount" db:"discount_amount"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// PromoUsageCounts holds the live redemption counts a promo code is
// evaluated against.
type PromoUsageCounts struct {
	Total  int
	ByUser int
}
