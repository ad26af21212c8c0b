package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Terminal reports whether the payment can no longer change state through
// confirmation. Confirmation calls on a terminal payment are no-ops.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusRefunded
}

// PaymentMethod is a closed set of payment method variants. Exactly one of
// Card, MobileMoney or Cash implements it, so gateway dispatch is an
// exhaustive type switch rather than string comparison.
type PaymentMethod interface {
	Name() string
}

// Card pays through the card provider's payment-intent API. Confirmation is
// asynchronous: client confirm call or provider webhook.
type Card struct{}

func (Card) Name() string { return "card" }

// MobileMoney pays through the mobile money provider. Confirmation is
// asynchronous via status polling.
type MobileMoney struct {
	Phone    string
	Provider string
}

func (MobileMoney) Name() string { return "mobile_money" }

// Cash is collected at handover; no external provider is involved.
type Cash struct{}

func (Cash) Name() string { return "cash" }

// Payment is the one-to-one payment record for an order. Amount always
// equals the order total. Status is mutated only through status-guarded
// updates because webhook and client confirmation can race on the same row.
type Payment struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	OrderID           uuid.UUID         `json:"orderId" db:"order_id"`
	Method            string            `json:"method" db:"method"`
	Status            PaymentStatus     `json:"status" db:"status"`
	Amount            int64             `json:"amount" db:"amount"`
	Currency          string            `json:"currency" db:"currency"`
	TransactionID     *string           `json:"transactionId,omitempty" db:"transaction_id"`
	MobileMoneyPhone  *string           `json:"mobileMoneyPhone,omitempty" db:"mobile_money_phone"`
	MobileMoneyIssuer *string           `json:"mobileMoneyProvider,omitempty" db:"mobile_money_provider"`
	PaymentData       map[string]string `json:"paymentData,omitempty" db:"payment_data"`
	FailureReason     *string           `json:"failureReason,omitempty" db:"failure_reason"`
	CreatedAt         time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time         `json:"updatedAt" db:"updated_at"`
}
