// Package payment initiates and confirms payments across the supported
// methods: card, mobile money and cash.
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
)

// Result is the uniform outcome of a payment initiation. Provider errors are
// captured in Err with Success=false; they never propagate as a raised error
// because the caller is inside a database transaction that must roll back
// deterministically.
type Result struct {
	Success bool

	// ProviderRef is the provider transaction reference to persist.
	ProviderRef string

	// Status is the payment status after initiation.
	Status model.PaymentStatus

	// OrderConfirmed reports whether the order can be confirmed in the same
	// transaction (cash), as opposed to waiting for async confirmation.
	OrderConfirmed bool

	// ClientPayload carries client-facing data such as a card client secret.
	ClientPayload map[string]string

	// Err is the internal diagnostic. It is logged, never shown to clients.
	Err error
}

// Gateway dispatches payment initiation to the provider matching the method.
type Gateway struct {
	card     *CardClient
	momo     *MobileMoneyClient
	currency string
	logger   zerolog.Logger
}

// NewGateway creates a payment gateway over the given provider clients.
func NewGateway(card *CardClient, momo *MobileMoneyClient, currency string, logger zerolog.Logger) *Gateway {
	return &Gateway{
		card:     card,
		momo:     momo,
		currency: currency,
		logger:   logger.With().Str("component", "payment-gateway").Logger(),
	}
}

// Initiate starts a payment of the order total using the given method. The
// type switch is exhaustive over the model.PaymentMethod variants.
func (g *Gateway) Initiate(ctx context.Context, order *model.Order, method model.PaymentMethod) Result {
	switch m := method.(type) {
	case model.Card:
		return g.initiateCard(ctx, order)
	case model.MobileMoney:
		return g.initiateMobileMoney(ctx, order, m)
	case model.Cash:
		return g.initiateCash(order)
	default:
		return Result{Success: false, Err: fmt.Errorf("unsupported payment method %q", method.Name())}
	}
}

func (g *Gateway) initiateCard(ctx context.Context, order *model.Order) Result {
	intent, err := g.card.CreateIntent(ctx, order.Total, g.currency, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
	})
	if err != nil {
		g.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("card intent creation failed")
		return Result{Success: false, Err: fmt.Errorf("create payment intent: %w", err)}
	}

	g.logger.Info().
		Str("order_id", order.ID.String()).
		Str("intent_id", intent.ID).
		Msg("card payment intent created")

	return Result{
		Success:     true,
		ProviderRef: intent.ID,
		Status:      model.PaymentStatusPending,
		ClientPayload: map[string]string{
			"clientSecret": intent.ClientSecret,
		},
	}
}

func (g *Gateway) initiateMobileMoney(ctx context.Context, order *model.Order, m model.MobileMoney) Result {
	phone, err := NormalizePhone(m.Phone)
	if err != nil {
		return Result{Success: false, Err: fmt.Errorf("normalize phone: %w", err)}
	}

	txn, err := g.momo.CreateTransaction(ctx, order.Total, g.currency, phone, m.Provider, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
	})
	if err != nil {
		g.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("mobile money transaction creation failed")
		return Result{Success: false, Err: fmt.Errorf("create mobile money transaction: %w", err)}
	}

	g.logger.Info().
		Str("order_id", order.ID.String()).
		Str("transaction_id", txn.ID).
		Str("provider", m.Provider).
		Msg("mobile money transaction created")

	return Result{
		Success:     true,
		ProviderRef: txn.ID,
		Status:      model.PaymentStatusPending,
		ClientPayload: map[string]string{
			"transactionId": txn.ID,
		},
	}
}

// initiateCash needs no external call: the money is collected at handover.
// The payment stays pending but the order is confirmed immediately. A local
// transaction id keeps the payment traceable.
func (g *Gateway) initiateCash(order *model.Order) Result {
	ref := "CASH-" + uuid.NewString()

	g.logger.Info().
		Str("order_id", order.ID.String()).
		Str("transaction_id", ref).
		Msg("cash payment registered")

	return Result{
		Success:        true,
		ProviderRef:    ref,
		Status:         model.PaymentStatusPending,
		OrderConfirmed: true,
	}
}
