package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/notification"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/payment"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/repository"
)

// CardVerifier checks the state of a card payment intent at the provider.
type CardVerifier interface {
	RetrieveIntent(ctx context.Context, id string) (*payment.Intent, error)
}

// MobileMoneyVerifier checks the state of a mobile money transaction at the
// provider.
type MobileMoneyVerifier interface {
	RetrieveTransaction(ctx context.Context, id string) (*payment.Transaction, error)
}

// paymentService implements PaymentService.
type paymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	card        CardVerifier
	momo        MobileMoneyVerifier
	deduper     Deduper
	notifier    notification.Notifier
	logger      zerolog.Logger
}

// NewPaymentService creates the payment confirmation service.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	card CardVerifier,
	momo MobileMoneyVerifier,
	deduper Deduper,
	notifier notification.Notifier,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		card:        card,
		momo:        momo,
		deduper:     deduper,
		notifier:    notifier,
		logger:      logger.With().Str("service", "payment").Logger(),
	}
}

// ConfirmCard verifies an intent with the card provider. The provider is
// the source of truth: the client claiming success is never enough.
func (s *paymentService) ConfirmCard(ctx context.Context, intentID string) (*model.Payment, error) {
	pmt, err := s.paymentRepo.GetByTransactionID(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if pmt == nil {
		return nil, model.ErrPaymentNotFound
	}
	if pmt.Status.Terminal() {
		return pmt, nil
	}

	intent, err := s.card.RetrieveIntent(ctx, intentID)
	if err != nil {
		s.logger.Error().Err(err).Str("intent_id", intentID).Msg("failed to retrieve payment intent")
		return nil, model.ErrPaymentVerify
	}

	switch intent.Status {
	case payment.IntentStatusSucceeded:
		return s.completePayment(ctx, pmt)
	case payment.IntentStatusCanceled:
		return s.failPayment(ctx, pmt, "payment intent canceled")
	default:
		// Still processing at the provider; leave the payment pending.
		return pmt, nil
	}
}

// HandleWebhook applies a provider webhook. Redis dedupe is best effort;
// the status-guarded updates keep replays harmless either way.
func (s *paymentService) HandleWebhook(ctx context.Context, event payment.WebhookEvent) (*model.Payment, error) {
	pmt, err := s.paymentRepo.GetByTransactionID(ctx, event.IntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if pmt == nil {
		return nil, model.ErrPaymentNotFound
	}
	if pmt.Status.Terminal() {
		return pmt, nil
	}

	// The dedupe key is claimed only for a still-pending payment and
	// released again if applying the event fails, so the provider's retry
	// of that event is processed instead of swallowed.
	dedupeKey := "webhook:" + event.ID
	first, err := s.deduper.FirstSeen(ctx, dedupeKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("webhook dedupe check failed, processing anyway")
		first = true
	}
	if !first {
		return pmt, nil
	}

	switch event.Type {
	case payment.WebhookIntentSucceeded:
		res, err := s.completePayment(ctx, pmt)
		if err != nil {
			s.releaseDedupe(ctx, dedupeKey, event.ID)
			return nil, err
		}
		return res, nil
	case payment.WebhookIntentFailed:
		reason := event.FailureReason
		if reason == "" {
			reason = "payment failed"
		}
		res, err := s.failPayment(ctx, pmt, reason)
		if err != nil {
			s.releaseDedupe(ctx, dedupeKey, event.ID)
			return nil, err
		}
		return res, nil
	default:
		s.logger.Debug().Str("type", event.Type).Msg("ignoring unhandled webhook event type")
		return pmt, nil
	}
}

// releaseDedupe drops a claimed webhook dedupe key after a failed apply.
// Best effort: if the release itself fails, the TTL clears the key and the
// status guards keep the payment consistent in the meantime.
func (s *paymentService) releaseDedupe(ctx context.Context, key, eventID string) {
	if err := s.deduper.Forget(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("event_id", eventID).Msg("failed to release webhook dedupe key")
	}
}

// CheckMobileMoney polls the mobile money provider for a pending payment.
func (s *paymentService) CheckMobileMoney(ctx context.Context, paymentID uuid.UUID) (*model.Payment, error) {
	pmt, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if pmt == nil {
		return nil, model.ErrPaymentNotFound
	}
	if pmt.Status.Terminal() {
		return pmt, nil
	}
	// Only mobile money is pull-based; card payments settle through the
	// webhook or the client confirm call.
	if pmt.Method != "mobile_money" || pmt.TransactionID == nil {
		return pmt, nil
	}

	tx, err := s.momo.RetrieveTransaction(ctx, *pmt.TransactionID)
	if err != nil {
		s.logger.Error().Err(err).Str("transaction_id", *pmt.TransactionID).Msg("failed to retrieve mobile money transaction")
		return nil, model.ErrPaymentVerify
	}

	status, terminal := payment.MapTransactionStatus(tx.Status)
	if !terminal {
		return pmt, nil
	}

	if status == model.PaymentStatusCompleted {
		return s.completePayment(ctx, pmt)
	}
	return s.failPayment(ctx, pmt, "mobile money transaction "+tx.Status)
}

// completePayment marks the payment completed and confirms its order, both
// in one transaction. The status guard makes concurrent confirmations of
// the same payment converge: only the first one applies.
func (s *paymentService) completePayment(ctx context.Context, pmt *model.Payment) (*model.Payment, error) {
	order, _, err := s.orderRepo.GetByID(ctx, pmt.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	applied, err := s.paymentRepo.MarkCompleted(ctx, tx, pmt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark payment completed: %w", err)
	}
	if !applied {
		// Lost the race with another confirmation path; re-read and return.
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return s.paymentRepo.GetByID(ctx, pmt.ID)
	}

	if _, err = s.orderRepo.ConfirmIfPending(ctx, tx, pmt.OrderID); err != nil {
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}

	pmt.Status = model.PaymentStatusCompleted
	pmt.FailureReason = nil

	s.logger.Info().
		Str("payment_id", pmt.ID.String()).
		Str("order_id", pmt.OrderID.String()).
		Msg("payment completed")

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.notifier.Notify(nctx, notification.EventPaymentCompleted, order.UserID, map[string]any{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"payment_id":   pmt.ID.String(),
			"amount":       pmt.Amount,
		})
	}()

	return pmt, nil
}

// failPayment marks a pending payment failed. The order stays where it is
// so the customer can retry or staff can follow up.
func (s *paymentService) failPayment(ctx context.Context, pmt *model.Payment, reason string) (*model.Payment, error) {
	applied, err := s.paymentRepo.MarkFailed(ctx, pmt.ID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to mark payment failed: %w", err)
	}
	if !applied {
		return s.paymentRepo.GetByID(ctx, pmt.ID)
	}

	pmt.Status = model.PaymentStatusFailed
	pmt.FailureReason = &reason

	s.logger.Warn().
		Str("payment_id", pmt.ID.String()).
		Str("order_id", pmt.OrderID.String()).
		Str("reason", reason).
		Msg("payment failed")

	order, _, err := s.orderRepo.GetByID(ctx, pmt.OrderID)
	if err != nil || order == nil {
		return pmt, nil
	}

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.notifier.Notify(nctx, notification.EventPaymentFailed, order.UserID, map[string]any{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"payment_id":   pmt.ID.String(),
			"reason":       reason,
		})
	}()

	return pmt, nil
}
