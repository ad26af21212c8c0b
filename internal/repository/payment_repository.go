package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
)

// paymentRepository implements PaymentRepository using PostgreSQL.
type paymentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(pool *pgxpool.Pool, logger zerolog.Logger) PaymentRepository {
	return &paymentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "payment").Logger(),
	}
}

// CreatePayment inserts a payment within the provided transaction.
func (r *paymentRepository) CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, method, status, amount, currency, transaction_id,
		                      mobile_money_phone, mobile_money_provider, payment_data,
		                      failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.Exec(ctx, query,
		payment.ID,
		payment.OrderID,
		payment.Method,
		payment.Status,
		payment.Amount,
		payment.Currency,
		payment.TransactionID,
		payment.MobileMoneyPhone,
		payment.MobileMoneyIssuer,
		payment.PaymentData,
		payment.FailureReason,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("payment_id", payment.ID.String()).
			Str("order_id", payment.OrderID.String()).
			Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	r.logger.Debug().
		Str("payment_id", payment.ID.String()).
		Str("method", payment.Method).
		Msg("payment created")

	return nil
}

// SetProviderRef records the provider transaction reference and opaque
// provider metadata within the provided transaction.
func (r *paymentRepository) SetProviderRef(ctx context.Context, tx pgx.Tx, id uuid.UUID, ref string, data map[string]string) error {
	query := `
		UPDATE payments
		SET transaction_id = $2, payment_data = $3, updated_at = now()
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query, id, ref, data)
	if err != nil {
		r.logger.Error().Err(err).Str("payment_id", id.String()).Msg("failed to set provider reference")
		return fmt.Errorf("failed to set provider reference: %w", err)
	}

	return nil
}

const paymentColumns = `id, order_id, method, status, amount, currency, transaction_id,
	mobile_money_phone, mobile_money_provider, payment_data, failure_reason,
	created_at, updated_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.Method,
		&p.Status,
		&p.Amount,
		&p.Currency,
		&p.TransactionID,
		&p.MobileMoneyPhone,
		&p.MobileMoneyIssuer,
		&p.PaymentData,
		&p.FailureReason,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a payment, or nil if it does not exist.
func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("payment_id", id.String()).Msg("payment not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("payment_id", id.String()).Msg("failed to query payment")
		return nil, fmt.Errorf("failed to query payment: %w", err)
	}

	return p, nil
}

// GetByOrderID retrieves the payment of an order, or nil.
func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query payment by order")
		return nil, fmt.Errorf("failed to query payment by order: %w", err)
	}

	return p, nil
}

// GetByTransactionID retrieves a payment by provider reference, or nil.
func (r *paymentRepository) GetByTransactionID(ctx context.Context, ref string) (*model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	p, err := scanPayment(r.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("transaction_id", ref).Msg("payment not found by transaction id")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("transaction_id", ref).Msg("failed to query payment by transaction id")
		return nil, fmt.Errorf("failed to query payment by transaction id: %w", err)
	}

	return p, nil
}

// MarkCompleted transitions pending→completed within the provided
// transaction. The status guard makes concurrent confirmations (webhook vs
// client confirm) idempotent: only one write applies, the rest are no-ops.
func (r *paymentRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'completed', failure_reason = NULL, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("payment_id", id.String()).Msg("failed to mark payment completed")
		return false, fmt.Errorf("failed to mark payment completed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkFailed transitions pending→failed with a reason. Same guard as
// MarkCompleted; a payment that already reached a terminal state is left
// untouched.
func (r *paymentRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'failed', failure_reason = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.pool.Exec(ctx, query, id, reason)
	if err != nil {
		r.logger.Error().Err(err).Str("payment_id", id.String()).Msg("failed to mark payment failed")
		return false, fmt.Errorf("failed to mark payment failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
