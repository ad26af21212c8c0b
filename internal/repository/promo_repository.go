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

// promoRepository implements PromoRepository using PostgreSQL.
type promoRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromoRepository creates a new PostgreSQL-backed promo repository.
func NewPromoRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromoRepository {
	return &promoRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promo").Logger(),
	}
}

const promoColumns = `id, code, type, value, minimum_order_amount, is_active,
	starts_at, expires_at, max_uses, max_uses_per_user, created_at`

func scanPromo(row pgx.Row) (*model.PromoCode, error) {
	var p model.PromoCode
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Type,
		&p.Value,
		&p.MinimumOrderAmount,
		&p.IsActive,
		&p.StartsAt,
		&p.ExpiresAt,
		&p.MaxUses,
		&p.MaxUsesPerUser,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByCode retrieves a promo code by its code, or nil.
func (r *promoRepository) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE code = $1`

	p, err := scanPromo(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("promo code not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query promo code")
		return nil, fmt.Errorf("failed to query promo code: %w", err)
	}

	return p, nil
}

// UsageCounts returns the live redemption counts for a promo code and user.
func (r *promoRepository) UsageCounts(ctx context.Context, promoID, userID uuid.UUID) (model.PromoUsageCounts, error) {
	return r.usageCounts(ctx, r.pool, promoID, userID)
}

// UsageCountsTx returns redemption counts within the provided transaction.
// Combined with LockForUpdate it gives a stable read for the commit-time
// re-check.
func (r *promoRepository) UsageCountsTx(ctx context.Context, tx pgx.Tx, promoID, userID uuid.UUID) (model.PromoUsageCounts, error) {
	return r.usageCounts(ctx, tx, promoID, userID)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *promoRepository) usageCounts(ctx context.Context, db rowQuerier, promoID, userID uuid.UUID) (model.PromoUsageCounts, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE user_id = $2)
		FROM promo_code_usages
		WHERE promo_code_id = $1
	`

	var counts model.PromoUsageCounts
	err := db.QueryRow(ctx, query, promoID, userID).Scan(&counts.Total, &counts.ByUser)
	if err != nil {
		r.logger.Error().Err(err).Str("promo_code_id", promoID.String()).Msg("failed to count promo usages")
		return model.PromoUsageCounts{}, fmt.Errorf("failed to count promo usages: %w", err)
	}

	return counts, nil
}

// LockForUpdate re-reads the promo row under a row lock held until the
// transaction ends. Two checkouts racing on the same code serialise here, so
// the usage counts read afterwards cannot be stale at commit time.
func (r *promoRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.PromoCode, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE id = $1 FOR UPDATE`

	p, err := scanPromo(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("promo_code_id", id.String()).Msg("failed to lock promo code")
		return nil, fmt.Errorf("failed to lock promo code: %w", err)
	}

	return p, nil
}

// CreateUsage appends a redemption ledger entry within the provided
// transaction.
func (r *promoRepository) CreateUsage(ctx context.Context, tx pgx.Tx, usage *model.PromoUsage) error {
	query := `
		INSERT INTO promo_code_usages (id, promo_code_id, user_id, order_id, discount_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		usage.ID,
		usage.PromoCodeID,
		usage.UserID,
		usage.OrderID,
		usage.DiscountAmount,
		usage.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("promo_code_id", usage.PromoCodeID.String()).
			Str("order_id", usage.OrderID.String()).
			Msg("failed to create promo usage")
		return fmt.Errorf("failed to create promo usage: %w", err)
	}

	return nil
}
