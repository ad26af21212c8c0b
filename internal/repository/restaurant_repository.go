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

// restaurantRepository implements RestaurantRepository using PostgreSQL.
type restaurantRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRestaurantRepository creates a new PostgreSQL-backed restaurant repository.
func NewRestaurantRepository(pool *pgxpool.Pool, logger zerolog.Logger) RestaurantRepository {
	return &restaurantRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "restaurant").Logger(),
	}
}

// GetActive retrieves the active restaurant, or nil if none is configured.
func (r *restaurantRepository) GetActive(ctx context.Context) (*model.Restaurant, error) {
	query := `
		SELECT id, name, is_active, minimum_order_amount, delivery_base_fee,
		       delivery_per_km_fee, delivery_radius_km, latitude, longitude,
		       currency, created_at, updated_at
		FROM restaurants
		WHERE is_active = true
		ORDER BY created_at
		LIMIT 1
	`

	var rest model.Restaurant
	err := r.pool.QueryRow(ctx, query).Scan(
		&rest.ID,
		&rest.Name,
		&rest.IsActive,
		&rest.MinimumOrderAmount,
		&rest.DeliveryBaseFee,
		&rest.DeliveryPerKmFee,
		&rest.DeliveryRadiusKm,
		&rest.Latitude,
		&rest.Longitude,
		&rest.Currency,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Warn().Msg("no active restaurant configured")
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query active restaurant")
		return nil, fmt.Errorf("failed to query active restaurant: %w", err)
	}

	return &rest, nil
}

// addressRepository implements AddressRepository using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// GetByID retrieves an address owned by the given user, or nil.
func (r *addressRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Address, error) {
	query := `
		SELECT id, user_id, label, details, latitude, longitude, created_at
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`

	var addr model.Address
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&addr.ID,
		&addr.UserID,
		&addr.Label,
		&addr.Details,
		&addr.Latitude,
		&addr.Longitude,
		&addr.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("address_id", id.String()).Msg("address not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}

	return &addr, nil
}
