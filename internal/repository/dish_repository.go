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

// dishRepository implements DishRepository using PostgreSQL.
type dishRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDishRepository creates a new PostgreSQL-backed dish repository.
func NewDishRepository(pool *pgxpool.Pool, logger zerolog.Logger) DishRepository {
	return &dishRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "dish").Logger(),
	}
}

const dishColumns = `id, category_id, name, description, price, is_available, order_count, created_at, updated_at`

func scanDish(row pgx.Row) (*model.Dish, error) {
	var d model.Dish
	err := row.Scan(
		&d.ID,
		&d.CategoryID,
		&d.Name,
		&d.Description,
		&d.Price,
		&d.IsAvailable,
		&d.OrderCount,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListCategories retrieves all menu categories ordered by position.
func (r *dishRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT id, name, position, created_at
		FROM categories
		ORDER BY position, name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Position, &c.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// ListByCategory retrieves dishes in a category, optionally only available ones.
func (r *dishRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID, availableOnly bool) ([]model.Dish, error) {
	query := `
		SELECT ` + dishColumns + `
		FROM dishes
		WHERE category_id = $1 AND ($2 = false OR is_available = true)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, categoryID, availableOnly)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", categoryID.String()).Msg("failed to query dishes")
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	var dishes []model.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan dish row")
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, *d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating dish rows")
		return nil, fmt.Errorf("error iterating dishes: %w", err)
	}

	return dishes, nil
}

// GetByID retrieves a single dish, or nil if it does not exist.
func (r *dishRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Dish, error) {
	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = $1`

	d, err := scanDish(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("dish_id", id.String()).Msg("dish not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("dish_id", id.String()).Msg("failed to query dish")
		return nil, fmt.Errorf("failed to query dish: %w", err)
	}

	return d, nil
}

// GetByIDs retrieves multiple dishes by their IDs.
func (r *dishRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Dish, error) {
	if len(ids) == 0 {
		return []model.Dish{}, nil
	}

	query := `SELECT ` + dishColumns + ` FROM dishes WHERE id = ANY($1) ORDER BY name`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query dishes by IDs")
		return nil, fmt.Errorf("failed to query dishes by IDs: %w", err)
	}
	defer rows.Close()

	var dishes []model.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan dish row")
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, *d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating dish rows")
		return nil, fmt.Errorf("error iterating dishes: %w", err)
	}

	return dishes, nil
}

// IncrementOrderCounts bumps the popularity counter of each dish within the
// provided transaction.
func (r *dishRepository) IncrementOrderCounts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE dishes
		SET order_count = order_count + 1, updated_at = now()
		WHERE id = ANY($1)
	`

	_, err := tx.Exec(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to increment dish order counts")
		return fmt.Errorf("failed to increment dish order counts: %w", err)
	}

	return nil
}
