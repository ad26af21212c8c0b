package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS restaurants (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			minimum_order_amount BIGINT NOT NULL DEFAULT 0,
			delivery_base_fee BIGINT NOT NULL DEFAULT 0,
			delivery_per_km_fee BIGINT NOT NULL DEFAULT 0,
			delivery_radius_km DOUBLE PRECISION NOT NULL DEFAULT 0,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			currency VARCHAR(10) NOT NULL DEFAULT 'XOF',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS dishes (
			id UUID PRIMARY KEY,
			category_id UUID NOT NULL REFERENCES categories(id),
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL CHECK (price >= 0),
			is_available BOOLEAN NOT NULL DEFAULT true,
			order_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS addresses (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			label VARCHAR(100) NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
			dish_id UUID NOT NULL REFERENCES dishes(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price BIGINT NOT NULL CHECK (unit_price >= 0),
			selected_options TEXT[],
			instructions TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS promo_codes (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			type VARCHAR(20) NOT NULL,
			value BIGINT NOT NULL CHECK (value >= 0),
			minimum_order_amount BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			starts_at TIMESTAMPTZ,
			expires_at TIMESTAMPTZ,
			max_uses INTEGER,
			max_uses_per_user INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			order_number VARCHAR(50) NOT NULL UNIQUE,
			user_id UUID NOT NULL,
			restaurant_id UUID NOT NULL REFERENCES restaurants(id),
			address_id UUID REFERENCES addresses(id),
			type VARCHAR(20) NOT NULL,
			status VARCHAR(30) NOT NULL,
			subtotal BIGINT NOT NULL CHECK (subtotal >= 0),
			delivery_fee BIGINT NOT NULL DEFAULT 0,
			discount_amount BIGINT NOT NULL DEFAULT 0,
			total BIGINT NOT NULL CHECK (total >= 0),
			promo_code_id UUID REFERENCES promo_codes(id),
			scheduled_at TIMESTAMPTZ,
			instructions TEXT NOT NULL DEFAULT '',
			cancellation_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			dish_id UUID NOT NULL REFERENCES dishes(id),
			dish_name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price BIGINT NOT NULL,
			total_price BIGINT NOT NULL,
			selected_options TEXT[],
			instructions TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			method VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL,
			amount BIGINT NOT NULL CHECK (amount >= 0),
			currency VARCHAR(10) NOT NULL,
			transaction_id VARCHAR(255),
			mobile_money_phone VARCHAR(30),
			mobile_money_provider VARCHAR(50),
			payment_data JSONB,
			failure_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS promo_code_usages (
			id UUID PRIMARY KEY,
			promo_code_id UUID NOT NULL REFERENCES promo_codes(id),
			user_id UUID NOT NULL,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			discount_amount BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (promo_code_id, user_id, order_id)
		);

		CREATE INDEX IF NOT EXISTS idx_dishes_category_id ON dishes(category_id);
		CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
		CREATE INDEX IF NOT EXISTS idx_payments_transaction_id ON payments(transaction_id);
		CREATE INDEX IF NOT EXISTS idx_promo_usages_promo_code_id ON promo_code_usages(promo_code_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedRestaurant inserts an active restaurant and returns it.
func SeedRestaurant(t *testing.T, pool *pgxpool.Pool) *model.Restaurant {
	t.Helper()

	ctx := context.Background()
	lat, lng := 6.1725, 1.2314

	rest := &model.Restaurant{
		ID:                 uuid.New(),
		Name:               "Chez Chelsy",
		IsActive:           true,
		MinimumOrderAmount: 2000,
		DeliveryBaseFee:    1000,
		DeliveryPerKmFee:   150,
		DeliveryRadiusKm:   10,
		Latitude:           &lat,
		Longitude:          &lng,
		Currency:           "XOF",
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO restaurants (id, name, is_active, minimum_order_amount, delivery_base_fee,
		                         delivery_per_km_fee, delivery_radius_km, latitude, longitude, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rest.ID, rest.Name, rest.IsActive, rest.MinimumOrderAmount, rest.DeliveryBaseFee,
		rest.DeliveryPerKmFee, rest.DeliveryRadiusKm, rest.Latitude, rest.Longitude, rest.Currency,
	)
	if err != nil {
		t.Fatalf("failed to seed restaurant: %v", err)
	}

	return rest
}

// SeedMenu inserts a category with dishes and returns the dishes.
func SeedMenu(t *testing.T, pool *pgxpool.Pool) []model.Dish {
	t.Helper()

	ctx := context.Background()
	categoryID := uuid.New()

	_, err := pool.Exec(ctx,
		`INSERT INTO categories (id, name, position) VALUES ($1, $2, $3)`,
		categoryID, "Plats", 1,
	)
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	dishes := []model.Dish{
		{ID: uuid.New(), CategoryID: categoryID, Name: "Poulet braisé", Price: 3500, IsAvailable: true},
		{ID: uuid.New(), CategoryID: categoryID, Name: "Riz sauce arachide", Price: 3000, IsAvailable: true},
		{ID: uuid.New(), CategoryID: categoryID, Name: "Plat retiré", Price: 2500, IsAvailable: false},
	}

	for _, d := range dishes {
		_, err := pool.Exec(ctx, `
			INSERT INTO dishes (id, category_id, name, price, is_available)
			VALUES ($1, $2, $3, $4, $5)`,
			d.ID, d.CategoryID, d.Name, d.Price, d.IsAvailable,
		)
		if err != nil {
			t.Fatalf("failed to seed dish %s: %v", d.Name, err)
		}
	}

	return dishes
}

// SeedAddress inserts a delivery address for the user at the given offset
// in degrees latitude from the restaurant.
func SeedAddress(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, latOffset float64) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()

	_, err := pool.Exec(ctx, `
		INSERT INTO addresses (id, user_id, label, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)`,
		id, userID, "Maison", 6.1725+latOffset, 1.2314,
	)
	if err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}

	return id
}

// SeedPromo inserts a promo code and returns its ID.
func SeedPromo(t *testing.T, pool *pgxpool.Pool, code string, promoType model.PromoType, value int64, maxUses *int) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()

	_, err := pool.Exec(ctx, `
		INSERT INTO promo_codes (id, code, type, value, is_active, max_uses)
		VALUES ($1, $2, $3, $4, true, $5)`,
		id, code, promoType, value, maxUses,
	)
	if err != nil {
		t.Fatalf("failed to seed promo code: %v", err)
	}

	return id
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"promo_code_usages", "payments", "order_items", "orders",
		"cart_items", "carts", "promo_codes", "addresses", "dishes",
		"categories", "restaurants",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
