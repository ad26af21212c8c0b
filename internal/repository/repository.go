package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
)

// RestaurantRepository defines the interface for restaurant data access.
type RestaurantRepository interface {
	// GetActive retrieves the active restaurant, or nil if none is configured.
	GetActive(ctx context.Context) (*model.Restaurant, error)
}

// DishRepository defines the interface for menu data access.
type DishRepository interface {
	// ListCategories retrieves all menu categories ordered by position.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// ListByCategory retrieves dishes in a category, optionally only
	// available ones.
	ListByCategory(ctx context.Context, categoryID uuid.UUID, availableOnly bool) ([]model.Dish, error)

	// GetByID retrieves a single dish, or nil if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Dish, error)

	// GetByIDs retrieves multiple dishes by their IDs.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Dish, error)

	// IncrementOrderCounts bumps the popularity counter of each dish within
	// the provided transaction.
	IncrementOrderCounts(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) error
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetOrCreate returns the user's cart, creating it lazily.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetItems retrieves all items of a cart in insertion order.
	GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)

	// AddItem inserts a cart item.
	AddItem(ctx context.Context, item *model.CartItem) error

	// UpdateItemQuantity changes an item's quantity. Returns false if the
	// item does not belong to the cart.
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) (bool, error)

	// RemoveItem deletes an item from the cart. Returns false if the item
	// does not belong to the cart.
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)

	// ClearItems deletes all items of a cart.
	ClearItems(ctx context.Context, cartID uuid.UUID) error

	// ClearItemsTx deletes all items of a cart within the provided
	// transaction.
	ClearItemsTx(ctx context.Context, tx pgx.Tx, cartID uuid.UUID) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order and its items, or nil if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves a user's orders, most recent first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// UpdateStatus forces an order status. Last write wins; no transition
	// validation (staff correction path).
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (bool, error)

	// Cancel sets an order to cancelled with a reason, only if its current
	// status still permits customer cancellation. Returns false otherwise.
	Cancel(ctx context.Context, id uuid.UUID, reason string) (bool, error)

	// ConfirmIfPending transitions pending→confirmed within the provided
	// transaction. Returns false if the order was not pending.
	ConfirmIfPending(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	// CreatePayment inserts a payment within the provided transaction.
	CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error

	// SetProviderRef records the provider transaction reference and opaque
	// provider metadata within the provided transaction.
	SetProviderRef(ctx context.Context, tx pgx.Tx, id uuid.UUID, ref string, data map[string]string) error

	// GetByID retrieves a payment, or nil if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)

	// GetByOrderID retrieves the payment of an order, or nil.
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Payment, error)

	// GetByTransactionID retrieves a payment by provider reference, or nil.
	GetByTransactionID(ctx context.Context, ref string) (*model.Payment, error)

	// MarkCompleted transitions pending→completed within the provided
	// transaction. Returns false if the payment was not pending, making
	// racing confirmations no-ops.
	MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)

	// MarkFailed transitions pending→failed with a reason. Returns false if
	// the payment was not pending.
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
}

// PromoRepository defines the interface for promo code data access.
type PromoRepository interface {
	// GetByCode retrieves a promo code by its code, or nil.
	GetByCode(ctx context.Context, code string) (*model.PromoCode, error)

	// UsageCounts returns the live redemption counts for a promo code and
	// user.
	UsageCounts(ctx context.Context, promoID, userID uuid.UUID) (model.PromoUsageCounts, error)

	// LockForUpdate re-reads the promo row under a row lock held for the
	// rest of the transaction, serialising concurrent redemptions.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.PromoCode, error)

	// UsageCountsTx returns redemption counts within the provided
	// transaction (used together with LockForUpdate).
	UsageCountsTx(ctx context.Context, tx pgx.Tx, promoID, userID uuid.UUID) (model.PromoUsageCounts, error)

	// CreateUsage appends a redemption ledger entry within the provided
	// transaction.
	CreateUsage(ctx context.Context, tx pgx.Tx, usage *model.PromoUsage) error
}

// AddressRepository defines the interface for address data access.
type AddressRepository interface {
	// GetByID retrieves an address owned by the given user, or nil.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*model.Address, error)
}
