package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/payment"
)

// CatalogService defines read operations over the menu.
type CatalogService interface {
	// Categories retrieves all menu categories.
	Categories(ctx context.Context) ([]model.Category, error)

	// Dishes retrieves the dishes of a category. Customer surfaces pass
	// availableOnly=true.
	Dishes(ctx context.Context, categoryID uuid.UUID, availableOnly bool) ([]model.Dish, error)

	// Dish retrieves a single dish, or nil.
	Dish(ctx context.Context, id uuid.UUID) (*model.Dish, error)
}

// CartService defines operations on a user's cart.
type CartService interface {
	// Get returns the user's cart with items and subtotal, creating the
	// cart lazily.
	Get(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error)

	// AddItem adds a dish to the cart with a price snapshot.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.CartResponse, error)

	// UpdateItemQuantity changes an item's quantity.
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartResponse, error)

	// RemoveItem deletes an item from the cart.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.CartResponse, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// OrderService defines order placement and lifecycle operations.
type OrderService interface {
	// PlaceOrder runs the full placement workflow: validation, pricing,
	// atomic order+items+payment creation, payment initiation, promo
	// redemption and cart clearing.
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *model.PlaceOrderRequest) (*model.PlacedOrder, error)

	// GetByID retrieves a user's order with items and payment, or nil.
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.PlacedOrder, error)

	// ListByUser retrieves a user's orders, most recent first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// Cancel cancels an order that is still pending or confirmed.
	Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) error

	// Reorder rebuilds the user's cart from a past order, skipping dishes
	// that are no longer available.
	Reorder(ctx context.Context, userID, orderID uuid.UUID) (*model.CartResponse, error)

	// UpdateStatus force-sets an order status. Staff-only path: any known
	// status is accepted, last write wins.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error
}

// PaymentService defines asynchronous payment confirmation operations. All
// of them are idempotent: a payment already in a terminal state is returned
// as is.
type PaymentService interface {
	// ConfirmCard checks a card payment intent with the provider and, if
	// succeeded, completes the payment and confirms the order.
	ConfirmCard(ctx context.Context, intentID string) (*model.Payment, error)

	// HandleWebhook applies a provider webhook event. Duplicate deliveries
	// are no-ops.
	HandleWebhook(ctx context.Context, event payment.WebhookEvent) (*model.Payment, error)

	// CheckMobileMoney polls the mobile money provider for a pending
	// payment and applies the terminal state if one was reached.
	CheckMobileMoney(ctx context.Context, paymentID uuid.UUID) (*model.Payment, error)
}
