package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusPickedUp       OrderStatus = "picked_up"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusOutForDelivery, OrderStatusDelivered,
		OrderStatusPickedUp, OrderStatusCancelled:
		return true
	}
	return false
}

// CustomerCancellable reports whether a customer may cancel an order in
// status s. Staff status updates are not restricted by this.
func (s OrderStatus) CustomerCancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// OrderType distinguishes delivery orders from pickup orders.
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

// Order is an immutable snapshot of a purchase. Total must always equal
// Subtotal + DeliveryFee - DiscountAmount. Orders are never deleted; status
// is the only field mutated after creation.
type Order struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	OrderNumber        string      `json:"orderNumber" db:"order_number"`
	UserID             uuid.UUID   `json:"userId" db:"user_id"`
	RestaurantID       uuid.UUID   `json:"restaurantId" db:"restaurant_id"`
	AddressID          *uuid.UUID  `json:"addressId,omitempty" db:"address_id"`
	Type               OrderType   `json:"type" db:"type"`
	Status             OrderStatus `json:"status" db:"status"`
	Subtotal           int64       `json:"subtotal" db:"subtotal"`
	DeliveryFee        int64       `json:"deliveryFee" db:"delivery_fee"`
	DiscountAmount     int64       `json:"discountAmount" db:"discount_amount"`
	Total              int64       `json:"total" db:"total"`
	PromoCodeID        *uuid.UUID  `json:"promoCodeId,omitempty" db:"promo_code_id"`
	ScheduledAt        *time.Time  `json:"scheduledAt,omitempty" db:"scheduled_at"`
	Instructions       string      `json:"instructions,omitempty" db:"instructions"`
	CancellationReason *string     `json:"cancellationReason,omitempty" db:"cancellation_reason"`
	CreatedAt          time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem is an immutable line snapshot of a cart item at order time.
// DishName is denormalized so the order history survives dish renames.
type OrderItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OrderID         uuid.UUID `json:"-" db:"order_id"`
	DishID          uuid.UUID `json:"dishId" db:"dish_id"`
	DishName        string    `json:"dishName" db:"dish_name"`
	Quantity        int       `json:"quantity" db:"quantity"`
	UnitPrice       int64     `json:"unitPrice" db:"unit_price"`
	TotalPrice      int64     `json:"totalPrice" db:"total_price"`
	SelectedOptions []string  `json:"selectedOptions,omitempty" db:"selected_options"`
	Instructions    string    `json:"instructions,omitempty" db:"instructions"`
}

// PlaceOrderRequest is the payload for placing an order from the cart.
type PlaceOrderRequest struct {
	Type          OrderType         `json:"type"`
	AddressID     *uuid.UUID        `json:"addressId,omitempty"`
	PaymentMethod string            `json:"paymentMethod"`
	MobileMoney   *MobileMoneyInput `json:"mobileMoney,omitempty"`
	PromoCode     *string           `json:"promoCode,omitempty"`
	ScheduledAt   *time.Time        `json:"scheduledAt,omitempty"`
	Instructions  string            `json:"instructions,omitempty"`
}

// MobileMoneyInput carries the customer side of a mobile money payment.
type MobileMoneyInput struct {
	Phone    string `json:"phone"`
	Provider string `json:"provider"`
}

// PlacedOrder is the placement response: the created order, its payment and
// any client-facing payment payload (e.g. a card client secret).
type PlacedOrder struct {
	Order         Order             `json:"order"`
	Items         []OrderItem       `json:"items"`
	Payment       Payment           `json:"payment"`
	ClientPayload map[string]string `json:"clientPayload,omitempty"`
}

// CancelOrderRequest carries the customer-provided cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// UpdateStatusRequest is the staff payload for forcing an order status.
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status"`
}
