package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart is a user's ephemeral shopping cart. It is created lazily on first
// use and emptied when an order is placed.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is a dish in a cart with a price snapshot taken at add time.
type CartItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CartID          uuid.UUID `json:"-" db:"cart_id"`
	DishID          uuid.UUID `json:"dishId" db:"dish_id"`
	Quantity        int       `json:"quantity" db:"quantity"`
	UnitPrice       int64     `json:"unitPrice" db:"unit_price"`
	SelectedOptions []string  `json:"selectedOptions,omitempty" db:"selected_options"`
	Instructions    string    `json:"instructions,omitempty" db:"instructions"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// Subtotal returns the sum of line totals for the given cart items.
func Subtotal(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// AddCartItemRequest is the payload for adding a dish to the cart.
type AddCartItemRequest struct {
	DishID          uuid.UUID `json:"dishId"`
	Quantity        int       `json:"quantity"`
	SelectedOptions []string  `json:"selectedOptions,omitempty"`
	Instructions    string    `json:"instructions,omitempty"`
}

// CartResponse is the cart with its items and running subtotal.
type CartResponse struct {
	Cart     Cart       `json:"cart"`
	Items    []CartItem `json:"items"`
	Subtotal int64      `json:"subtotal"`
}
