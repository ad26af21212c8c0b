package model

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant holds the active restaurant profile, including the delivery
// pricing parameters used when quoting an order.
type Restaurant struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	IsActive           bool      `json:"isActive" db:"is_active"`
	MinimumOrderAmount int64     `json:"minimumOrderAmount" db:"minimum_order_amount"`
	DeliveryBaseFee    int64     `json:"deliveryBaseFee" db:"delivery_base_fee"`
	DeliveryPerKmFee   int64     `json:"deliveryPerKmFee" db:"delivery_per_km_fee"`
	DeliveryRadiusKm   float64   `json:"deliveryRadiusKm" db:"delivery_radius_km"`
	Latitude           *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude          *float64  `json:"longitude,omitempty" db:"longitude"`
	Currency           string    `json:"currency" db:"currency"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

// Address is a saved customer delivery location.
type Address struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	Label     string    `json:"label" db:"label"`
	Details   string    `json:"details" db:"details"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
