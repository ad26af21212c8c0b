package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups dishes on the menu.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Dish is a menu item. Price is in minor currency units.
// OrderCount is a popularity counter incremented when the dish is ordered.
type Dish struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CategoryID  uuid.UUID `json:"categoryId" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       int64     `json:"price" db:"price"`
	IsAvailable bool      `json:"isAvailable" db:"is_available"`
	OrderCount  int       `json:"orderCount" db:"order_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
