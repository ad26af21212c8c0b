package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/repository"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	dishRepo repository.DishRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, dishRepo repository.DishRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		dishRepo: dishRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s.respond(ctx, cart)
}

// AddItem adds a dish to the cart. The dish's current price is snapshotted
// on the item so later menu edits do not change what is already in carts.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	dish, err := s.dishRepo.GetByID(ctx, req.DishID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dish: %w", err)
	}
	if dish == nil {
		return nil, model.ErrDishNotFound
	}
	if !dish.IsAvailable {
		return nil, model.ErrDishUnavailable
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	err = s.cartRepo.AddItem(ctx, &model.CartItem{
		ID:              uuid.New(),
		CartID:          cart.ID,
		DishID:          dish.ID,
		Quantity:        req.Quantity,
		UnitPrice:       dish.Price,
		SelectedOptions: req.SelectedOptions,
		Instructions:    req.Instructions,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.respond(ctx, cart)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.CartResponse, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	updated, err := s.cartRepo.UpdateItemQuantity(ctx, cart.ID, itemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if !updated {
		return nil, model.ErrCartItemMissing
	}

	return s.respond(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	removed, err := s.cartRepo.RemoveItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}
	if !removed {
		return nil, model.ErrCartItemMissing
	}

	return s.respond(ctx, cart)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *cartService) respond(ctx context.Context, cart *model.Cart) (*model.CartResponse, error) {
	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	return &model.CartResponse{
		Cart:     *cart,
		Items:    items,
		Subtotal: model.Subtotal(items),
	}, nil
}
