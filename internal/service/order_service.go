package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/delivery"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/notification"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/payment"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/promo"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/repository"
)

// Gateway is the payment initiation boundary consumed by the orchestrator.
type Gateway interface {
	Initiate(ctx context.Context, order *model.Order, method model.PaymentMethod) payment.Result
}

// orderService implements OrderService.
type orderService struct {
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	cartRepo       repository.CartRepository
	dishRepo       repository.DishRepository
	promoRepo      repository.PromoRepository
	restaurantRepo repository.RestaurantRepository
	addressRepo    repository.AddressRepository
	evaluator      *promo.Evaluator
	gateway        Gateway
	notifier       notification.Notifier
	logger         zerolog.Logger
}

// NewOrderService creates the order orchestrator.
func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	cartRepo repository.CartRepository,
	dishRepo repository.DishRepository,
	promoRepo repository.PromoRepository,
	restaurantRepo repository.RestaurantRepository,
	addressRepo repository.AddressRepository,
	evaluator *promo.Evaluator,
	gateway Gateway,
	notifier notification.Notifier,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		cartRepo:       cartRepo,
		dishRepo:       dishRepo,
		promoRepo:      promoRepo,
		restaurantRepo: restaurantRepo,
		addressRepo:    addressRepo,
		evaluator:      evaluator,
		gateway:        gateway,
		notifier:       notifier,
		logger:         logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder runs the placement workflow. Validation happens before any
// transaction opens; the transactional phase is all-or-nothing: if payment
// initiation or the commit-time promo re-check fails, no order, item or
// payment row survives.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *model.PlaceOrderRequest) (*model.PlacedOrder, error) {
	method, err := parsePaymentMethod(req)
	if err != nil {
		return nil, err
	}

	if req.Type != model.OrderTypeDelivery && req.Type != model.OrderTypePickup {
		return nil, model.ErrInvalidType
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cartItems, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, model.ErrEmptyCart
	}

	restaurant, err := s.restaurantRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, model.ErrNoRestaurant
	}

	subtotal := model.Subtotal(cartItems)
	if subtotal < restaurant.MinimumOrderAmount {
		s.logger.Debug().
			Int64("subtotal", subtotal).
			Int64("minimum", restaurant.MinimumOrderAmount).
			Msg("order below restaurant minimum")
		return nil, model.ErrBelowMinimum
	}

	var deliveryFee int64
	var addressID *uuid.UUID
	if req.Type == model.OrderTypeDelivery {
		if req.AddressID == nil {
			return nil, model.ErrMissingAddress
		}

		address, err := s.addressRepo.GetByID(ctx, *req.AddressID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load address: %w", err)
		}
		if address == nil {
			return nil, model.ErrAddressNotFound
		}

		quote := delivery.Compute(restaurantOrigin(restaurant), delivery.Point{
			Latitude:  address.Latitude,
			Longitude: address.Longitude,
		}, delivery.Config{
			RadiusKm: restaurant.DeliveryRadiusKm,
			BaseFee:  restaurant.DeliveryBaseFee,
			PerKmFee: restaurant.DeliveryPerKmFee,
		})
		if !quote.InRange {
			s.logger.Debug().
				Float64("distance_km", quote.DistanceKm).
				Float64("radius_km", restaurant.DeliveryRadiusKm).
				Msg("address outside delivery zone")
			return nil, model.ErrOutOfZone
		}

		deliveryFee = quote.Fee
		addressID = req.AddressID
	}

	now := time.Now()

	var promoCode *model.PromoCode
	var discount int64
	if req.PromoCode != nil && *req.PromoCode != "" {
		promoCode, err = s.promoRepo.GetByCode(ctx, *req.PromoCode)
		if err != nil {
			return nil, fmt.Errorf("failed to load promo code: %w", err)
		}
		if promoCode == nil {
			return nil, model.ErrPromoNotFound
		}

		counts, err := s.promoRepo.UsageCounts(ctx, promoCode.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load promo usage counts: %w", err)
		}

		if err := s.evaluator.Evaluate(promoCode, counts, subtotal, now); err != nil {
			return nil, err
		}

		discount = s.evaluator.Discount(promoCode, subtotal)
	}

	total := subtotal + deliveryFee - discount
	if total < 0 {
		// The discount cap makes this unreachable; a negative total means a
		// pricing defect, not a clampable value.
		return nil, fmt.Errorf("computed negative order total %d (subtotal=%d fee=%d discount=%d)",
			total, subtotal, deliveryFee, discount)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Roll back on any failure below; Rollback after Commit is a no-op.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order := &model.Order{
		ID:             uuid.New(),
		OrderNumber:    newOrderNumber(now),
		UserID:         userID,
		RestaurantID:   restaurant.ID,
		AddressID:      addressID,
		Type:           req.Type,
		Status:         model.OrderStatusPending,
		Subtotal:       subtotal,
		DeliveryFee:    deliveryFee,
		DiscountAmount: discount,
		Total:          total,
		ScheduledAt:    req.ScheduledAt,
		Instructions:   req.Instructions,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if promoCode != nil {
		order.PromoCodeID = &promoCode.ID
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	orderItems := make([]model.OrderItem, len(cartItems))
	dishIDs := make([]uuid.UUID, len(cartItems))
	for i, item := range cartItems {
		dishIDs[i] = item.DishID
		orderItems[i] = model.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			DishID:          item.DishID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			TotalPrice:      item.UnitPrice * int64(item.Quantity),
			SelectedOptions: item.SelectedOptions,
			Instructions:    item.Instructions,
		}
	}

	dishes, err := s.dishRepo.GetByIDs(ctx, dishIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load dishes: %w", err)
	}
	namesByID := make(map[uuid.UUID]string, len(dishes))
	for _, d := range dishes {
		namesByID[d.ID] = d.Name
	}
	for i := range orderItems {
		orderItems[i].DishName = namesByID[orderItems[i].DishID]
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = s.dishRepo.IncrementOrderCounts(ctx, tx, dishIDs); err != nil {
		return nil, fmt.Errorf("failed to increment dish order counts: %w", err)
	}

	pmt := &model.Payment{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Method:    method.Name(),
		Status:    model.PaymentStatusPending,
		Amount:    total,
		Currency:  restaurant.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mm, ok := method.(model.MobileMoney); ok {
		pmt.MobileMoneyPhone = &mm.Phone
		pmt.MobileMoneyIssuer = &mm.Provider
	}

	if err = s.paymentRepo.CreatePayment(ctx, tx, pmt); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	result := s.gateway.Initiate(ctx, order, method)
	if !result.Success {
		s.logger.Error().
			Err(result.Err).
			Str("order_id", order.ID.String()).
			Str("method", method.Name()).
			Msg("payment initiation failed, rolling back placement")
		err = model.ErrPaymentInit
		return nil, err
	}

	if err = s.paymentRepo.SetProviderRef(ctx, tx, pmt.ID, result.ProviderRef, result.ClientPayload); err != nil {
		return nil, fmt.Errorf("failed to record provider reference: %w", err)
	}
	pmt.TransactionID = &result.ProviderRef
	pmt.PaymentData = result.ClientPayload

	if result.OrderConfirmed {
		if _, err = s.orderRepo.ConfirmIfPending(ctx, tx, order.ID); err != nil {
			return nil, fmt.Errorf("failed to confirm order: %w", err)
		}
		order.Status = model.OrderStatusConfirmed
	}

	if promoCode != nil {
		// Re-check the caps under a row lock: another checkout may have
		// redeemed the code between validation and here.
		locked, lockErr := s.promoRepo.LockForUpdate(ctx, tx, promoCode.ID)
		if lockErr != nil {
			err = fmt.Errorf("failed to lock promo code: %w", lockErr)
			return nil, err
		}
		if locked == nil {
			err = model.ErrPromoRace
			return nil, err
		}

		counts, countErr := s.promoRepo.UsageCountsTx(ctx, tx, promoCode.ID, userID)
		if countErr != nil {
			err = fmt.Errorf("failed to re-check promo usage: %w", countErr)
			return nil, err
		}

		if verr := s.evaluator.Evaluate(locked, counts, subtotal, now); verr != nil {
			s.logger.Warn().
				Str("code", locked.Code).
				Err(verr).
				Msg("promo code no longer valid at commit time, rolling back")
			err = model.ErrPromoRace
			return nil, err
		}

		if err = s.promoRepo.CreateUsage(ctx, tx, &model.PromoUsage{
			ID:             uuid.New(),
			PromoCodeID:    promoCode.ID,
			UserID:         userID,
			OrderID:        order.ID,
			DiscountAmount: discount,
			CreatedAt:      now,
		}); err != nil {
			return nil, fmt.Errorf("failed to record promo usage: %w", err)
		}
	}

	if err = s.cartRepo.ClearItemsTx(ctx, tx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("method", method.Name()).
		Int64("total", total).
		Msg("order placed")

	// Post-commit, best effort: failures are logged inside the notifier and
	// never affect the committed order.
	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		s.notifier.Notify(nctx, notification.EventOrderCreated, userID, map[string]any{
			"order_id":     order.ID.String(),
			"order_number": order.OrderNumber,
			"total":        total,
		})
		if _, ok := method.(model.Card); ok {
			s.notifier.Notify(nctx, notification.EventPaymentInitiated, userID, map[string]any{
				"order_id":   order.ID.String(),
				"payment_id": pmt.ID.String(),
			})
		}
	}()

	return &model.PlacedOrder{
		Order:         *order,
		Items:         orderItems,
		Payment:       *pmt,
		ClientPayload: result.ClientPayload,
	}, nil
}

// GetByID retrieves a user's order with items and payment, or nil.
func (s *orderService) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.PlacedOrder, error) {
	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, nil
	}

	pmt, err := s.paymentRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order payment: %w", err)
	}

	placed := &model.PlacedOrder{Order: *order, Items: items}
	if pmt != nil {
		placed.Payment = *pmt
	}
	return placed, nil
}

// ListByUser retrieves a user's orders, most recent first.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Cancel cancels an order still in pending or confirmed. The payment is
// left untouched: refunds are a manual back-office process.
func (s *orderService) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) error {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return model.ErrOrderNotFound
	}

	if !order.Status.CustomerCancellable() {
		return model.ErrCannotCancel
	}

	cancelled, err := s.orderRepo.Cancel(ctx, orderID, reason)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if !cancelled {
		// Status moved on between the read and the guarded update.
		return model.ErrCannotCancel
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("reason", reason).
		Msg("order cancelled")

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.notifier.Notify(nctx, notification.EventOrderCancelled, userID, map[string]any{
			"order_id":     orderID.String(),
			"order_number": order.OrderNumber,
			"reason":       reason,
		})
	}()

	return nil
}

// Reorder rebuilds the user's cart from a past order. Dishes that are no
// longer available are silently skipped; prices are re-snapshotted from the
// current menu.
func (s *orderService) Reorder(ctx context.Context, userID, orderID uuid.UUID) (*model.CartResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if err := s.cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	dishIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		dishIDs[i] = item.DishID
	}

	dishes, err := s.dishRepo.GetByIDs(ctx, dishIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load dishes: %w", err)
	}
	dishByID := make(map[uuid.UUID]model.Dish, len(dishes))
	for _, d := range dishes {
		dishByID[d.ID] = d
	}

	now := time.Now()
	skipped := 0
	for _, item := range items {
		dish, ok := dishByID[item.DishID]
		if !ok || !dish.IsAvailable {
			skipped++
			continue
		}

		err := s.cartRepo.AddItem(ctx, &model.CartItem{
			ID:              uuid.New(),
			CartID:          cart.ID,
			DishID:          dish.ID,
			Quantity:        item.Quantity,
			UnitPrice:       dish.Price,
			SelectedOptions: item.SelectedOptions,
			Instructions:    item.Instructions,
			CreatedAt:       now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	}

	if skipped > 0 {
		s.logger.Debug().
			Str("order_id", orderID.String()).
			Int("skipped", skipped).
			Msg("reorder skipped unavailable dishes")
	}

	cartItems, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}

	return &model.CartResponse{
		Cart:     *cart,
		Items:    cartItems,
		Subtotal: model.Subtotal(cartItems),
	}, nil
}

// UpdateStatus force-sets an order status without transition validation.
// This is intentionally looser than the customer cancel path so staff can
// correct state; updates are last-write-wins with no locking.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	if !model.ValidOrderStatus(status) {
		return model.ErrInvalidStatus
	}

	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if !updated {
		return model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("order status updated")

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		s.notifier.Notify(nctx, notification.EventOrderStatusUpdated, order.UserID, map[string]any{
			"order_id":     orderID.String(),
			"order_number": order.OrderNumber,
			"status":       string(status),
		})
	}()

	return nil
}

// parsePaymentMethod builds the payment method variant from the request.
func parsePaymentMethod(req *model.PlaceOrderRequest) (model.PaymentMethod, error) {
	switch req.PaymentMethod {
	case "card":
		return model.Card{}, nil
	case "cash":
		return model.Cash{}, nil
	case "mobile_money":
		if req.MobileMoney == nil || req.MobileMoney.Phone == "" {
			return nil, model.ErrPaymentMethod
		}
		return model.MobileMoney{
			Phone:    req.MobileMoney.Phone,
			Provider: req.MobileMoney.Provider,
		}, nil
	default:
		return nil, model.ErrPaymentMethod
	}
}

// restaurantOrigin returns the restaurant coordinates, or nil when the
// restaurant has no location configured.
func restaurantOrigin(r *model.Restaurant) *delivery.Point {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &delivery.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

// newOrderNumber generates a globally unique, human-readable order number.
// The unique constraint on orders.order_number backs the uniqueness claim.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix[:8])
}
