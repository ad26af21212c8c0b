package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/notification"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/payment"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/promo"
)

// orderFixture wires an order service with all dependencies mocked.
type orderFixture struct {
	orderRepo      *MockOrderRepository
	paymentRepo    *MockPaymentRepository
	cartRepo       *MockCartRepository
	dishRepo       *MockDishRepository
	promoRepo      *MockPromoRepository
	restaurantRepo *MockRestaurantRepository
	addressRepo    *MockAddressRepository
	gateway        *MockGateway
	notifier       *recordingNotifier
	service        OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orderRepo:      new(MockOrderRepository),
		paymentRepo:    new(MockPaymentRepository),
		cartRepo:       new(MockCartRepository),
		dishRepo:       new(MockDishRepository),
		promoRepo:      new(MockPromoRepository),
		restaurantRepo: new(MockRestaurantRepository),
		addressRepo:    new(MockAddressRepository),
		gateway:        new(MockGateway),
		notifier:       &recordingNotifier{},
	}
	f.service = NewOrderService(
		f.orderRepo, f.paymentRepo, f.cartRepo, f.dishRepo, f.promoRepo,
		f.restaurantRepo, f.addressRepo,
		promo.NewEvaluator(zerolog.Nop()),
		f.gateway, f.notifier, zerolog.Nop(),
	)
	return f
}

func testRestaurant() *model.Restaurant {
	lat, lng := 6.1725, 1.2314
	return &model.Restaurant{
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
}

func testCartItems(cartID uuid.UUID) []model.CartItem {
	return []model.CartItem{
		{ID: uuid.New(), CartID: cartID, DishID: uuid.New(), Quantity: 2, UnitPrice: 3500},
		{ID: uuid.New(), CartID: cartID, DishID: uuid.New(), Quantity: 1, UnitPrice: 3000},
	}
}

func dishesFor(items []model.CartItem) []model.Dish {
	dishes := make([]model.Dish, len(items))
	for i, item := range items {
		dishes[i] = model.Dish{ID: item.DishID, Name: "Dish " + item.DishID.String()[:4], Price: item.UnitPrice, IsAvailable: true}
	}
	return dishes
}

func TestOrderService_PlaceOrder_CardWithPromoAndDelivery(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	addressID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	items := testCartItems(cart.ID)
	restaurant := testRestaurant()
	code := "WELCOME10"
	promoCode := &model.PromoCode{
		ID:       uuid.New(),
		Code:     code,
		Type:     model.PromoTypePercentage,
		Value:    10,
		IsActive: true,
	}
	mockTx := new(MockTx)

	// Subtotal 10000, fee 1000 (restaurant and address share coordinates),
	// 10% promo discount 1000, total 10500.
	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return(items, nil)
	f.restaurantRepo.On("GetActive", ctx).Return(restaurant, nil)
	f.addressRepo.On("GetByID", ctx, addressID, userID).Return(&model.Address{
		ID: addressID, UserID: userID, Latitude: *restaurant.Latitude, Longitude: *restaurant.Longitude,
	}, nil)
	f.promoRepo.On("GetByCode", ctx, code).Return(promoCode, nil)
	f.promoRepo.On("UsageCounts", ctx, promoCode.ID, userID).Return(model.PromoUsageCounts{}, nil)
	f.orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	f.orderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	f.dishRepo.On("GetByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).Return(dishesFor(items), nil)
	f.orderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	f.dishRepo.On("IncrementOrderCounts", ctx, mockTx, mock.AnythingOfType("[]uuid.UUID")).Return(nil)
	f.paymentRepo.On("CreatePayment", ctx, mockTx, mock.AnythingOfType("*model.Payment")).Return(nil)
	f.gateway.On("Initiate", ctx, mock.AnythingOfType("*model.Order"), model.Card{}).Return(payment.Result{
		Success:       true,
		ProviderRef:   "pi_123",
		Status:        model.PaymentStatusPending,
		ClientPayload: map[string]string{"clientSecret": "pi_123_secret"},
	})
	f.paymentRepo.On("SetProviderRef", ctx, mockTx, mock.AnythingOfType("uuid.UUID"), "pi_123", mock.Anything).Return(nil)
	f.promoRepo.On("LockForUpdate", ctx, mockTx, promoCode.ID).Return(promoCode, nil)
	f.promoRepo.On("UsageCountsTx", ctx, mockTx, promoCode.ID, userID).Return(model.PromoUsageCounts{}, nil)
	f.promoRepo.On("CreateUsage", ctx, mockTx, mock.AnythingOfType("*model.PromoUsage")).Return(nil)
	f.cartRepo.On("ClearItemsTx", ctx, mockTx, cart.ID).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	placed, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypeDelivery,
		AddressID:     &addressID,
		PaymentMethod: "card",
		PromoCode:     &code,
	})

	require.NoError(t, err)
	require.NotNil(t, placed)
	assert.Equal(t, int64(10000), placed.Order.Subtotal)
	assert.Equal(t, int64(1000), placed.Order.DeliveryFee)
	assert.Equal(t, int64(1000), placed.Order.DiscountAmount)
	assert.Equal(t, int64(10500), placed.Order.Total)
	assert.Equal(t, placed.Order.Subtotal+placed.Order.DeliveryFee-placed.Order.DiscountAmount, placed.Order.Total)
	assert.Equal(t, model.OrderStatusPending, placed.Order.Status)
	assert.Len(t, placed.Items, 2)
	assert.Equal(t, "pi_123_secret", placed.ClientPayload["clientSecret"])
	require.NotNil(t, placed.Payment.TransactionID)
	assert.Equal(t, "pi_123", *placed.Payment.TransactionID)
	assert.True(t, mockTx.committed)

	f.orderRepo.AssertExpectations(t)
	f.promoRepo.AssertExpectations(t)
	f.cartRepo.AssertExpectations(t)
	f.orderRepo.AssertNotCalled(t, "ConfirmIfPending", mock.Anything, mock.Anything, mock.Anything)

	assert.Eventually(t, func() bool {
		events := f.notifier.snapshot()
		return len(events) == 2 &&
			events[0].EventType == notification.EventOrderCreated &&
			events[1].EventType == notification.EventPaymentInitiated
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOrderService_PlaceOrder_CashPickupConfirmsImmediately(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	items := testCartItems(cart.ID)
	mockTx := new(MockTx)

	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return(items, nil)
	f.restaurantRepo.On("GetActive", ctx).Return(testRestaurant(), nil)
	f.orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	f.orderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	f.dishRepo.On("GetByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).Return(dishesFor(items), nil)
	f.orderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	f.dishRepo.On("IncrementOrderCounts", ctx, mockTx, mock.AnythingOfType("[]uuid.UUID")).Return(nil)
	f.paymentRepo.On("CreatePayment", ctx, mockTx, mock.AnythingOfType("*model.Payment")).Return(nil)
	f.gateway.On("Initiate", ctx, mock.AnythingOfType("*model.Order"), model.Cash{}).Return(payment.Result{
		Success:        true,
		ProviderRef:    "CASH-abc",
		Status:         model.PaymentStatusPending,
		OrderConfirmed: true,
	})
	f.paymentRepo.On("SetProviderRef", ctx, mockTx, mock.AnythingOfType("uuid.UUID"), "CASH-abc", mock.Anything).Return(nil)
	f.orderRepo.On("ConfirmIfPending", ctx, mockTx, mock.AnythingOfType("uuid.UUID")).Return(true, nil)
	f.cartRepo.On("ClearItemsTx", ctx, mockTx, cart.ID).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	placed, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypePickup,
		PaymentMethod: "cash",
	})

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, placed.Order.Status)
	assert.Equal(t, int64(0), placed.Order.DeliveryFee)
	f.orderRepo.AssertExpectations(t)
	f.addressRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}

	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return([]model.CartItem{}, nil)

	placed, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypePickup,
		PaymentMethod: "cash",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrEmptyCart, err)
	assert.Nil(t, placed)
	f.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_PlaceOrder_BelowMinimum(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}

	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return([]model.CartItem{
		{ID: uuid.New(), CartID: cart.ID, DishID: uuid.New(), Quantity: 1, UnitPrice: 500},
	}, nil)
	f.restaurantRepo.On("GetActive", ctx).Return(testRestaurant(), nil)

	placed, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypePickup,
		PaymentMethod: "cash",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrBelowMinimum, err)
	assert.Nil(t, placed)
	f.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_PlaceOrder_DeliveryWithoutAddress(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}

	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return(testCartItems(cart.ID), nil)
	f.restaurantRepo.On("GetActive", ctx).Return(testRestaurant(), nil)

	_, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypeDelivery,
		PaymentMethod: "cash",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrMissingAddress, err)
}

func TestOrderService_PlaceOrder_AddressOutOfZone(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	addressID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	restaurant := testRestaurant()

	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return(testCartItems(cart.ID), nil)
	f.restaurantRepo.On("GetActive", ctx).Return(restaurant, nil)
	// Roughly one degree of latitude away, far beyond the 10 km radius.
	f.addressRepo.On("GetByID", ctx, addressID, userID).Return(&model.Address{
		ID: addressID, UserID: userID, Latitude: *restaurant.Latitude + 1, Longitude: *restaurant.Longitude,
	}, nil)

	_, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypeDelivery,
		AddressID:     &addressID,
		PaymentMethod: "cash",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrOutOfZone, err)
	f.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_PlaceOrder_GatewayFailureRollsBack(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	items := testCartItems(cart.ID)
	mockTx := new(MockTx)

	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return(items, nil)
	f.restaurantRepo.On("GetActive", ctx).Return(testRestaurant(), nil)
	f.orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	f.orderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	f.dishRepo.On("GetByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).Return(dishesFor(items), nil)
	f.orderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	f.dishRepo.On("IncrementOrderCounts", ctx, mockTx, mock.AnythingOfType("[]uuid.UUID")).Return(nil)
	f.paymentRepo.On("CreatePayment", ctx, mockTx, mock.AnythingOfType("*model.Payment")).Return(nil)
	f.gateway.On("Initiate", ctx, mock.AnythingOfType("*model.Order"), model.Card{}).Return(payment.Result{
		Success: false,
		Err:     errors.New("provider unreachable"),
	})
	mockTx.On("Rollback", ctx).Return(nil)

	placed, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypePickup,
		PaymentMethod: "card",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrPaymentInit, err)
	assert.Nil(t, placed)
	assert.True(t, mockTx.rolledBack)
	assert.False(t, mockTx.committed)
	f.cartRepo.AssertNotCalled(t, "ClearItemsTx", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.notifier.snapshot())
}

func TestOrderService_PlaceOrder_PromoCapRaceRollsBack(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	items := testCartItems(cart.ID)
	code := "LAST5"
	maxUses := 5
	promoCode := &model.PromoCode{
		ID:       uuid.New(),
		Code:     code,
		Type:     model.PromoTypeFixed,
		Value:    500,
		IsActive: true,
		MaxUses:  &maxUses,
	}
	mockTx := new(MockTx)

	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return(items, nil)
	f.restaurantRepo.On("GetActive", ctx).Return(testRestaurant(), nil)
	f.promoRepo.On("GetByCode", ctx, code).Return(promoCode, nil)
	// Validation sees one slot left; a concurrent checkout takes it before
	// the locked re-check.
	f.promoRepo.On("UsageCounts", ctx, promoCode.ID, userID).Return(model.PromoUsageCounts{Total: 4}, nil)
	f.orderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	f.orderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	f.dishRepo.On("GetByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).Return(dishesFor(items), nil)
	f.orderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	f.dishRepo.On("IncrementOrderCounts", ctx, mockTx, mock.AnythingOfType("[]uuid.UUID")).Return(nil)
	f.paymentRepo.On("CreatePayment", ctx, mockTx, mock.AnythingOfType("*model.Payment")).Return(nil)
	f.gateway.On("Initiate", ctx, mock.AnythingOfType("*model.Order"), model.Cash{}).Return(payment.Result{
		Success:        true,
		ProviderRef:    "CASH-xyz",
		Status:         model.PaymentStatusPending,
		OrderConfirmed: true,
	})
	f.paymentRepo.On("SetProviderRef", ctx, mockTx, mock.AnythingOfType("uuid.UUID"), "CASH-xyz", mock.Anything).Return(nil)
	f.orderRepo.On("ConfirmIfPending", ctx, mockTx, mock.AnythingOfType("uuid.UUID")).Return(true, nil)
	f.promoRepo.On("LockForUpdate", ctx, mockTx, promoCode.ID).Return(promoCode, nil)
	f.promoRepo.On("UsageCountsTx", ctx, mockTx, promoCode.ID, userID).Return(model.PromoUsageCounts{Total: 5}, nil)
	mockTx.On("Rollback", ctx).Return(nil)

	placed, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypePickup,
		PaymentMethod: "cash",
		PromoCode:     &code,
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrPromoRace, err)
	assert.Nil(t, placed)
	assert.True(t, mockTx.rolledBack)
	f.promoRepo.AssertNotCalled(t, "CreateUsage", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_UnknownPaymentMethod(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()

	_, err := f.service.PlaceOrder(ctx, userID, &model.PlaceOrderRequest{
		Type:          model.OrderTypePickup,
		PaymentMethod: "barter",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrPaymentMethod, err)
	f.cartRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_MobileMoneyRequiresPhone(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()

	_, err := f.service.PlaceOrder(ctx, uuid.New(), &model.PlaceOrderRequest{
		Type:          model.OrderTypePickup,
		PaymentMethod: "mobile_money",
	})

	require.Error(t, err)
	assert.Equal(t, model.ErrPaymentMethod, err)
}

func TestOrderService_Cancel_Success(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	orderID := uuid.New()
	order := &model.Order{ID: orderID, UserID: userID, OrderNumber: "ORD-20260831-AAAA1111", Status: model.OrderStatusPending}

	f.orderRepo.On("GetByID", ctx, orderID).Return(order, []model.OrderItem{}, nil)
	f.orderRepo.On("Cancel", ctx, orderID, "changed my mind").Return(true, nil)

	err := f.service.Cancel(ctx, userID, orderID, "changed my mind")

	require.NoError(t, err)
	f.orderRepo.AssertExpectations(t)

	assert.Eventually(t, func() bool {
		events := f.notifier.snapshot()
		return len(events) == 1 && events[0].EventType == notification.EventOrderCancelled
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOrderService_Cancel_AlreadyPreparing(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	orderID := uuid.New()
	order := &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusPreparing}

	f.orderRepo.On("GetByID", ctx, orderID).Return(order, []model.OrderItem{}, nil)

	err := f.service.Cancel(ctx, userID, orderID, "too slow")

	require.Error(t, err)
	assert.Equal(t, model.ErrCannotCancel, err)
	f.orderRepo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_Cancel_OtherUsersOrder(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	orderID := uuid.New()
	order := &model.Order{ID: orderID, UserID: uuid.New(), Status: model.OrderStatusPending}

	f.orderRepo.On("GetByID", ctx, orderID).Return(order, []model.OrderItem{}, nil)

	err := f.service.Cancel(ctx, uuid.New(), orderID, "not mine")

	require.Error(t, err)
	assert.Equal(t, model.ErrOrderNotFound, err)
}

func TestOrderService_Reorder_SkipsUnavailableDishes(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	userID := uuid.New()
	orderID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}

	availableDish := model.Dish{ID: uuid.New(), Name: "Poulet braisé", Price: 4500, IsAvailable: true}
	retiredDish := model.Dish{ID: uuid.New(), Name: "Ancien plat", Price: 3000, IsAvailable: false}

	order := &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusDelivered}
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: orderID, DishID: availableDish.ID, Quantity: 2, UnitPrice: 4000},
		{ID: uuid.New(), OrderID: orderID, DishID: retiredDish.ID, Quantity: 1, UnitPrice: 3000},
	}

	f.orderRepo.On("GetByID", ctx, orderID).Return(order, items, nil)
	f.cartRepo.On("GetOrCreate", ctx, userID).Return(cart, nil)
	f.cartRepo.On("ClearItems", ctx, cart.ID).Return(nil)
	f.dishRepo.On("GetByIDs", ctx, mock.AnythingOfType("[]uuid.UUID")).Return([]model.Dish{availableDish, retiredDish}, nil)
	f.cartRepo.On("AddItem", ctx, mock.MatchedBy(func(item *model.CartItem) bool {
		// Only the available dish makes it back, at its current price.
		return item.DishID == availableDish.ID && item.UnitPrice == 4500 && item.Quantity == 2
	})).Return(nil)
	f.cartRepo.On("GetItems", ctx, cart.ID).Return([]model.CartItem{
		{ID: uuid.New(), CartID: cart.ID, DishID: availableDish.ID, Quantity: 2, UnitPrice: 4500},
	}, nil)

	resp, err := f.service.Reorder(ctx, userID, orderID)

	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(9000), resp.Subtotal)
	f.cartRepo.AssertNumberOfCalls(t, "AddItem", 1)
}

func TestOrderService_UpdateStatus_Unknown(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()

	err := f.service.UpdateStatus(ctx, uuid.New(), model.OrderStatus("vaporised"))

	require.Error(t, err)
	assert.Equal(t, model.ErrInvalidStatus, err)
	f.orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_Success(t *testing.T) {
	ctx := context.Background()

	f := newOrderFixture()
	orderID := uuid.New()
	userID := uuid.New()
	order := &model.Order{ID: orderID, UserID: userID, OrderNumber: "ORD-20260831-BBBB2222", Status: model.OrderStatusConfirmed}

	f.orderRepo.On("GetByID", ctx, orderID).Return(order, []model.OrderItem{}, nil)
	f.orderRepo.On("UpdateStatus", ctx, orderID, model.OrderStatusPreparing).Return(true, nil)

	err := f.service.UpdateStatus(ctx, orderID, model.OrderStatusPreparing)

	require.NoError(t, err)
	f.orderRepo.AssertExpectations(t)

	assert.Eventually(t, func() bool {
		events := f.notifier.snapshot()
		return len(events) == 1 &&
			events[0].EventType == notification.EventOrderStatusUpdated &&
			events[0].UserID == userID
	}, 2*time.Second, 10*time.Millisecond)
}
