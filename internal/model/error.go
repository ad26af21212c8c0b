package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeNoRestaurant    = "NO_RESTAURANT"
	ErrCodeBelowMinimum    = "BELOW_MINIMUM"
	ErrCodeMissingAddress  = "MISSING_ADDRESS"
	ErrCodeAddressNotFound = "ADDRESS_NOT_FOUND"
	ErrCodeOutOfZone       = "OUT_OF_DELIVERY_ZONE"
	ErrCodePromoNotFound   = "PROMO_NOT_FOUND"
	ErrCodePromoInactive   = "PROMO_INACTIVE"
	ErrCodePromoNotStarted = "PROMO_NOT_STARTED"
	ErrCodePromoExpired    = "PROMO_EXPIRED"
	ErrCodePromoMinimum    = "PROMO_BELOW_MINIMUM"
	ErrCodePromoGlobalCap  = "PROMO_GLOBAL_CAP_REACHED"
	ErrCodePromoUserCap    = "PROMO_USER_CAP_REACHED"
	ErrCodePromoRace       = "PROMO_NO_LONGER_VALID"
	ErrCodePaymentInit     = "PAYMENT_INITIATION_FAILED"
	ErrCodePaymentMethod   = "INVALID_PAYMENT_METHOD"
	ErrCodePaymentNotFound = "PAYMENT_NOT_FOUND"
	ErrCodePaymentVerify   = "PAYMENT_VERIFICATION_FAILED"
	ErrCodeDishUnavailable = "DISH_UNAVAILABLE"
	ErrCodeDishNotFound    = "DISH_NOT_FOUND"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"
	ErrCodeCannotCancel    = "CANNOT_CANCEL"
	ErrCodeInvalidStatus   = "INVALID_STATUS"
	ErrCodeInvalidType     = "INVALID_ORDER_TYPE"
	ErrCodeCartItemMissing = "CART_ITEM_NOT_FOUND"
)

// DomainError is a business-rule failure that maps to a client-facing 4xx
// response. Infrastructure failures are plain wrapped errors instead.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart       = NewDomainError(ErrCodeEmptyCart, "Your cart is empty")
	ErrNoRestaurant    = NewDomainError(ErrCodeNoRestaurant, "No active restaurant is configured")
	ErrBelowMinimum    = NewDomainError(ErrCodeBelowMinimum, "Order amount is below the restaurant minimum")
	ErrMissingAddress  = NewDomainError(ErrCodeMissingAddress, "A delivery address is required for delivery orders")
	ErrAddressNotFound = NewDomainError(ErrCodeAddressNotFound, "Delivery address not found")
	ErrOutOfZone       = NewDomainError(ErrCodeOutOfZone, "Address is outside the delivery zone")
	ErrPromoNotFound   = NewDomainError(ErrCodePromoNotFound, "Promo code not found")
	ErrPromoInactive   = NewDomainError(ErrCodePromoInactive, "Promo code is not active")
	ErrPromoNotStarted = NewDomainError(ErrCodePromoNotStarted, "Promo code is not valid yet")
	ErrPromoExpired    = NewDomainError(ErrCodePromoExpired, "Promo code has expired")
	ErrPromoMinimum    = NewDomainError(ErrCodePromoMinimum, "Order amount is below the promo code minimum")
	ErrPromoGlobalCap  = NewDomainError(ErrCodePromoGlobalCap, "Promo code usage limit reached")
	ErrPromoUserCap    = NewDomainError(ErrCodePromoUserCap, "You have already used this promo code")
	ErrPromoRace       = NewDomainError(ErrCodePromoRace, "Promo code is no longer valid, try again without it")
	ErrPaymentInit     = NewDomainError(ErrCodePaymentInit, "Could not process payment, please try again")
	ErrPaymentMethod   = NewDomainError(ErrCodePaymentMethod, "Unknown payment method")
	ErrPaymentNotFound = NewDomainError(ErrCodePaymentNotFound, "Payment not found")
	ErrPaymentVerify   = NewDomainError(ErrCodePaymentVerify, "Could not verify payment, please try again")
	ErrDishUnavailable = NewDomainError(ErrCodeDishUnavailable, "Dish is not available")
	ErrDishNotFound    = NewDomainError(ErrCodeDishNotFound, "Dish not found")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrCannotCancel    = NewDomainError(ErrCodeCannotCancel, "Order can no longer be cancelled")
	ErrInvalidStatus   = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidType     = NewDomainError(ErrCodeInvalidType, "Order type must be delivery or pickup")
	ErrCartItemMissing = NewDomainError(ErrCodeCartItemMissing, "Cart item not found")
)
