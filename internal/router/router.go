package router

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/handler"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/middleware"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	menuHandler *handler.MenuHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	apiKey string,
	staffKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()
	staff := middleware.StaffOnly(staffKey, logger)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Menu browsing
	mux.HandleFunc("GET /api/menu/categories", menuHandler.Categories)
	mux.HandleFunc("GET /api/menu/categories/{id}/dishes", menuHandler.Dishes)
	mux.HandleFunc("GET /api/menu/dishes/{id}", menuHandler.Dish)

	// Cart
	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("DELETE /api/cart", cartHandler.Clear)
	mux.HandleFunc("POST /api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", cartHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", cartHandler.RemoveItem)

	// Orders
	mux.HandleFunc("POST /api/orders", orderHandler.Place)
	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)
	mux.HandleFunc("POST /api/orders/{id}/cancel", orderHandler.Cancel)
	mux.HandleFunc("POST /api/orders/{id}/reorder", orderHandler.Reorder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", staff(orderHandler.UpdateStatus))

	// Payments
	mux.HandleFunc("POST /api/payments/confirm", paymentHandler.Confirm)
	mux.HandleFunc("POST /api/payments/webhook", paymentHandler.Webhook)
	mux.HandleFunc("GET /api/payments/{id}/status", paymentHandler.Status)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
