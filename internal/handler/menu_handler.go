package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/service"
)

// MenuHandler handles menu browsing HTTP requests.
type MenuHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(service service.CatalogService, logger zerolog.Logger) *MenuHandler {
	return &MenuHandler{
		service: service,
		logger:  logger.With().Str("handler", "menu").Logger(),
	}
}

// Categories handles GET /api/menu/categories requests.
func (h *MenuHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		handleServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Dishes handles GET /api/menu/categories/{id}/dishes requests. Customers
// only see available dishes; staff pass all=true to include the rest.
func (h *MenuHandler) Dishes(w http.ResponseWriter, r *http.Request) {
	categoryID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid category ID format", h.logger)
		return
	}

	availableOnly := r.URL.Query().Get("all") != "true"

	dishes, err := h.service.Dishes(r.Context(), categoryID, availableOnly)
	if err != nil {
		handleServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"dishes": dishes})
}

// Dish handles GET /api/menu/dishes/{id} requests.
func (h *MenuHandler) Dish(w http.ResponseWriter, r *http.Request) {
	dishID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid dish ID format", h.logger)
		return
	}

	dish, err := h.service.Dish(r.Context(), dishID)
	if err != nil {
		handleServiceError(w, err, h.logger)
		return
	}
	if dish == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeDishNotFound, "dish not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dish)
}
