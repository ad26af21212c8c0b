package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/payment"
	"github.com/iamrachking/api-chelsy-apk-sub000/internal/service"
)

// maxWebhookBody caps how much of a webhook payload is read.
const maxWebhookBody = 64 * 1024

// PaymentHandler handles payment confirmation HTTP requests.
type PaymentHandler struct {
	service       service.PaymentService
	webhookSecret string
	logger        zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, webhookSecret string, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service:       service,
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("handler", "payment").Logger(),
	}
}

// confirmRequest is the client payload reporting a completed card payment.
type confirmRequest struct {
	IntentID string `json:"intentId"`
}

// Confirm handles POST /api/payments/confirm requests. The client only
// reports that it finished the card flow; the provider is re-queried before
// any state changes.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r, h.logger); !ok {
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IntentID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	pmt, err := h.service.ConfirmCard(r.Context(), req.IntentID)
	if err != nil {
		handleServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, pmt)
}

// Webhook handles POST /api/payments/webhook requests from the card
// provider. It always answers 200 for events it understood, even when the
// referenced payment is already settled, so the provider stops retrying.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if h.webhookSecret == "" || r.Header.Get("X-Webhook-Secret") != h.webhookSecret {
		h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("webhook with missing or invalid secret")
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "invalid webhook secret", h.logger)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "could not read request body", h.logger)
		return
	}

	event, err := payment.ParseWebhook(body)
	if err != nil {
		h.logger.Warn().Err(err).Msg("malformed webhook payload")
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "malformed webhook payload", h.logger)
		return
	}

	if _, err := h.service.HandleWebhook(r.Context(), event); err != nil {
		handleServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"received": event.ID})
}

// Status handles GET /api/payments/{id}/status requests. For pending mobile
// money payments this polls the provider before answering.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r, h.logger); !ok {
		return
	}

	paymentID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid payment ID format", h.logger)
		return
	}

	pmt, err := h.service.CheckMobileMoney(r.Context(), paymentID)
	if err != nil {
		handleServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, pmt)
}
