package payment

import (
	"encoding/json"
	"fmt"
)

// Webhook event types sent by the card provider.
const (
	WebhookIntentSucceeded = "payment_intent.succeeded"
	WebhookIntentFailed    = "payment_intent.payment_failed"
)

// WebhookEvent is a parsed card provider webhook delivery. Deliveries are
// at-least-once: the same event id can arrive more than once, and events can
// race with client-initiated confirmation.
type WebhookEvent struct {
	ID            string
	Type          string
	IntentID      string
	FailureReason string
}

type webhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID               string `json:"id"`
			LastPaymentError struct {
				Message string `json:"message"`
			} `json:"last_payment_error"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhook decodes a webhook request body into a WebhookEvent.
func ParseWebhook(body []byte) (WebhookEvent, error) {
	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return WebhookEvent{}, fmt.Errorf("decode webhook payload: %w", err)
	}

	if payload.ID == "" || payload.Type == "" || payload.Data.Object.ID == "" {
		return WebhookEvent{}, fmt.Errorf("webhook payload missing id, type or object id")
	}

	return WebhookEvent{
		ID:            payload.ID,
		Type:          payload.Type,
		IntentID:      payload.Data.Object.ID,
		FailureReason: payload.Data.Object.LastPaymentError.Message,
	}, nil
}
