package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Intent statuses reported by the card provider.
const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusCanceled  = "canceled"
)

// Intent is the provider-side payment intent for a card payment.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CardClient talks to the card provider's payment-intent API. Amounts are in
// minor currency units, matching the provider's wire format.
type CardClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
	logger    zerolog.Logger
}

// NewCardClient creates a card provider client.
func NewCardClient(baseURL, secretKey string, logger zerolog.Logger) *CardClient {
	return &CardClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
		logger:    logger.With().Str("component", "card-client").Logger(),
	}
}

// CreateIntent creates a payment intent for the given amount and attaches
// the order metadata. The returned client secret is handed to the client for
// browser-side confirmation.
func (c *CardClient) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", strings.ToLower(currency))
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	var intent Intent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", strings.NewReader(form.Encode()), &intent); err != nil {
		return nil, err
	}

	return &intent, nil
}

// RetrieveIntent fetches the current provider state of a payment intent.
func (c *CardClient) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	var intent Intent
	if err := c.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil, &intent); err != nil {
		return nil, err
	}

	return &intent, nil
}

func (c *CardClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("card provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("card provider returned error status")
		return fmt.Errorf("card provider returned %d: %s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode card provider response: %w", err)
	}

	return nil
}
