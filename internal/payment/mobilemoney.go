package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
)

// Transaction statuses reported by the mobile money provider.
const (
	TransactionStatusPending  = "pending"
	TransactionStatusApproved = "approved"
	TransactionStatusDeclined = "declined"
	TransactionStatusCanceled = "canceled"
)

// defaultCountryPrefix is applied to local 8-digit numbers.
const defaultCountryPrefix = "+228"

// Transaction is the provider-side mobile money transaction.
type Transaction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// MobileMoneyClient talks to the mobile money provider's transaction API.
// Transactions start pending and must be polled until approved, declined or
// canceled; no webhook push is assumed reliable on its own.
type MobileMoneyClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// NewMobileMoneyClient creates a mobile money provider client.
func NewMobileMoneyClient(baseURL, apiKey string, logger zerolog.Logger) *MobileMoneyClient {
	return &MobileMoneyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger.With().Str("component", "mobile-money-client").Logger(),
	}
}

type createTransactionRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Customer customerPayload   `json:"customer"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type customerPayload struct {
	Phone    string `json:"phone"`
	Provider string `json:"provider"`
}

// CreateTransaction starts a mobile money collection for the given amount.
// The phone number must already be in international format.
func (c *MobileMoneyClient) CreateTransaction(ctx context.Context, amount int64, currency, phone, provider string, metadata map[string]string) (*Transaction, error) {
	body, err := json.Marshal(createTransactionRequest{
		Amount:   amount,
		Currency: currency,
		Customer: customerPayload{Phone: phone, Provider: provider},
		Metadata: metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal transaction request: %w", err)
	}

	var txn Transaction
	if err := c.do(ctx, http.MethodPost, "/v1/transactions", bytes.NewReader(body), &txn); err != nil {
		return nil, err
	}

	return &txn, nil
}

// RetrieveTransaction fetches the current provider state of a transaction.
func (c *MobileMoneyClient) RetrieveTransaction(ctx context.Context, id string) (*Transaction, error) {
	var txn Transaction
	if err := c.do(ctx, http.MethodGet, "/v1/transactions/"+url.PathEscape(id), nil, &txn); err != nil {
		return nil, err
	}

	return &txn, nil
}

func (c *MobileMoneyClient) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mobile money provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("mobile money provider returned error status")
		return fmt.Errorf("mobile money provider returned %d: %s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode mobile money provider response: %w", err)
	}

	return nil
}

// NormalizePhone converts a customer phone number to international format.
// Spaces, dots and dashes are stripped; "00" prefixes become "+"; bare local
// numbers get the default country prefix.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == '+' {
			b.WriteRune(r)
		} else if r != ' ' && r != '-' && r != '.' && r != '(' && r != ')' {
			return "", fmt.Errorf("invalid character %q in phone number", r)
		}
	}

	phone := b.String()
	switch {
	case phone == "":
		return "", fmt.Errorf("phone number is empty")
	case strings.HasPrefix(phone, "+"):
		if strings.ContainsRune(phone[1:], '+') {
			return "", fmt.Errorf("malformed phone number %q", raw)
		}
	case strings.HasPrefix(phone, "00"):
		phone = "+" + phone[2:]
	default:
		phone = defaultCountryPrefix + phone
	}

	if len(phone) < 9 || len(phone) > 16 {
		return "", fmt.Errorf("phone number %q has invalid length", raw)
	}

	return phone, nil
}

// MapTransactionStatus maps a provider transaction status onto the payment
// status enum. The second return reports whether the status is terminal;
// unknown statuses stay pending so polling continues.
func MapTransactionStatus(status string) (model.PaymentStatus, bool) {
	switch status {
	case TransactionStatusApproved:
		return model.PaymentStatusCompleted, true
	case TransactionStatusDeclined, TransactionStatusCanceled:
		return model.PaymentStatusFailed, true
	default:
		return model.PaymentStatusPending, false
	}
}
