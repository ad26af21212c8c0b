package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamrachking/api-chelsy-apk-sub000/internal/model"
)

func testOrder() *model.Order {
	return &model.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20260831-TEST",
		Total:       11500,
	}
}

func fakeCardProvider(t *testing.T, status int, intent Intent) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(intent)
	}))
}

func TestGateway_InitiateCard_Success(t *testing.T) {
	server := fakeCardProvider(t, http.StatusOK, Intent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret_abc",
		Status:       "requires_payment_method",
	})
	defer server.Close()

	card := NewCardClient(server.URL, "sk_test_123", zerolog.Nop())
	gw := NewGateway(card, nil, "XOF", zerolog.Nop())

	result := gw.Initiate(context.Background(), testOrder(), model.Card{})

	require.True(t, result.Success)
	assert.Equal(t, "pi_123", result.ProviderRef)
	assert.Equal(t, model.PaymentStatusPending, result.Status)
	assert.False(t, result.OrderConfirmed)
	assert.Equal(t, "pi_123_secret_abc", result.ClientPayload["clientSecret"])
}

func TestGateway_InitiateCard_ProviderError(t *testing.T) {
	server := fakeCardProvider(t, http.StatusPaymentRequired, Intent{})
	defer server.Close()

	card := NewCardClient(server.URL, "sk_test_123", zerolog.Nop())
	gw := NewGateway(card, nil, "XOF", zerolog.Nop())

	result := gw.Initiate(context.Background(), testOrder(), model.Card{})

	assert.False(t, result.Success)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "402")
}

func TestGateway_InitiateCard_ProviderUnreachable(t *testing.T) {
	// Point at a closed server: the error must surface in the result,
	// never as a panic or raised error.
	server := fakeCardProvider(t, http.StatusOK, Intent{})
	server.Close()

	card := NewCardClient(server.URL, "sk_test_123", zerolog.Nop())
	gw := NewGateway(card, nil, "XOF", zerolog.Nop())

	result := gw.Initiate(context.Background(), testOrder(), model.Card{})

	assert.False(t, result.Success)
	assert.Error(t, result.Err)
}

func TestGateway_InitiateMobileMoney_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mm_key", r.Header.Get("X-API-Key"))

		var req createTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(11500), req.Amount)
		assert.Equal(t, "+22890123456", req.Customer.Phone)

		_ = json.NewEncoder(w).Encode(Transaction{ID: "txn_777", Status: TransactionStatusPending})
	}))
	defer server.Close()

	momo := NewMobileMoneyClient(server.URL, "mm_key", zerolog.Nop())
	gw := NewGateway(nil, momo, "XOF", zerolog.Nop())

	result := gw.Initiate(context.Background(), testOrder(), model.MobileMoney{
		Phone:    "90 12 34 56",
		Provider: "tmoney",
	})

	require.True(t, result.Success)
	assert.Equal(t, "txn_777", result.ProviderRef)
	assert.Equal(t, model.PaymentStatusPending, result.Status)
	assert.Equal(t, "txn_777", result.ClientPayload["transactionId"])
}

func TestGateway_InitiateMobileMoney_BadPhone(t *testing.T) {
	gw := NewGateway(nil, NewMobileMoneyClient("http://localhost:0", "k", zerolog.Nop()), "XOF", zerolog.Nop())

	result := gw.Initiate(context.Background(), testOrder(), model.MobileMoney{Phone: "not-a-phone"})

	assert.False(t, result.Success)
	assert.Error(t, result.Err)
}

func TestGateway_InitiateCash(t *testing.T) {
	gw := NewGateway(nil, nil, "XOF", zerolog.Nop())

	result := gw.Initiate(context.Background(), testOrder(), model.Cash{})

	require.True(t, result.Success)
	assert.True(t, result.OrderConfirmed)
	assert.Equal(t, model.PaymentStatusPending, result.Status)
	assert.Contains(t, result.ProviderRef, "CASH-")
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "international", in: "+22890123456", want: "+22890123456"},
		{name: "double zero prefix", in: "0022890123456", want: "+22890123456"},
		{name: "local with spaces", in: "90 12 34 56", want: "+22890123456"},
		{name: "dashes and dots", in: "90-12.34-56", want: "+22890123456"},
		{name: "empty", in: "", wantErr: true},
		{name: "letters", in: "react903456", wantErr: true},
		{name: "double plus", in: "+228+90123456", wantErr: true},
		{name: "too short", in: "+123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapTransactionStatus(t *testing.T) {
	status, terminal := MapTransactionStatus(TransactionStatusApproved)
	assert.Equal(t, model.PaymentStatusCompleted, status)
	assert.True(t, terminal)

	status, terminal = MapTransactionStatus(TransactionStatusDeclined)
	assert.Equal(t, model.PaymentStatusFailed, status)
	assert.True(t, terminal)

	status, terminal = MapTransactionStatus(TransactionStatusCanceled)
	assert.Equal(t, model.PaymentStatusFailed, status)
	assert.True(t, terminal)

	status, terminal = MapTransactionStatus("processing")
	assert.Equal(t, model.PaymentStatusPending, status)
	assert.False(t, terminal)
}
