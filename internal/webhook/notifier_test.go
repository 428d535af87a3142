package webhook_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/webhook"
)

func TestNotifierDeliver(t *testing.T) {
	const secret = "endpoint-secret"

	var received atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		// The delivery carries a verifiable signature
		timestamp, err := strconv.ParseInt(r.Header.Get("X-Webhook-Timestamp"), 10, 64)
		require.NoError(t, err)
		assert.True(t, webhook.VerifySignature(
			secret,
			r.Header.Get("X-Webhook-Signature"),
			timestamp,
			r.Header.Get("X-Webhook-Event-ID"),
			body,
		))
		assert.Equal(t, webhook.EventTypeTokenSold, r.Header.Get("X-Webhook-Event-Type"))

		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := webhook.NewNotifier([]webhook.Endpoint{{URL: server.URL, Secret: secret}}, 5*time.Second)

	outcome := &domain.SettlementOutcome{
		ID:        "01JG8XAMPLE1234567890123456",
		Kind:      domain.OperationBuy,
		TokenID:   1,
		Actor:     "carol",
		Seller:    "bob",
		Quantity:  1,
		Payment:   150,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, n.Deliver(context.Background(), outcome))
	assert.Equal(t, int32(1), received.Load())
}

func TestNotifierRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := webhook.NewNotifier([]webhook.Endpoint{{URL: server.URL, Secret: "s"}}, 5*time.Second)

	outcome := &domain.SettlementOutcome{
		ID:        "01JG8XAMPLE0000000000000001",
		Kind:      domain.OperationMint,
		TokenID:   1,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, n.Deliver(context.Background(), outcome))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestNotifierGivesUpWhenContextExpires(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	n := webhook.NewNotifier([]webhook.Endpoint{{URL: server.URL, Secret: "s"}}, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	outcome := &domain.SettlementOutcome{
		ID:        "01JG8XAMPLE0000000000000002",
		Kind:      domain.OperationList,
		TokenID:   1,
		Timestamp: time.Now().UTC(),
	}
	assert.Error(t, n.Deliver(ctx, outcome))
}
