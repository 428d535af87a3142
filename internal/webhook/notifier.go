package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/logger"
)

// Endpoint is one webhook subscriber: a URL plus the shared secret used to
// sign its deliveries.
type Endpoint struct {
	URL    string
	Secret string
}

// Notifier delivers settlement outcomes as signed webhook events. It
// implements the outcome dispatcher's Sink.
type Notifier struct {
	endpoints []Endpoint
	client    *http.Client
}

// NewNotifier creates a webhook notifier over the given endpoints.
func NewNotifier(endpoints []Endpoint, timeout time.Duration) *Notifier {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		endpoints: endpoints,
		client:    &http.Client{Timeout: timeout},
	}
}

func (n *Notifier) Name() string {
	return "webhook"
}

// Deliver posts the outcome to every endpoint, retrying each with exponential
// backoff until the context expires. Endpoints fail independently; the first
// failure is reported after all endpoints were attempted.
func (n *Notifier) Deliver(ctx context.Context, outcome *domain.SettlementOutcome) error {
	event := NewEvent(outcome)

	var firstErr error
	for _, endpoint := range n.endpoints {
		operation := func() error {
			return n.post(ctx, endpoint, event)
		}
		if err := backoff.Retry(operation, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
			logger.Error(fmt.Errorf("webhook delivery failed: %w", err),
				zap.String("url", endpoint.URL),
				zap.String("event_id", event.EventID),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// post performs one signed delivery attempt.
func (n *Notifier) post(ctx context.Context, endpoint Endpoint, event WebhookEvent) error {
	payload, signature, timestamp, err := GenerateSignedPayload(endpoint.Secret, event)
	if err != nil {
		// A payload that cannot be signed will never succeed
		return backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.URL, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature)
	req.Header.Set("X-Webhook-Event-ID", event.EventID)
	req.Header.Set("X-Webhook-Event-Type", event.EventType)
	req.Header.Set("X-Webhook-Timestamp", fmt.Sprintf("%d", timestamp))
	req.Header.Set("User-Agent", "Market-Ledger-Webhook/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		// Drain so the connection can be reused; cap the read at 4KB
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4*1024))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}
