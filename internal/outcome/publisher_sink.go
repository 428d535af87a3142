package outcome

import (
	"context"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/messaging"
)

// PublisherSink forwards settlement outcomes to the message bus.
type PublisherSink struct {
	publisher messaging.Publisher
}

// NewPublisherSink creates a sink that publishes each outcome.
func NewPublisherSink(publisher messaging.Publisher) *PublisherSink {
	return &PublisherSink{publisher: publisher}
}

func (s *PublisherSink) Name() string {
	return "publisher"
}

func (s *PublisherSink) Deliver(ctx context.Context, outcome *domain.SettlementOutcome) error {
	return s.publisher.PublishOutcome(ctx, outcome)
}
