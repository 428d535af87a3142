package messaging

import (
	"context"

	"github.com/tunemint/market-ledger/internal/domain"
)

// Publisher defines the interface for publishing settlement outcomes to a
// message broker, where external indexing services consume them.
type Publisher interface {
	// PublishOutcome publishes one settlement outcome record
	PublishOutcome(ctx context.Context, outcome *domain.SettlementOutcome) error
	// Close closes the connection
	Close()
}
