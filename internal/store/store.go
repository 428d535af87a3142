package store

import (
	"context"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/store/schema"
)

// Store defines the interface for settlement journal operations
type Store interface {
	// RecordOutcome appends an outcome to the journal and updates the
	// denormalized read models in a single transaction
	RecordOutcome(ctx context.Context, outcome *domain.SettlementOutcome) error
	// GetToken retrieves a token read model by ledger id
	GetToken(ctx context.Context, tokenID uint64) (*schema.Token, error)
	// GetBalance retrieves one (token, holder) balance read model
	GetBalance(ctx context.Context, tokenID uint64, holder string) (*schema.Balance, error)
	// GetListing retrieves one (token, seller) listing read model
	GetListing(ctx context.Context, tokenID uint64, seller string) (*schema.Listing, error)
	// GetSettlementEvents retrieves journal entries for a token in emission
	// order, with the total count for pagination
	GetSettlementEvents(ctx context.Context, tokenID uint64, limit int, offset uint64) ([]schema.SettlementEvent, uint64, error)
}
