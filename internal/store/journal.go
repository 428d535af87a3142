package store

import (
	"context"

	"github.com/tunemint/market-ledger/internal/domain"
)

// JournalSink delivers settlement outcomes into the persistent journal.
type JournalSink struct {
	store Store
}

// NewJournalSink creates a sink backed by the given store.
func NewJournalSink(store Store) *JournalSink {
	return &JournalSink{store: store}
}

func (s *JournalSink) Name() string {
	return "journal"
}

func (s *JournalSink) Deliver(ctx context.Context, outcome *domain.SettlementOutcome) error {
	return s.store.RecordOutcome(ctx, outcome)
}
