package outcome_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/outcome"
)

// recordingSink counts deliveries and optionally fails them.
type recordingSink struct {
	name string
	fail error

	mu        sync.Mutex
	delivered []*domain.SettlementOutcome
}

func (s *recordingSink) Name() string {
	return s.name
}

func (s *recordingSink) Deliver(ctx context.Context, o *domain.SettlementOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delivered = append(s.delivered, o)
	return s.fail
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func TestDispatcherDeliversToAllSinks(t *testing.T) {
	defer goleak.VerifyNone(t)

	journal := &recordingSink{name: "journal"}
	publisher := &recordingSink{name: "publisher"}
	d := outcome.NewDispatcher(4, 64, journal, publisher)

	outcomes := []*domain.SettlementOutcome{
		{ID: "01", Kind: domain.OperationCreate, TokenID: 1},
		{ID: "02", Kind: domain.OperationMint, TokenID: 1},
		{ID: "03", Kind: domain.OperationBuy, TokenID: 1},
	}
	for _, o := range outcomes {
		d.Emit(o)
	}

	// Close drains every queued delivery
	d.Close()

	assert.Equal(t, len(outcomes), journal.count())
	assert.Equal(t, len(outcomes), publisher.count())
}

func TestDispatcherSinkFailureDoesNotBlockOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	failing := &recordingSink{name: "journal", fail: errors.New("connection lost")}
	healthy := &recordingSink{name: "publisher"}
	d := outcome.NewDispatcher(2, 16, failing, healthy)

	d.Emit(&domain.SettlementOutcome{ID: "01", Kind: domain.OperationMint})
	d.Emit(&domain.SettlementOutcome{ID: "02", Kind: domain.OperationBuy})
	d.Close()

	// The failing sink was attempted and the healthy one still got everything
	assert.Equal(t, 2, failing.count())
	assert.Equal(t, 2, healthy.count())
}

func TestDispatcherNoSinks(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := outcome.NewDispatcher(2, 16)
	d.Emit(&domain.SettlementOutcome{ID: "01"})
	d.Close()
}
