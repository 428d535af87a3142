package outcome

import (
	"context"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/logger"
)

// deliveryTimeout bounds one sink delivery, retries included.
const deliveryTimeout = 30 * time.Second

// Sink is one destination for settlement outcome records: the journal store,
// the message broker, or anything else a deployment wires in.
type Sink interface {
	// Name identifies the sink in logs
	Name() string
	// Deliver processes one outcome record
	Deliver(ctx context.Context, outcome *domain.SettlementOutcome) error
}

// Dispatcher fans settlement outcomes out to all sinks on a bounded worker
// pool. Dispatch never blocks settlement: records are handed to the pool and
// delivered asynchronously, so the notify phase cannot re-enter the engine.
type Dispatcher struct {
	pool  pond.Pool
	sinks []Sink
}

// NewDispatcher creates a dispatcher over the given sinks.
func NewDispatcher(poolSize, queueSize int, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		pool:  pond.NewPool(poolSize, pond.WithQueueSize(queueSize)),
		sinks: sinks,
	}
}

// Emit queues the outcome for delivery to every sink. Implements the
// settlement engine's OutcomeSink.
func (d *Dispatcher) Emit(outcome *domain.SettlementOutcome) {
	for _, sink := range d.sinks {
		d.pool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
			defer cancel()

			if err := sink.Deliver(ctx, outcome); err != nil {
				logger.Error(err,
					zap.String("sink", sink.Name()),
					zap.String("outcome_id", outcome.ID),
					zap.String("operation", string(outcome.Kind)),
				)
			}
		})
	}
}

// Close drains queued deliveries and stops the pool.
func (d *Dispatcher) Close() {
	d.pool.StopAndWait()
}
