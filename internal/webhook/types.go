package webhook

import (
	"time"

	"github.com/tunemint/market-ledger/internal/domain"
)

// Event type constants, one per settlement operation
const (
	EventTypeTokenCreated     = "token.created"
	EventTypeTokenMinted      = "token.minted"
	EventTypeTokenListed      = "token.listed"
	EventTypeTokenSold        = "token.sold"
	EventTypeTokenDeactivated = "token.deactivated"
	EventTypeApprovalUpdated  = "approval.updated"
)

// WebhookEvent is the envelope delivered to subscribed clients.
type WebhookEvent struct {
	// EventID is the outcome's ULID, reused so clients can deduplicate
	// against the settlement journal
	EventID string `json:"event_id"`
	// EventType is the event kind (e.g., "token.sold")
	EventType string `json:"event_type"`
	// Timestamp is when the outcome was settled
	Timestamp time.Time `json:"timestamp"`
	// Data is the full settlement outcome record
	Data *domain.SettlementOutcome `json:"data"`
}

// EventTypeFor maps an operation kind to its webhook event type.
func EventTypeFor(kind domain.OperationKind) string {
	switch kind {
	case domain.OperationCreate:
		return EventTypeTokenCreated
	case domain.OperationMint:
		return EventTypeTokenMinted
	case domain.OperationList:
		return EventTypeTokenListed
	case domain.OperationBuy:
		return EventTypeTokenSold
	case domain.OperationDeactivate:
		return EventTypeTokenDeactivated
	case domain.OperationApproval:
		return EventTypeApprovalUpdated
	default:
		return string(kind)
	}
}

// NewEvent wraps a settlement outcome in its delivery envelope.
func NewEvent(outcome *domain.SettlementOutcome) WebhookEvent {
	return WebhookEvent{
		EventID:   outcome.ID,
		EventType: EventTypeFor(outcome.Kind),
		Timestamp: outcome.Timestamp,
		Data:      outcome,
	}
}
