package schema

import (
	"time"

	"gorm.io/datatypes"
)

// SettlementEvent is one entry in the append-only settlement journal. Each
// row is a full outcome record; indexing services replay the journal to
// reconstruct catalog, balance, and listing state.
type SettlementEvent struct {
	// ID is the outcome's ULID, assigned at emission; lexical order is
	// emission order
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Kind is the operation kind (create, mint, list, buy, deactivate, approval)
	Kind string `gorm:"column:kind;not null;type:text;index"`
	// TokenID is the subject token (0 for approval events)
	TokenID uint64 `gorm:"column:token_id;not null;index"`
	// Actor is the acting identity
	Actor string `gorm:"column:actor;not null;type:text;index"`
	// Payload is the full outcome record as emitted
	Payload datatypes.JSON `gorm:"column:payload;not null"`
	// Timestamp is the settlement time
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz;index"`
	// CreatedAt is the journal insertion time
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the SettlementEvent model
func (SettlementEvent) TableName() string {
	return "settlement_events"
}
