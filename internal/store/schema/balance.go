package schema

import (
	"time"
)

// Balance mirrors one (token, holder) edition quantity. A row with quantity 0
// is kept rather than deleted; absence and zero are equivalent in the ledger.
type Balance struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID references the token being owned
	TokenID uint64 `gorm:"column:token_id;not null;uniqueIndex:idx_balances_token_holder,priority:1"`
	// Holder is the opaque owner identity
	Holder string `gorm:"column:holder;not null;type:text;uniqueIndex:idx_balances_token_holder,priority:2"`
	// Quantity is the number of editions held
	Quantity uint64 `gorm:"column:quantity;not null"`
	// UpdatedAt is the timestamp of the last settlement touching this balance
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}
