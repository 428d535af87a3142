package schema

import (
	"time"
)

// Listing mirrors one open (token, seller) offer. Rows are deleted once the
// remaining quantity reaches zero; a zero listing is absent.
type Listing struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TokenID references the listed token
	TokenID uint64 `gorm:"column:token_id;not null;uniqueIndex:idx_listings_token_seller,priority:1"`
	// Seller is the opaque seller identity
	Seller string `gorm:"column:seller;not null;type:text;uniqueIndex:idx_listings_token_seller,priority:2"`
	// Price is the per-edition asking price in the smallest monetary unit
	Price uint64 `gorm:"column:price;not null"`
	// Quantity is the remaining quantity available for sale
	Quantity uint64 `gorm:"column:quantity;not null"`
	// UpdatedAt is the timestamp of the last settlement touching this listing
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}
