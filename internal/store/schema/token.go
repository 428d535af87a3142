package schema

import (
	"time"
)

// Token is the denormalized catalog read model maintained from settlement
// outcomes. The id is the ledger's own sequential token id, not a database
// sequence.
type Token struct {
	// ID is the ledger token id
	ID uint64 `gorm:"column:id;primaryKey"`
	// Name is the work's display name
	Name string `gorm:"column:name;not null;type:text"`
	// Description is the work's display description
	Description string `gorm:"column:description;not null;type:text"`
	// MusicURL is the opaque music locator, stored verbatim
	MusicURL string `gorm:"column:music_url;not null;type:text"`
	// ImageURL is the opaque image locator, stored verbatim
	ImageURL string `gorm:"column:image_url;not null;type:text"`
	// UnitPrice is the reference mint price in the smallest monetary unit
	UnitPrice uint64 `gorm:"column:unit_price;not null"`
	// MaxSupply is the fixed edition cap
	MaxSupply uint64 `gorm:"column:max_supply;not null"`
	// CurrentSupply is the minted edition count
	CurrentSupply uint64 `gorm:"column:current_supply;not null;default:0"`
	// RoyaltyBps is the royalty rate in basis points (0-10000)
	RoyaltyBps uint64 `gorm:"column:royalty_bps;not null"`
	// Creator is the opaque creator identity
	Creator string `gorm:"column:creator;not null;type:text;index"`
	// Active is false once the creator halts further minting and listing
	Active bool `gorm:"column:active;not null;default:true"`
	// CreatedAt is the ledger-side creation time
	CreatedAt time.Time `gorm:"column:created_at;not null;type:timestamptz"`

	// Associations
	Balances []Balance `gorm:"foreignKey:TokenID;constraint:OnDelete:CASCADE"`
	Listings []Listing `gorm:"foreignKey:TokenID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
