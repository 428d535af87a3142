package domain

import (
	"strings"
	"time"
)

// Actor is an opaque, externally-authenticated principal. The ledger compares
// actors only for equality and never interprets the value.
type Actor string

// Valid reports whether the actor identity is usable. Whitespace-only
// identities are rejected because they cannot be meaningfully compared.
func (a Actor) Valid() bool {
	return strings.TrimSpace(string(a)) != ""
}

// String returns the string representation of the actor identity.
func (a Actor) String() string {
	return string(a)
}

// TokenID identifies a catalog entry. IDs are assigned sequentially starting at 1.
type TokenID uint64

// MaxRoyaltyBps is the upper bound for royalty rates (10000 = 100%).
const MaxRoyaltyBps = 10_000

// Token is one catalog entry: a creative work with a bounded edition count.
// Metadata fields are immutable after creation; CurrentSupply and Active are
// the only mutable attributes.
type Token struct {
	ID            TokenID   `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	MusicURL      string    `json:"music_url"` // opaque locator, resolved by collaborators
	ImageURL      string    `json:"image_url"` // opaque locator, resolved by collaborators
	UnitPrice     uint64    `json:"unit_price"`
	MaxSupply     uint64    `json:"max_supply"`
	CurrentSupply uint64    `json:"current_supply"`
	RoyaltyBps    uint64    `json:"royalty_bps"`
	Creator       Actor     `json:"creator"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// Listing is a seller's open offer: up to Quantity editions at Price each.
// A listing with Quantity 0 is absent.
type Listing struct {
	TokenID  TokenID `json:"token_id"`
	Seller   Actor   `json:"seller"`
	Price    uint64  `json:"price"`
	Quantity uint64  `json:"quantity"`
}

// OperationKind names a state-changing ledger operation.
type OperationKind string

const (
	OperationCreate     OperationKind = "create"
	OperationMint       OperationKind = "mint"
	OperationList       OperationKind = "list"
	OperationBuy        OperationKind = "buy"
	OperationDeactivate OperationKind = "deactivate"
	OperationApproval   OperationKind = "approval"
)

// Transfer is one leg of the payment routing performed as the final step of a
// settled operation.
type Transfer struct {
	To     Actor  `json:"to"`
	Amount uint64 `json:"amount"`
}

// SettlementOutcome is the structured record emitted for every successful
// state-changing call. Collaborators (indexers, search services) consume these
// to reconstruct catalog/listing state without re-querying the full ledger.
type SettlementOutcome struct {
	ID        string        `json:"id"` // ULID, assigned at emission
	Kind      OperationKind `json:"operation_kind"`
	TokenID   TokenID       `json:"token_id"`
	Actor     Actor         `json:"actor"`              // the acting identity
	Seller    Actor         `json:"seller,omitempty"`   // buy only
	Operator  Actor         `json:"operator,omitempty"` // approval only
	Approved  *bool         `json:"approved,omitempty"` // approval only
	Quantity  uint64        `json:"quantity,omitempty"`
	Payment   uint64        `json:"payment,omitempty"`
	Transfers []Transfer    `json:"transfers,omitempty"`

	// Token carries the full catalog record on creation outcomes, so indexers
	// can reconstruct the catalog without a follow-up query.
	Token *Token `json:"token,omitempty"`

	// Resulting state after the mutation, for collaborator reconstruction.
	ResultingSupply   *uint64          `json:"resulting_supply,omitempty"`
	ResultingBalances map[Actor]uint64 `json:"resulting_balances,omitempty"`
	ResultingListing  *Listing         `json:"resulting_listing,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
