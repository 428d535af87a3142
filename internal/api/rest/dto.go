package rest

import (
	"time"

	"github.com/tunemint/market-ledger/internal/domain"
)

// CreateTokenRequest is the payload for registering a new token edition.
type CreateTokenRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MusicURL    string `json:"music_url"`
	ImageURL    string `json:"image_url"`
	UnitPrice   uint64 `json:"unit_price"`
	MaxSupply   uint64 `json:"max_supply" binding:"required"`
	RoyaltyBps  uint64 `json:"royalty_bps"`
}

// MintRequest is the payload for minting editions of a token.
type MintRequest struct {
	Quantity uint64 `json:"quantity" binding:"required"`
	Payment  uint64 `json:"payment"`
}

// ListTokenRequest is the payload for placing units up for sale.
type ListTokenRequest struct {
	Price    uint64 `json:"price" binding:"required"`
	Quantity uint64 `json:"quantity"`
}

// BuyRequest is the payload for purchasing from a listing.
type BuyRequest struct {
	Seller   string `json:"seller" binding:"required"`
	Quantity uint64 `json:"quantity" binding:"required"`
	Payment  uint64 `json:"payment"`
}

// ApprovalRequest is the payload for granting or revoking an operator
// approval. Operator defaults to the marketplace settlement identity.
type ApprovalRequest struct {
	Operator string `json:"operator"`
	Approved *bool  `json:"approved" binding:"required"`
}

// TokenResponse is the read representation of a token edition.
type TokenResponse struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	MusicURL      string    `json:"music_url,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	UnitPrice     uint64    `json:"unit_price"`
	MaxSupply     uint64    `json:"max_supply"`
	CurrentSupply uint64    `json:"current_supply"`
	RoyaltyBps    uint64    `json:"royalty_bps"`
	Creator       string    `json:"creator"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListingResponse is the read representation of an active listing.
type ListingResponse struct {
	TokenID  uint64 `json:"token_id"`
	Seller   string `json:"seller"`
	Price    uint64 `json:"price"`
	Quantity uint64 `json:"quantity"`
}

// BalanceResponse is the read representation of a holder's balance.
type BalanceResponse struct {
	TokenID  uint64 `json:"token_id"`
	Holder   string `json:"holder"`
	Quantity uint64 `json:"quantity"`
}

// ApprovalResponse echoes the approval state after an update.
type ApprovalResponse struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

// CreateTokenResponse carries the assigned id of a new token.
type CreateTokenResponse struct {
	ID uint64 `json:"id"`
}

// TokenListResponse wraps the catalog listing.
type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
	Total  int             `json:"total"`
}

func toTokenResponse(t domain.Token) TokenResponse {
	return TokenResponse{
		ID:            uint64(t.ID),
		Name:          t.Name,
		Description:   t.Description,
		MusicURL:      t.MusicURL,
		ImageURL:      t.ImageURL,
		UnitPrice:     t.UnitPrice,
		MaxSupply:     t.MaxSupply,
		CurrentSupply: t.CurrentSupply,
		RoyaltyBps:    t.RoyaltyBps,
		Creator:       t.Creator.String(),
		Active:        t.Active,
		CreatedAt:     t.CreatedAt,
	}
}

func toListingResponse(l domain.Listing) ListingResponse {
	return ListingResponse{
		TokenID:  uint64(l.TokenID),
		Seller:   l.Seller.String(),
		Price:    l.Price,
		Quantity: l.Quantity,
	}
}
