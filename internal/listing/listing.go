package listing

import (
	"sync"

	"github.com/tunemint/market-ledger/internal/domain"
)

// key is the composite (token, seller) index into the listing arena.
type key struct {
	tokenID domain.TokenID
	seller  domain.Actor
}

// Registry holds the open offers, one per (token, seller) pair. Re-listing
// overwrites; a listing decremented to zero is removed.
type Registry struct {
	mu       sync.RWMutex
	listings map[key]*domain.Listing
}

// New creates an empty listing registry.
func New() *Registry {
	return &Registry{listings: make(map[key]*domain.Listing)}
}

// Upsert creates or overwrites the seller's listing for a token. Quantity 0
// removes the listing. Price must be positive.
func (r *Registry) Upsert(tokenID domain.TokenID, seller domain.Actor, price, quantity uint64) error {
	if price == 0 {
		return domain.ErrInvalidParameters
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{tokenID, seller}
	if quantity == 0 {
		delete(r.listings, k)
		return nil
	}

	r.listings[k] = &domain.Listing{
		TokenID:  tokenID,
		Seller:   seller,
		Price:    price,
		Quantity: quantity,
	}
	return nil
}

// Get returns the listing and true, or a zero listing and false when absent.
// Absence is a first-class result, not an error, so callers can probe cheaply.
func (r *Registry) Get(tokenID domain.TokenID, seller domain.Actor) (domain.Listing, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[key{tokenID, seller}]
	if !ok {
		return domain.Listing{}, false
	}
	return *l, true
}

// Decrement reduces the listing's remaining quantity, removing it at zero.
// It fails with ErrInsufficientListing when the listing is absent or offers
// less than the requested amount.
func (r *Registry) Decrement(tokenID domain.TokenID, seller domain.Actor, amount uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{tokenID, seller}
	l, ok := r.listings[k]
	if !ok || l.Quantity < amount {
		return domain.ErrInsufficientListing
	}

	l.Quantity -= amount
	if l.Quantity == 0 {
		delete(r.listings, k)
	}
	return nil
}
