package catalog

import (
	"iter"
	"strings"
	"sync"
	"time"

	"github.com/tunemint/market-ledger/internal/domain"
)

// Catalog holds per-token metadata and supply counters. Records are stored in
// an arena keyed by sequential TokenID; callers always receive copies, never
// pointers into the arena.
type Catalog struct {
	mu     sync.RWMutex
	arena  map[domain.TokenID]*domain.Token
	nextID domain.TokenID
}

// CreateParams carries the immutable attributes of a new token.
type CreateParams struct {
	Name        string
	Description string
	MusicURL    string
	ImageURL    string
	UnitPrice   uint64
	MaxSupply   uint64
	RoyaltyBps  uint64
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		arena:  make(map[domain.TokenID]*domain.Token),
		nextID: 1,
	}
}

// Create registers a new token and returns its assigned id.
// It fails with ErrInvalidParameters when the name is empty, max supply is
// zero, or the royalty rate exceeds 10000 basis points.
func (c *Catalog) Create(creator domain.Actor, params CreateParams) (domain.TokenID, error) {
	if !creator.Valid() {
		return 0, domain.ErrInvalidParameters
	}
	if strings.TrimSpace(params.Name) == "" {
		return 0, domain.ErrInvalidParameters
	}
	if params.MaxSupply == 0 {
		return 0, domain.ErrInvalidParameters
	}
	if params.RoyaltyBps > domain.MaxRoyaltyBps {
		return 0, domain.ErrInvalidParameters
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++

	c.arena[id] = &domain.Token{
		ID:          id,
		Name:        params.Name,
		Description: params.Description,
		MusicURL:    params.MusicURL,
		ImageURL:    params.ImageURL,
		UnitPrice:   params.UnitPrice,
		MaxSupply:   params.MaxSupply,
		RoyaltyBps:  params.RoyaltyBps,
		Creator:     creator,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	return id, nil
}

// Get returns a copy of the token record, or ErrNotFound.
func (c *Catalog) Get(tokenID domain.TokenID) (domain.Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	token, ok := c.arena[tokenID]
	if !ok {
		return domain.Token{}, domain.ErrNotFound
	}
	return *token, nil
}

// ListAll returns a lazy, restartable sequence of all tokens in creation
// order. Each restart observes the catalog as of that iteration; tokens
// created mid-iteration after the cursor may or may not be yielded.
func (c *Catalog) ListAll() iter.Seq[domain.Token] {
	return func(yield func(domain.Token) bool) {
		c.mu.RLock()
		last := c.nextID
		c.mu.RUnlock()

		for id := domain.TokenID(1); id < last; id++ {
			token, err := c.Get(id)
			if err != nil {
				// ids are never reclaimed, so a gap cannot occur
				continue
			}
			if !yield(token) {
				return
			}
		}
	}
}

// Deactivate sets the active flag to false, halting future mints and listings
// for the token. Only the creator may deactivate; existing listings stay
// buyable.
func (c *Catalog) Deactivate(tokenID domain.TokenID, caller domain.Actor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, ok := c.arena[tokenID]
	if !ok {
		return domain.ErrNotFound
	}
	if token.Creator != caller {
		return domain.ErrUnauthorized
	}

	token.Active = false
	return nil
}

// AddSupply increases the current supply counter. The settlement engine is
// responsible for the supply-cap check; AddSupply only enforces that the
// invariant currentSupply <= maxSupply still holds after the increment.
func (c *Catalog) AddSupply(tokenID domain.TokenID, amount uint64) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, ok := c.arena[tokenID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	next := token.CurrentSupply + amount
	if next < token.CurrentSupply {
		return 0, domain.ErrArithmeticOverflow
	}
	if next > token.MaxSupply {
		return 0, domain.ErrSupplyExceeded
	}

	token.CurrentSupply = next
	return next, nil
}
