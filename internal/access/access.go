package access

import (
	"sync"

	"github.com/tunemint/market-ledger/internal/domain"
)

// key is the composite (owner, operator) index into the approval set.
type key struct {
	owner    domain.Actor
	operator domain.Actor
}

// Control maintains the per-owner set of approved operator identities.
// The marketplace's settlement identity must be approved by a seller before
// that seller's inventory may be listed or debited: approve once, then trade.
type Control struct {
	mu        sync.RWMutex
	approvals map[key]bool
}

// New creates an empty access control set.
func New() *Control {
	return &Control{approvals: make(map[key]bool)}
}

// SetApproval grants or revokes an operator's approval for an owner.
func (c *Control) SetApproval(owner, operator domain.Actor, approved bool) error {
	if !owner.Valid() || !operator.Valid() {
		return domain.ErrInvalidParameters
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{owner, operator}
	if approved {
		c.approvals[k] = true
	} else {
		delete(c.approvals, k)
	}
	return nil
}

// IsApproved reports whether the operator is approved by the owner.
func (c *Control) IsApproved(owner, operator domain.Actor) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.approvals[key{owner, operator}]
}

// RequireOperatorApproval fails with ErrNotApproved unless the operator is
// approved by the owner.
func (c *Control) RequireOperatorApproval(owner, operator domain.Actor) error {
	if !c.IsApproved(owner, operator) {
		return domain.ErrNotApproved
	}
	return nil
}
