package ledger

import (
	"sync"

	"github.com/tunemint/market-ledger/internal/domain"
)

// key is the composite (token, holder) index into the balance arena.
type key struct {
	tokenID domain.TokenID
	holder  domain.Actor
}

// Ledger tracks per-(token, holder) edition quantities. Zero and absent are
// equivalent: entries are zeroed, never deleted, and BalanceOf reports 0 for
// unknown pairs.
type Ledger struct {
	mu       sync.RWMutex
	balances map[key]uint64
}

// New creates an empty balance ledger.
func New() *Ledger {
	return &Ledger{balances: make(map[key]uint64)}
}

// Credit increases the holder's balance. Amount must be positive.
func (l *Ledger) Credit(tokenID domain.TokenID, holder domain.Actor, amount uint64) error {
	if amount == 0 {
		return domain.ErrInvalidParameters
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{tokenID, holder}
	next := l.balances[k] + amount
	if next < l.balances[k] {
		return domain.ErrArithmeticOverflow
	}
	l.balances[k] = next
	return nil
}

// Debit decreases the holder's balance. It fails with ErrInsufficientBalance
// rather than ever driving a balance below zero.
func (l *Ledger) Debit(tokenID domain.TokenID, holder domain.Actor, amount uint64) error {
	if amount == 0 {
		return domain.ErrInvalidParameters
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{tokenID, holder}
	if l.balances[k] < amount {
		return domain.ErrInsufficientBalance
	}
	l.balances[k] -= amount
	return nil
}

// BalanceOf returns the holder's balance. Unknown pairs report 0; this read
// never fails.
func (l *Ledger) BalanceOf(tokenID domain.TokenID, holder domain.Actor) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.balances[key{tokenID, holder}]
}

// TotalSupply sums all balances for a token. It exists for the conservation
// invariant (sum of balances == current supply) exercised by tests; per-call
// enforcement would be an O(holders) scan on every mutation.
func (l *Ledger) TotalSupply(tokenID domain.TokenID) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total uint64
	for k, quantity := range l.balances {
		if k.tokenID == tokenID {
			total += quantity
		}
	}
	return total
}
