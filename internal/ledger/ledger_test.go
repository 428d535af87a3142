package ledger_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunemint/market-ledger/internal/domain"
	"github.com/tunemint/market-ledger/internal/ledger"
)

func TestLedgerCreditDebit(t *testing.T) {
	l := ledger.New()

	// Unknown pairs read as zero
	assert.Equal(t, uint64(0), l.BalanceOf(1, "alice"))

	require.NoError(t, l.Credit(1, "alice", 10))
	assert.Equal(t, uint64(10), l.BalanceOf(1, "alice"))

	require.NoError(t, l.Credit(1, "alice", 5))
	assert.Equal(t, uint64(15), l.BalanceOf(1, "alice"))

	require.NoError(t, l.Debit(1, "alice", 15))
	assert.Equal(t, uint64(0), l.BalanceOf(1, "alice"))

	// Balances are scoped per token
	require.NoError(t, l.Credit(2, "alice", 7))
	assert.Equal(t, uint64(0), l.BalanceOf(1, "alice"))
	assert.Equal(t, uint64(7), l.BalanceOf(2, "alice"))
}

func TestLedgerZeroAmountRejected(t *testing.T) {
	l := ledger.New()

	assert.ErrorIs(t, l.Credit(1, "alice", 0), domain.ErrInvalidParameters)
	assert.ErrorIs(t, l.Debit(1, "alice", 0), domain.ErrInvalidParameters)
}

func TestLedgerDebitInsufficient(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.Credit(1, "alice", 3))

	err := l.Debit(1, "alice", 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// Balance unchanged after rejection
	assert.Equal(t, uint64(3), l.BalanceOf(1, "alice"))

	// Debiting an unknown holder fails the same way
	err = l.Debit(1, "bob", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestLedgerCreditOverflow(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.Credit(1, "alice", math.MaxUint64))

	err := l.Credit(1, "alice", 1)
	assert.ErrorIs(t, err, domain.ErrArithmeticOverflow)
	assert.Equal(t, uint64(math.MaxUint64), l.BalanceOf(1, "alice"))
}

func TestLedgerTotalSupply(t *testing.T) {
	l := ledger.New()

	assert.Equal(t, uint64(0), l.TotalSupply(1))

	require.NoError(t, l.Credit(1, "alice", 10))
	require.NoError(t, l.Credit(1, "bob", 5))
	require.NoError(t, l.Credit(2, "carol", 100))

	assert.Equal(t, uint64(15), l.TotalSupply(1))
	assert.Equal(t, uint64(100), l.TotalSupply(2))

	require.NoError(t, l.Debit(1, "alice", 4))
	assert.Equal(t, uint64(11), l.TotalSupply(1))
}
