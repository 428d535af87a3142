package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunemint/market-ledger/internal/access"
	"github.com/tunemint/market-ledger/internal/domain"
)

func TestControlSetApproval(t *testing.T) {
	c := access.New()

	// Nothing is approved by default
	assert.False(t, c.IsApproved("alice", "market:settlement"))

	require.NoError(t, c.SetApproval("alice", "market:settlement", true))
	assert.True(t, c.IsApproved("alice", "market:settlement"))

	// Approval is directional and per pair
	assert.False(t, c.IsApproved("market:settlement", "alice"))
	assert.False(t, c.IsApproved("bob", "market:settlement"))

	// Revocation
	require.NoError(t, c.SetApproval("alice", "market:settlement", false))
	assert.False(t, c.IsApproved("alice", "market:settlement"))

	// Revoking an absent approval is a no-op
	require.NoError(t, c.SetApproval("bob", "market:settlement", false))
}

func TestControlSetApprovalInvalidActors(t *testing.T) {
	c := access.New()

	assert.ErrorIs(t, c.SetApproval("", "op", true), domain.ErrInvalidParameters)
	assert.ErrorIs(t, c.SetApproval("alice", "  ", true), domain.ErrInvalidParameters)
}

func TestControlRequireOperatorApproval(t *testing.T) {
	c := access.New()

	err := c.RequireOperatorApproval("alice", "market:settlement")
	assert.ErrorIs(t, err, domain.ErrNotApproved)

	require.NoError(t, c.SetApproval("alice", "market:settlement", true))
	assert.NoError(t, c.RequireOperatorApproval("alice", "market:settlement"))
}
