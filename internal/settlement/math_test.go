package settlement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunemint/market-ledger/internal/domain"
)

func TestCheckedAdd(t *testing.T) {
	sum, err := checkedAdd(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), sum)

	sum, err = checkedAdd(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = checkedAdd(math.MaxUint64, 1)
	assert.ErrorIs(t, err, domain.ErrArithmeticOverflow)
}

func TestCheckedMul(t *testing.T) {
	product, err := checkedMul(3, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), product)

	product, err = checkedMul(math.MaxUint64, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), product)

	_, err = checkedMul(math.MaxUint64, 2)
	assert.ErrorIs(t, err, domain.ErrArithmeticOverflow)

	product, err = checkedMul(0, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), product)
}

func TestSplitRoyalty(t *testing.T) {
	tests := []struct {
		name            string
		payment         uint64
		royaltyBps      uint64
		expectedRoyalty uint64
	}{
		{
			name:            "even split",
			payment:         10_000,
			royaltyBps:      500,
			expectedRoyalty: 500,
		},
		{
			name:            "rounds royalty down",
			payment:         999,
			royaltyBps:      500, // 999 * 500 / 10000 = 49.95
			expectedRoyalty: 49,
		},
		{
			name:            "zero royalty rate",
			payment:         12345,
			royaltyBps:      0,
			expectedRoyalty: 0,
		},
		{
			name:            "full royalty rate",
			payment:         12345,
			royaltyBps:      10_000,
			expectedRoyalty: 12345,
		},
		{
			name:            "tiny payment below one royalty unit",
			payment:         1,
			royaltyBps:      500,
			expectedRoyalty: 0,
		},
		{
			name:            "max payment does not overflow",
			payment:         math.MaxUint64,
			royaltyBps:      10_000,
			expectedRoyalty: math.MaxUint64,
		},
		{
			name:            "huge payment with fractional rate",
			payment:         math.MaxUint64,
			royaltyBps:      1,
			expectedRoyalty: math.MaxUint64 / 10_000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			royalty, seller := splitRoyalty(tt.payment, tt.royaltyBps)
			assert.Equal(t, tt.expectedRoyalty, royalty)
			// The two shares always reassemble the payment exactly
			assert.Equal(t, tt.payment, royalty+seller)
		})
	}
}
