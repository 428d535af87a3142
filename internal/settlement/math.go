package settlement

import (
	"math/bits"

	"github.com/tunemint/market-ledger/internal/domain"
)

// checkedAdd returns a+b, or ErrArithmeticOverflow on wrap. Monetary values
// are never silently truncated.
func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, domain.ErrArithmeticOverflow
	}
	return sum, nil
}

// checkedMul returns a*b, or ErrArithmeticOverflow on wrap.
func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, domain.ErrArithmeticOverflow
	}
	return lo, nil
}

// splitRoyalty divides a payment into royalty and seller shares. Integer
// division rounds the royalty down, so the remainder always favors the seller
// and royalty+seller == payment exactly. The intermediate product is computed
// at 128 bits, so the split itself cannot overflow: royaltyBps <= 10000
// guarantees the quotient fits in uint64.
func splitRoyalty(payment, royaltyBps uint64) (royalty, seller uint64) {
	hi, lo := bits.Mul64(payment, royaltyBps)
	royalty, _ = bits.Div64(hi, lo, domain.MaxRoyaltyBps)
	return royalty, payment - royalty
}
