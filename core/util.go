package core

import (
	"math/big"

	"github.com/holiman/uint256"
)

// mustUint256 converts a big.Int known by construction to fit in 256 bits
// (difficulties, gas prices, rewards) into a uint256.Int. A nil input
// converts to zero.
func mustUint256(b *big.Int) *uint256.Int {
	if b == nil {
		return new(uint256.Int)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		panic("core: value overflows 256 bits")
	}
	return v
}
