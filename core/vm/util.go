package vm

import (
	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/common"
)

// common20 extracts the low 20 bytes of a stack word as a common.Address,
// matching the EVM convention that address-valued stack items occupy the
// low-order bytes of a 256-bit word.
func common20(v *uint256.Int) common.Address {
	b := v.Bytes32()
	return common.BytesToAddress(b[12:])
}

// addressToUint256 lifts an address into the low 20 bytes of a stack word.
func addressToUint256(a common.Address) *uint256.Int {
	return new(uint256.Int).SetBytes(a.Bytes())
}

// hashToUint256 lifts a 32-byte hash into a stack word.
func hashToUint256(h common.Hash) *uint256.Int {
	return new(uint256.Int).SetBytes(h.Bytes())
}
