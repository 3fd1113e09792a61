// Package crypto provides the cryptographic primitives the core depends on
// directly: Keccak-256, used as the node/account/hash identity function
// everywhere above it (rlp excepted), and secp256k1 signing and sender
// recovery (signature.go).
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/rlp"
)

// Keccak256 returns the Keccak-256 (pre-NIST-standardization SHA-3) digest
// of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash returns Keccak256 as a common.Hash.
func Keccak256Hash(data ...[]byte) common.Hash {
	return common.BytesToHash(Keccak256(data...))
}

// CreateAddress computes the address of a contract created via CREATE:
// keccak256(rlp([sender, nonce]))[12:32], per §4.3 "Contract creation".
func CreateAddress(sender common.Address, nonce uint64) common.Address {
	data, _ := rlp.EncodeToBytes([]interface{}{sender, nonce})
	return common.BytesToAddress(Keccak256(data))
}
