package types

import (
	"math/big"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/rlp"
)

// EmptyCodeHash is Keccak256 of the empty byte string, the code_hash of an
// account with no code.
var EmptyCodeHash = crypto.Keccak256Hash(nil)

// EmptyRootHash is the root hash of an empty trie, shared by every
// account's storage_root until its first storage write.
var EmptyRootHash = emptyTrieRoot()

func emptyTrieRoot() common.Hash {
	enc, _ := rlp.EncodeToBytes([]byte{})
	return crypto.Keccak256Hash(enc)
}

// Account is the per-address record stored in the state trie, keyed by
// Keccak256(address), per §3 "Account".
type Account struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot common.Hash
	CodeHash    common.Hash
}

// NewEmptyAccount returns the zero-value account a fresh address starts
// from: no nonce, no balance, an empty storage trie, and no code.
func NewEmptyAccount() *Account {
	return &Account{
		Balance:     new(big.Int),
		StorageRoot: EmptyRootHash,
		CodeHash:    EmptyCodeHash,
	}
}

// IsEmpty reports whether the account has zero nonce, zero balance and
// no code: the "empty account" test used by SELFDESTRUCT/CALL/state clearing.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 && (a.Balance == nil || a.Balance.Sign() == 0) && a.CodeHash == EmptyCodeHash
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cp := *a
	cp.Balance = new(big.Int).Set(a.Balance)
	return &cp
}
