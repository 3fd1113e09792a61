package core

import (
	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/rlp"
	"github.com/exthereum/ethereum/trie"
)

// rlpEncoder is implemented by any type with a canonical wire encoding
// distinct from its naive reflected field layout (Transaction, Receipt).
type rlpEncoder interface {
	EncodeRLP() ([]byte, error)
}

// deriveRoot builds a throwaway trie keyed by rlp(index) -> item's
// canonical encoding and returns its root hash, per §4.4
// "transactions_root = root of a trie keyed by rlp(index) ->
// rlp(transaction)" (and identically for receipts). The trie is never
// committed to a Database: it exists only to compute the root, matching
// the Non-goal that block-tree persistence isn't required.
func deriveRoot(items []rlpEncoder) (common.Hash, error) {
	t := trie.New(nil)
	for i, item := range items {
		key, err := rlp.EncodeToBytes(uint64(i))
		if err != nil {
			return common.Hash{}, err
		}
		val, err := item.EncodeRLP()
		if err != nil {
			return common.Hash{}, err
		}
		if err := t.Put(key, val); err != nil {
			return common.Hash{}, err
		}
	}
	return t.Hash(), nil
}

// DeriveTransactionsRoot computes transactions_root for an ordered
// transaction list.
func DeriveTransactionsRoot(txs types.Transactions) (common.Hash, error) {
	items := make([]rlpEncoder, len(txs))
	for i, tx := range txs {
		items[i] = tx
	}
	return deriveRoot(items)
}

// DeriveReceiptsRoot computes receipts_root for an ordered receipt list.
func DeriveReceiptsRoot(receipts types.Receipts) (common.Hash, error) {
	items := make([]rlpEncoder, len(receipts))
	for i, r := range receipts {
		items[i] = r
	}
	return deriveRoot(items)
}

// DeriveOmmersHash computes ommers_hash = keccak256(rlp(ommer_header_list)).
func DeriveOmmersHash(ommers []*types.Header) (common.Hash, error) {
	if len(ommers) == 0 {
		return types.EmptyOmmersHash, nil
	}
	enc, err := rlp.EncodeToBytes(ommers)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}
