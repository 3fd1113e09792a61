package trie

import (
	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/crypto"
)

// SecureTrie wraps a Trie, keying every entry by Keccak256(key) rather than
// the raw key. Account tries key by address and storage tries key by slot;
// both use this wrapper so that the trie's own structure never leaks the
// pre-image of a key (Yellow Paper's "secure trie" convention).
type SecureTrie struct {
	trie *Trie
}

// NewSecure wraps t as a secure trie.
func NewSecure(t *Trie) *SecureTrie {
	return &SecureTrie{trie: t}
}

func (t *SecureTrie) Get(key []byte) ([]byte, error) {
	h := crypto.Keccak256(key)
	return t.trie.Get(h)
}

func (t *SecureTrie) Put(key, value []byte) error {
	h := crypto.Keccak256(key)
	return t.trie.Put(h, value)
}

func (t *SecureTrie) Delete(key []byte) error {
	h := crypto.Keccak256(key)
	return t.trie.Delete(h)
}

func (t *SecureTrie) Hash() common.Hash   { return t.trie.Hash() }
func (t *SecureTrie) Commit() common.Hash { return t.trie.Commit() }
