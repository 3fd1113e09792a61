package trie

import (
	"errors"
	"fmt"

	"github.com/exthereum/ethereum/common"
)

// ErrNotFound is returned by Get when the key is absent from the trie.
var ErrNotFound = errors.New("trie: key not found")

// ErrMissingNode is returned whenever a traversal needs a node that isn't
// in the trie's Database: a store-consistency failure, never a "key
// doesn't exist" result.
type ErrMissingNode struct {
	Hash common.Hash
}

func (e *ErrMissingNode) Error() string {
	return fmt.Sprintf("trie: missing node %s", e.Hash.Hex())
}
