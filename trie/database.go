package trie

import (
	"sync"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/internal/ethlog"
)

// NodeReader is the caller-provided read side of a trie node store (the KV
// store from the node-discovery/storage layer): Get by node hash.
type NodeReader interface {
	Node(hash common.Hash) ([]byte, error)
}

// NodeWriter is the caller-provided write side of a trie node store.
type NodeWriter interface {
	PutNode(hash common.Hash, data []byte) error
}

// Database buffers newly hashed trie nodes in memory (Trie.Commit writes
// into this buffer) and writes them to a NodeWriter on Flush; reads fall
// through the dirty buffer to the
// backing NodeReader. A nil backing reader/writer makes the Database
// memory-only, useful for tests.
type Database struct {
	mu    sync.RWMutex
	dirty map[common.Hash][]byte
	disk  NodeReader
}

// NewDatabase wraps disk (which may be nil) in a dirty-buffered node store.
func NewDatabase(disk NodeReader) *Database {
	return &Database{dirty: make(map[common.Hash][]byte), disk: disk}
}

// Node retrieves a trie node by hash, checking the dirty buffer first.
func (db *Database) Node(hash common.Hash) ([]byte, error) {
	if hash.IsZero() {
		return nil, &ErrMissingNode{Hash: hash}
	}
	db.mu.RLock()
	data, ok := db.dirty[hash]
	db.mu.RUnlock()
	if ok {
		return data, nil
	}
	if db.disk != nil {
		data, err := db.disk.Node(hash)
		if err != nil {
			return nil, &ErrMissingNode{Hash: hash}
		}
		return data, nil
	}
	return nil, &ErrMissingNode{Hash: hash}
}

// insert buffers a node's encoding under its hash, pending Flush.
func (db *Database) insert(hash common.Hash, data []byte) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.dirty[hash] = data
}

// Put buffers an arbitrary hash-addressed blob (contract code, not a trie
// node) alongside the trie nodes, so a single Flush persists both to the
// same backing KV store. The hash is the caller's content-address
// (Keccak256 of the code, matching an account's CodeHash) — Put does not
// verify it.
func (db *Database) Put(hash common.Hash, data []byte) { db.insert(hash, data) }

// DirtyCount reports the number of buffered nodes not yet flushed.
func (db *Database) DirtyCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.dirty)
}

// Flush writes every buffered node to writer and clears the buffer.
func (db *Database) Flush(writer NodeWriter) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := len(db.dirty)
	for hash, data := range db.dirty {
		if err := writer.PutNode(hash, data); err != nil {
			return err
		}
	}
	db.dirty = make(map[common.Hash][]byte)
	ethlog.Default().Component("trie").Debug("flushed dirty nodes", "count", n)
	return nil
}
