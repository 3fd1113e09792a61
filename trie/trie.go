package trie

import (
	"errors"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/rlp"
)

// EmptyRoot is the root hash of a trie with no entries: Keccak256(RLP("")).
var EmptyRoot = crypto.Keccak256Hash(func() []byte {
	b, _ := rlp.EncodeToBytes([]byte{})
	return b
}())

// Trie is a Merkle-Patricia Trie, lazily resolving unloaded subtrees from
// its Database on first traversal.
type Trie struct {
	db   *Database
	root node
}

// New creates an empty trie backed by db. db may be nil for a purely
// in-memory trie (no Commit persistence, useful in tests).
func New(db *Database) *Trie {
	return &Trie{db: db}
}

// NewWithRoot opens the trie rooted at root. It resolves only the root
// node eagerly; the rest of the tree is fetched from db lazily as
// traversals reach unresolved hashNode references, surfacing
// ErrMissingNode when db can't produce one.
func NewWithRoot(db *Database, root common.Hash) (*Trie, error) {
	t := &Trie{db: db}
	if root == EmptyRoot || root.IsZero() {
		return t, nil
	}
	n, err := t.resolveHash(hashNode(root.Bytes()))
	if err != nil {
		return nil, err
	}
	t.root = n
	return t, nil
}

// resolveHash loads and decodes a node from the trie's Database.
func (t *Trie) resolveHash(n hashNode) (node, error) {
	if t.db == nil {
		return nil, &ErrMissingNode{Hash: common.BytesToHash(n)}
	}
	data, err := t.db.Node(common.BytesToHash(n))
	if err != nil {
		return nil, err
	}
	return decodeNode(n, data)
}

// resolve returns n itself unless it is an unresolved hashNode, in which
// case it is loaded from the Database first.
func (t *Trie) resolve(n node) (node, error) {
	if hn, ok := n.(hashNode); ok {
		return t.resolveHash(hn)
	}
	return n, nil
}

// Get retrieves the value stored at key, or ErrNotFound if absent.
func (t *Trie) Get(key []byte) ([]byte, error) {
	value, err := t.get(t.root, keybytesToHex(key), 0)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, ErrNotFound
	}
	return value, nil
}

func (t *Trie) get(n node, key []byte, pos int) ([]byte, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case valueNode:
		return []byte(n), nil
	case *shortNode:
		if len(key)-pos < len(n.Key) || !keysEqual(n.Key, key[pos:pos+len(n.Key)]) {
			return nil, nil
		}
		return t.get(n.Val, key, pos+len(n.Key))
	case *fullNode:
		if pos >= len(key) {
			return t.get(n.Children[16], key, pos)
		}
		return t.get(n.Children[key[pos]], key, pos+1)
	case hashNode:
		resolved, err := t.resolveHash(n)
		if err != nil {
			return nil, err
		}
		return t.get(resolved, key, pos)
	default:
		return nil, nil
	}
}

// Put inserts or updates key's value. An empty value deletes the key.
func (t *Trie) Put(key, value []byte) error {
	if len(value) == 0 {
		return t.Delete(key)
	}
	n, err := t.insert(t.root, keybytesToHex(key), valueNode(value))
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

func (t *Trie) insert(n node, key []byte, value node) (node, error) {
	if len(key) == 0 {
		if v, ok := n.(valueNode); ok && keysEqual(v, value.(valueNode)) {
			return v, nil
		}
		return value, nil
	}

	n, err := t.resolve(n)
	if err != nil {
		return nil, err
	}

	switch n := n.(type) {
	case nil:
		return &shortNode{Key: key, Val: value, flags: nodeFlag{dirty: true}}, nil

	case *shortNode:
		matchLen := prefixLen(key, n.Key)
		if matchLen == len(n.Key) {
			nn, err := t.insert(n.Val, key[matchLen:], value)
			if err != nil {
				return nil, err
			}
			return &shortNode{Key: n.Key, Val: nn, flags: nodeFlag{dirty: true}}, nil
		}
		branch := &fullNode{flags: nodeFlag{dirty: true}}
		existingChild, err := t.insert(nil, n.Key[matchLen+1:], n.Val)
		if err != nil {
			return nil, err
		}
		branch.Children[n.Key[matchLen]] = existingChild
		newChild, err := t.insert(nil, key[matchLen+1:], value)
		if err != nil {
			return nil, err
		}
		branch.Children[key[matchLen]] = newChild
		if matchLen > 0 {
			return &shortNode{Key: key[:matchLen], Val: branch, flags: nodeFlag{dirty: true}}, nil
		}
		return branch, nil

	case *fullNode:
		nn := n.copy()
		nn.flags = nodeFlag{dirty: true}
		child, err := t.insert(n.Children[key[0]], key[1:], value)
		if err != nil {
			return nil, err
		}
		nn.Children[key[0]] = child
		return nn, nil

	default:
		return nil, errors.New("trie: unknown node type")
	}
}

// Delete removes key from the trie. Deleting an absent key is a no-op.
func (t *Trie) Delete(key []byte) error {
	n, err := t.delete(t.root, keybytesToHex(key))
	if err != nil {
		return err
	}
	t.root = n
	return nil
}

func (t *Trie) delete(n node, key []byte) (node, error) {
	n, err := t.resolve(n)
	if err != nil {
		return nil, err
	}

	switch n := n.(type) {
	case nil:
		return nil, nil

	case *shortNode:
		matchLen := prefixLen(key, n.Key)
		if matchLen < len(n.Key) {
			return n, nil
		}
		if matchLen == len(key) {
			return nil, nil
		}
		child, err := t.delete(n.Val, key[len(n.Key):])
		if err != nil {
			return nil, err
		}
		switch child := child.(type) {
		case nil:
			return nil, nil
		case *shortNode:
			return &shortNode{Key: concat(n.Key, child.Key), Val: child.Val, flags: nodeFlag{dirty: true}}, nil
		default:
			return &shortNode{Key: n.Key, Val: child, flags: nodeFlag{dirty: true}}, nil
		}

	case *fullNode:
		nn := n.copy()
		nn.flags = nodeFlag{dirty: true}
		child, err := t.delete(n.Children[key[0]], key[1:])
		if err != nil {
			return nil, err
		}
		nn.Children[key[0]] = child

		remaining := -1
		for i := 0; i < 17; i++ {
			if nn.Children[i] != nil {
				if remaining >= 0 {
					return nn, nil
				}
				remaining = i
			}
		}
		if remaining < 0 {
			return nil, nil
		}
		if remaining == 16 {
			return &shortNode{Key: []byte{terminatorByte}, Val: nn.Children[16], flags: nodeFlag{dirty: true}}, nil
		}
		child, err = t.resolve(nn.Children[remaining])
		if err != nil {
			return nil, err
		}
		if cnode, ok := child.(*shortNode); ok {
			return &shortNode{Key: concat([]byte{byte(remaining)}, cnode.Key), Val: cnode.Val, flags: nodeFlag{dirty: true}}, nil
		}
		return &shortNode{Key: []byte{byte(remaining)}, Val: child, flags: nodeFlag{dirty: true}}, nil

	case valueNode:
		if len(key) == 0 {
			return nil, nil
		}
		return n, nil

	default:
		return nil, errors.New("trie: unknown node type")
	}
}

// Hash returns the trie's root hash, recomputing and re-caching hashes for
// every dirty node reached since the last call.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return EmptyRoot
	}
	h := newHasher()
	hashed, cached := h.hash(t.root, true)
	t.root = cached
	if hn, ok := hashed.(hashNode); ok {
		return common.BytesToHash(hn)
	}
	enc, _ := encodeNode(hashed)
	return crypto.Keccak256Hash(enc)
}

// Commit hashes the trie, writes every newly dirty node into its Database,
// and returns the new root hash. Calling Commit on a trie with a nil
// Database panics: there is nowhere to put the nodes.
func (t *Trie) Commit() common.Hash {
	if t.root == nil {
		return EmptyRoot
	}
	if t.db == nil {
		panic("trie: Commit called on a trie with no Database")
	}
	h := newHasher()
	root, cached := commitNode(h, t.root, t.db)
	t.root = cached
	if hn, ok := root.(hashNode); ok {
		return common.BytesToHash(hn)
	}
	enc, _ := encodeNode(root)
	hash := crypto.Keccak256Hash(enc)
	t.db.insert(hash, enc)
	return hash
}

// commitNode recursively hashes n's subtree, buffering every node whose
// RLP encoding is 32 bytes or larger into db, and returns the collapsed
// (hash-or-inline) and cached (hash-annotated) forms.
func commitNode(h *hasher, n node, db *Database) (node, node) {
	switch n := n.(type) {
	case nil:
		return nil, nil
	case valueNode, hashNode:
		return n, n

	case *shortNode:
		collapsed := n.copy()
		collapsed.Key = hexToCompact(n.Key)
		cached := n.copy()
		if _, ok := n.Val.(valueNode); !ok && n.Val != nil {
			childH, childC := commitNode(h, n.Val, db)
			collapsed.Val = childH
			cached.Val = childC
		}
		return finishCommit(collapsed, cached, db)

	case *fullNode:
		collapsed := n.copy()
		cached := n.copy()
		for i := 0; i < 16; i++ {
			if n.Children[i] != nil {
				childH, childC := commitNode(h, n.Children[i], db)
				collapsed.Children[i] = childH
				cached.Children[i] = childC
			}
		}
		return finishCommit(collapsed, cached, db)
	}
	return n, n
}

func finishCommit(collapsed, cached node, db *Database) (node, node) {
	enc, err := encodeNode(collapsed)
	if err != nil {
		return collapsed, cached
	}
	if len(enc) < 32 {
		return collapsed, cached
	}
	hash := crypto.Keccak256(enc)
	db.insert(common.BytesToHash(hash), enc)
	hn := hashNode(hash)
	switch cn := cached.(type) {
	case *shortNode:
		cn.flags.hash = hn
		cn.flags.dirty = false
	case *fullNode:
		cn.flags.hash = hn
		cn.flags.dirty = false
	}
	return hn, cached
}

func keysEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func concat(a, b []byte) []byte {
	r := make([]byte, len(a)+len(b))
	copy(r, a)
	copy(r[len(a):], b)
	return r
}
