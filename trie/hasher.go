package trie

import (
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/rlp"
)

// hasher computes node hashes using the Yellow Paper's two-pass collapse:
// every child is replaced by its hash (or, if its RLP encoding is under 32
// bytes, its raw encoding) before the parent itself is encoded and hashed.
type hasher struct{}

func newHasher() *hasher { return &hasher{} }

// hash returns the collapsed (hash-or-inline) and cached (still-expanded,
// hash-annotated) forms of n. force always hashes regardless of size,
// which the Yellow Paper requires for the root node.
func (h *hasher) hash(n node, force bool) (node, node) {
	if cached, dirty := n.cache(); cached != nil && !dirty {
		return cached, n
	}
	collapsed, cached := h.hashChildren(n)
	hashed, err := h.store(collapsed, force)
	if err != nil {
		panic("trie: " + err.Error())
	}
	hn, _ := hashed.(hashNode)
	switch cn := cached.(type) {
	case *shortNode:
		cn.flags.hash = hn
		cn.flags.dirty = false
	case *fullNode:
		cn.flags.hash = hn
		cn.flags.dirty = false
	}
	return hashed, cached
}

func (h *hasher) hashChildren(original node) (node, node) {
	switch n := original.(type) {
	case *shortNode:
		collapsed, cached := n.copy(), n.copy()
		collapsed.Key = hexToCompact(n.Key)
		if _, ok := n.Val.(valueNode); !ok && n.Val != nil {
			childH, childC := h.hash(n.Val, false)
			collapsed.Val = childH
			cached.Val = childC
		}
		return collapsed, cached
	case *fullNode:
		collapsed, cached := n.copy(), n.copy()
		for i := 0; i < 16; i++ {
			if n.Children[i] != nil {
				childH, childC := h.hash(n.Children[i], false)
				collapsed.Children[i] = childH
				cached.Children[i] = childC
			}
		}
		return collapsed, cached
	default:
		return n, n
	}
}

// store RLP-encodes n and returns either the raw encoding (if under 32
// bytes, unless force) or its Keccak-256 hash.
func (h *hasher) store(n node, force bool) (node, error) {
	if _, ok := n.(hashNode); ok {
		return n, nil
	}
	if _, ok := n.(valueNode); ok {
		return n, nil
	}
	enc, err := encodeNode(n)
	if err != nil {
		return nil, err
	}
	if len(enc) < 32 && !force {
		return n, nil
	}
	return hashNode(crypto.Keccak256(enc)), nil
}

// encodeNode RLP-encodes a collapsed node for hashing or storage:
// shortNode -> [compactKey, val], fullNode -> [child0..child15, value].
func encodeNode(n node) ([]byte, error) {
	switch n := n.(type) {
	case *shortNode:
		return encodeShortNode(n)
	case *fullNode:
		return encodeFullNode(n)
	case hashNode:
		return []byte(n), nil
	case valueNode:
		return rlp.EncodeToBytes([]byte(n))
	default:
		return []byte{0x80}, nil
	}
}

func encodeShortNode(n *shortNode) ([]byte, error) {
	keyEnc, err := rlp.EncodeToBytes(n.Key)
	if err != nil {
		return nil, err
	}
	valEnc, err := encodeNodeValue(n.Val)
	if err != nil {
		return nil, err
	}
	return rlp.WrapList(append(keyEnc, valEnc...)), nil
}

func encodeFullNode(n *fullNode) ([]byte, error) {
	var payload []byte
	for i := 0; i < 17; i++ {
		enc, err := encodeNodeValue(n.Children[i])
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return rlp.WrapList(payload), nil
}

// encodeNodeValue encodes a child reference for embedding in its parent's
// RLP: nil -> empty string, valueNode/hashNode -> RLP string, an inline
// *shortNode/*fullNode -> its own raw list encoding.
func encodeNodeValue(n node) ([]byte, error) {
	if n == nil {
		return []byte{0x80}, nil
	}
	switch n := n.(type) {
	case valueNode:
		return rlp.EncodeToBytes([]byte(n))
	case hashNode:
		return rlp.EncodeToBytes([]byte(n))
	case *shortNode:
		return encodeShortNode(n)
	case *fullNode:
		return encodeFullNode(n)
	default:
		return []byte{0x80}, nil
	}
}
