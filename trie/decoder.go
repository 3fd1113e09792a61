package trie

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/exthereum/ethereum/rlp"
)

var errDecodeInvalid = errors.New("trie: invalid encoded node")

// decodeNode decodes a node's RLP encoding via the streaming rlp.Stream
// API, tagging the result with hash for the node's dirty-cache slot.
func decodeNode(hash hashNode, data []byte) (node, error) {
	if len(data) == 0 {
		return nil, errDecodeInvalid
	}
	s := rlp.NewStream(bytes.NewReader(data))
	if _, err := s.List(); err != nil {
		return nil, fmt.Errorf("trie decode: %w", err)
	}

	var elems [][]byte
	for s.MoreInList() {
		raw, err := s.Raw()
		if err != nil {
			return nil, fmt.Errorf("trie decode: %w", err)
		}
		elems = append(elems, raw)
	}
	if err := s.ListEnd(); err != nil {
		return nil, fmt.Errorf("trie decode: %w", err)
	}

	switch len(elems) {
	case 2:
		return decodeShort(hash, elems)
	case 17:
		return decodeFull(hash, elems)
	default:
		return nil, fmt.Errorf("%w: expected 2 or 17 elements, got %d", errDecodeInvalid, len(elems))
	}
}

// elemBytes strips an element's own RLP string header, returning its
// content. Used because decodeNode captures each element as a raw,
// re-decodable encoding (needed for inline list children).
func elemBytes(raw []byte) ([]byte, error) {
	s := rlp.NewStream(bytes.NewReader(raw))
	return s.Bytes()
}

func decodeShort(hash hashNode, elems [][]byte) (node, error) {
	keyRaw, err := elemBytes(elems[0])
	if err != nil {
		return nil, fmt.Errorf("trie decode: invalid key: %w", err)
	}
	key := compactToHex(keyRaw)

	if hasTerm(key) {
		val, err := elemBytes(elems[1])
		if err != nil {
			return nil, fmt.Errorf("trie decode: invalid leaf value: %w", err)
		}
		return &shortNode{Key: key, Val: valueNode(val), flags: nodeFlag{hash: hash}}, nil
	}

	child, err := decodeRef(elems[1])
	if err != nil {
		return nil, err
	}
	return &shortNode{Key: key, Val: child, flags: nodeFlag{hash: hash}}, nil
}

func decodeFull(hash hashNode, elems [][]byte) (node, error) {
	n := &fullNode{flags: nodeFlag{hash: hash}}
	for i := 0; i < 16; i++ {
		child, err := decodeRef(elems[i])
		if err != nil {
			return nil, err
		}
		n.Children[i] = child
	}
	val, err := elemBytes(elems[16])
	if err != nil {
		return nil, fmt.Errorf("trie decode: invalid branch value: %w", err)
	}
	if len(val) > 0 {
		n.Children[16] = valueNode(val)
	}
	return n, nil
}

// decodeRef interprets a child reference: empty -> nil, a 32-byte string ->
// hashNode, anything else -> an inline node, decoded recursively.
func decodeRef(raw []byte) (node, error) {
	s := rlp.NewStream(bytes.NewReader(raw))
	kind, _, err := s.Kind()
	if err != nil {
		return nil, fmt.Errorf("trie decode: %w", err)
	}
	if kind == rlp.List {
		return decodeNode(nil, raw)
	}
	b, err := s.Bytes()
	if err != nil {
		return nil, fmt.Errorf("trie decode: %w", err)
	}
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("%w: invalid reference length %d", errDecodeInvalid, len(b))
	}
	return hashNode(b), nil
}
