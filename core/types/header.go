package types

import (
	"math/big"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/rlp"
)

// MaxExtraDataSize is the maximum length, in bytes, of a header's ExtraData
// field (§4.4.2 "extra_data_too_large").
const MaxExtraDataSize = 32

// Header is the fifteen-field block header from §3 "Block header",
// in canonical field order.
type Header struct {
	ParentHash  common.Hash
	OmmersHash  common.Hash
	Beneficiary common.Address
	StateRoot   common.Hash
	TxRoot      common.Hash
	ReceiptRoot common.Hash
	Bloom       Bloom
	Difficulty  *big.Int
	Number      *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   common.Hash
	Nonce       [8]byte
}

// EmptyOmmersHash is keccak256(rlp([])), the OmmersHash of a block with no
// ommers.
var EmptyOmmersHash = func() common.Hash {
	enc, _ := rlp.EncodeToBytes([]interface{}{})
	return crypto.Keccak256Hash(enc)
}()

// Hash returns the Keccak-256 hash of the header's canonical RLP encoding:
// the block hash, per §3 "Block header".
func (h *Header) Hash() common.Hash {
	enc, _ := rlp.EncodeToBytes(h)
	return crypto.Keccak256Hash(enc)
}

// Copy returns a deep copy of the header.
func (h *Header) Copy() *Header {
	cp := *h
	if h.Difficulty != nil {
		cp.Difficulty = new(big.Int).Set(h.Difficulty)
	}
	if h.Number != nil {
		cp.Number = new(big.Int).Set(h.Number)
	}
	if h.Extra != nil {
		cp.Extra = append([]byte(nil), h.Extra...)
	}
	return &cp
}
