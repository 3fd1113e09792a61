package types

import (
	"math/big"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/rlp"
)

// Block is a header plus its ordered transactions and ommer headers, per
// §3 "Block". The three are linked to the header via TxRoot,
// ReceiptRoot (computed by the processor, not stored here) and OmmersHash.
type Block struct {
	header *Header
	txs    Transactions
	ommers []*Header
}

// NewBlock assembles a block from a header and its body, taking ownership
// of neither: the header is copied so later caller mutation can't change
// an already-built block out from under it.
func NewBlock(header *Header, txs []*Transaction, ommers []*Header) *Block {
	b := &Block{header: header.Copy()}
	if len(txs) > 0 {
		b.txs = make(Transactions, len(txs))
		copy(b.txs, txs)
	}
	if len(ommers) > 0 {
		b.ommers = make([]*Header, len(ommers))
		for i, o := range ommers {
			b.ommers[i] = o.Copy()
		}
	}
	return b
}

// NewBlockWithHeader wraps header alone, with no body.
func NewBlockWithHeader(header *Header) *Block {
	return &Block{header: header.Copy()}
}

func (b *Block) Header() *Header           { return b.header.Copy() }
func (b *Block) Transactions() Transactions { return b.txs }
func (b *Block) Ommers() []*Header         { return b.ommers }

func (b *Block) Number() *big.Int     { return new(big.Int).Set(b.header.Number) }
func (b *Block) NumberU64() uint64    { return b.header.Number.Uint64() }
func (b *Block) GasLimit() uint64     { return b.header.GasLimit }
func (b *Block) GasUsed() uint64      { return b.header.GasUsed }
func (b *Block) Time() uint64         { return b.header.Time }
func (b *Block) Difficulty() *big.Int { return new(big.Int).Set(b.header.Difficulty) }
func (b *Block) ParentHash() common.Hash  { return b.header.ParentHash }
func (b *Block) StateRoot() common.Hash   { return b.header.StateRoot }
func (b *Block) Beneficiary() common.Address { return b.header.Beneficiary }

// Hash returns the block's identity hash: its header's hash.
func (b *Block) Hash() common.Hash {
	return b.header.Hash()
}

type extblock struct {
	Header *Header
	Txs    []*Transaction
	Ommers []*Header
}

// EncodeRLP returns the canonical three-element [header, txs, ommers] body
// encoding of the block.
func (b *Block) EncodeRLP() ([]byte, error) {
	return rlp.EncodeToBytes(&extblock{Header: b.header, Txs: b.txs, Ommers: b.ommers})
}

// DecodeRLP decodes a block from its canonical RLP encoding.
func (b *Block) DecodeRLP(data []byte) error {
	var eb extblock
	if err := rlp.DecodeBytes(data, &eb); err != nil {
		return err
	}
	b.header = eb.Header
	b.txs = eb.Txs
	b.ommers = eb.Ommers
	return nil
}
