package types

import (
	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/rlp"
)

// Receipt records the outcome of applying one transaction, per §3
// "Receipt": post-state root (pre-Byzantium) or status, cumulative gas
// used, logs bloom, and logs. The core targets the Homestead-era,
// state-root form (there is no status field) since Byzantium's
// status-byte receipt is outside this spec's fork scope.
type Receipt struct {
	PostState         []byte // intermediate state root after this transaction
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log
}

// NewReceipt builds a receipt from its consensus fields; the bloom is
// derived from logs via CreateBloom here, so the two always agree.
func NewReceipt(root common.Hash, cumulativeGasUsed uint64, logs []*Log) *Receipt {
	r := &Receipt{
		PostState:         append([]byte(nil), root.Bytes()...),
		CumulativeGasUsed: cumulativeGasUsed,
		Logs:              logs,
	}
	r.Bloom = CreateBloom(logs)
	return r
}

// rlpReceipt is the four-field consensus encoding of a Receipt.
type rlpReceipt struct {
	PostState         []byte
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*rlpLogEntry
}

type rlpLogEntry struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// EncodeRLP returns the canonical RLP encoding of the receipt.
func (r *Receipt) EncodeRLP() ([]byte, error) {
	logs := make([]*rlpLogEntry, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = &rlpLogEntry{Address: l.Address, Topics: l.Topics, Data: l.Data}
	}
	return rlp.EncodeToBytes(&rlpReceipt{
		PostState:         r.PostState,
		CumulativeGasUsed: r.CumulativeGasUsed,
		Bloom:             r.Bloom,
		Logs:              logs,
	})
}

// DecodeRLP decodes a receipt from its canonical RLP encoding.
func (r *Receipt) DecodeRLP(data []byte) error {
	var raw rlpReceipt
	if err := rlp.DecodeBytes(data, &raw); err != nil {
		return err
	}
	r.PostState = raw.PostState
	r.CumulativeGasUsed = raw.CumulativeGasUsed
	r.Bloom = raw.Bloom
	r.Logs = make([]*Log, len(raw.Logs))
	for i, l := range raw.Logs {
		r.Logs[i] = &Log{Address: l.Address, Topics: l.Topics, Data: l.Data}
	}
	return nil
}

// Receipts is an ordered list of receipts, one per transaction in a block.
type Receipts []*Receipt

// GasUsed returns the gas consumed by this receipt's own transaction
// (its cumulative total minus the previous receipt's cumulative total).
func (rs Receipts) GasUsed(i int) uint64 {
	if i == 0 {
		return rs[0].CumulativeGasUsed
	}
	return rs[i].CumulativeGasUsed - rs[i-1].CumulativeGasUsed
}
