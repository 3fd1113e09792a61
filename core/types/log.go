package types

import "github.com/exthereum/ethereum/common"

// Log is a single event emitted by a LOG0..LOG4 opcode during EVM
// execution, per §3 "Receipt" / §4.3 "Sub-state A".
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte

	// Indexing metadata, not part of the consensus encoding: populated by
	// the block processor once the log's position in the block is known.
	BlockNumber uint64      `rlp:"-"`
	TxHash      common.Hash `rlp:"-"`
	TxIndex     uint        `rlp:"-"`
	BlockHash   common.Hash `rlp:"-"`
	Index       uint        `rlp:"-"`
	Removed     bool        `rlp:"-"`
}
