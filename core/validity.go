package core

import (
	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
)

// ValidateBlockBody reconstructs transactions_root, receipts_root and
// ommers_hash from a block's own body and compares them, plus the state
// root produced by processing, against the values the header claims. Per
// §4.4 "Holistic validity", every mismatch is reported, not just the
// first (mirrors the full-set collection used by ValidateHeader).
func ValidateBlockBody(block *types.Block, receipts types.Receipts, stateRoot common.Hash) []error {
	var errs []error
	header := block.Header()

	if header.StateRoot != stateRoot {
		errs = append(errs, ErrStateRootMismatch)
	}

	txRoot, err := DeriveTransactionsRoot(block.Transactions())
	if err != nil || header.TxRoot != txRoot {
		errs = append(errs, ErrTransactionsRootMismatch)
	}

	receiptRoot, err := DeriveReceiptsRoot(receipts)
	if err != nil || header.ReceiptRoot != receiptRoot {
		errs = append(errs, ErrReceiptsRootMismatch)
	}

	ommersHash, err := DeriveOmmersHash(block.Ommers())
	if err != nil || header.OmmersHash != ommersHash {
		errs = append(errs, ErrOmmersHashMismatch)
	}

	return errs
}
