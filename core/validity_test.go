package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
)

// TestValidateBlockBody_AllMismatches reproduces §8's holistic
// validity scenario: mutating state_root, ommers_hash, transactions_root
// and receipts_root simultaneously must report all four as mismatched, not
// short-circuit on the first (§4.4 "Holistic validity").
func TestValidateBlockBody_AllMismatches(t *testing.T) {
	header := &types.Header{
		Number:      big.NewInt(1),
		StateRoot:   common.HexToHash("0x01"),
		TxRoot:      common.HexToHash("0x02"),
		ReceiptRoot: common.HexToHash("0x03"),
		OmmersHash:  common.HexToHash("0x04"),
	}
	block := types.NewBlock(header, nil, nil)

	errs := ValidateBlockBody(block, nil, common.HexToHash("0xff"))
	require.Len(t, errs, 4)
	require.Contains(t, errs, ErrStateRootMismatch)
	require.Contains(t, errs, ErrTransactionsRootMismatch)
	require.Contains(t, errs, ErrReceiptsRootMismatch)
	require.Contains(t, errs, ErrOmmersHashMismatch)
}

// TestValidateBlockBody_EmptyBlockValid confirms an empty block (no
// transactions, no ommers) whose header carries the canonical empty roots
// validates cleanly against the processor's output for a no-op block.
func TestValidateBlockBody_EmptyBlockValid(t *testing.T) {
	header := &types.Header{
		Number:      big.NewInt(1),
		StateRoot:   common.HexToHash("0xaa"),
		TxRoot:      types.EmptyRootHash,
		ReceiptRoot: types.EmptyRootHash,
		OmmersHash:  types.EmptyOmmersHash,
	}
	block := types.NewBlock(header, nil, nil)

	errs := ValidateBlockBody(block, nil, common.HexToHash("0xaa"))
	require.Empty(t, errs)
}
