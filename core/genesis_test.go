package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/params"
)

// TestChildHeader reproduces §4.4 "Child construction": number
// increments, parent_hash links to the parent's own hash, difficulty
// follows CalcDifficulty, and gas_limit is clamped into the parent band.
func TestChildHeader(t *testing.T) {
	parent := &types.Header{
		Number:     big.NewInt(10),
		Time:       100,
		Difficulty: big.NewInt(131072),
		GasLimit:   1000000,
	}

	beneficiary := common.HexToAddress("0x01")
	child := ChildHeader(params.MainnetConfig, parent, 110, beneficiary, 1100000, []byte("extra"))

	require.Equal(t, big.NewInt(11), child.Number)
	require.Equal(t, parent.Hash(), child.ParentHash)
	require.Equal(t, CalcDifficulty(params.MainnetConfig, 110, parent), child.Difficulty)
	require.Equal(t, beneficiary, child.Beneficiary)
	require.Equal(t, uint64(110), child.Time)
	require.Equal(t, []byte("extra"), child.Extra)

	// wanted gas_limit (1100000) exceeds the parent-relative band, so it's
	// clamped down rather than passed through.
	bound := parent.GasLimit / params.MainnetConfig.GasLimitBoundDivisor
	require.LessOrEqual(t, child.GasLimit, parent.GasLimit+bound-1)

	errs := ValidateHeader(params.MainnetConfig, child, parent)
	require.Empty(t, errs)
}

// TestGenesisToHeader confirms a Genesis block with no transactions builds
// a header carrying the canonical empty tx/receipt roots and ommers hash.
func TestGenesisToHeader(t *testing.T) {
	g := &Genesis{
		Config:     params.MainnetConfig,
		Difficulty: big.NewInt(131072),
		GasLimit:   5000000,
	}
	header := g.ToHeader()

	require.Equal(t, big.NewInt(0), header.Number)
	require.Equal(t, types.EmptyRootHash, header.TxRoot)
	require.Equal(t, types.EmptyRootHash, header.ReceiptRoot)
	require.Equal(t, types.EmptyOmmersHash, header.OmmersHash)
}
