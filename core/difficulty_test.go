package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/params"
)

// TestCalcDifficulty_Continuity reproduces §8's difficulty
// continuity scenario under the pre-Homestead sigma branch (MainnetConfig,
// where block 33 is still pre-Homestead).
func TestCalcDifficulty_Continuity(t *testing.T) {
	parent := &types.Header{
		Number:     big.NewInt(32),
		Time:       55,
		Difficulty: big.NewInt(300000),
	}

	got := CalcDifficulty(params.MainnetConfig, 66, parent)
	require.Equal(t, big.NewInt(300146), got)

	got = CalcDifficulty(params.MainnetConfig, 88, parent)
	require.Equal(t, big.NewInt(299854), got)
}
