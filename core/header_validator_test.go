package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/params"
)

// TestValidateHeader_Scenario reproduces §8's header validity
// scenario: block{number=1,difficulty=131136,gas_limit=200000,
// timestamp=65} against parent{number=0,difficulty=131072,gas_limit=200000,
// timestamp=55} is valid under the pre-Homestead branch.
func TestValidateHeader_Scenario(t *testing.T) {
	parent := &types.Header{
		Number:     big.NewInt(0),
		Time:       55,
		Difficulty: big.NewInt(131072),
		GasLimit:   200000,
	}
	header := &types.Header{
		Number:     big.NewInt(1),
		Time:       65,
		Difficulty: big.NewInt(131136),
		GasLimit:   200000,
	}

	errs := ValidateHeader(params.MainnetConfig, header, parent)
	require.Empty(t, errs)
}

// TestValidateHeader_GasLimitClamp reproduces §8's gas-limit clamp
// scenario: parent.gas_limit=1000000 (bound=976); child 999500 is valid
// (diff 500 < 976), child 999000 is invalid_gas_limit (diff 1000 >= 976).
func TestValidateHeader_GasLimitClamp(t *testing.T) {
	parent := &types.Header{
		Number:     big.NewInt(10),
		Time:       100,
		Difficulty: big.NewInt(131072),
		GasLimit:   1000000,
	}

	validChild := &types.Header{
		Number:     big.NewInt(11),
		Time:       110,
		Difficulty: CalcDifficulty(params.MainnetConfig, 110, parent),
		GasLimit:   999500,
	}
	require.Empty(t, ValidateHeader(params.MainnetConfig, validChild, parent))

	invalidChild := &types.Header{
		Number:     big.NewInt(11),
		Time:       110,
		Difficulty: CalcDifficulty(params.MainnetConfig, 110, parent),
		GasLimit:   999000,
	}
	errs := ValidateHeader(params.MainnetConfig, invalidChild, parent)
	require.Contains(t, errs, ErrInvalidGasLimit)
}

// TestValidateHeader_FullSet confirms ValidateHeader collects every
// violated rule rather than stopping at the first (§4.4.2 Open
// Question, resolved in favor of full-set collection).
func TestValidateHeader_FullSet(t *testing.T) {
	parent := &types.Header{
		Number:     big.NewInt(5),
		Time:       100,
		Difficulty: big.NewInt(131072),
		GasLimit:   1000000,
	}
	badHeader := &types.Header{
		Number:     big.NewInt(5), // wrong: should be 6
		Time:       50,            // wrong: before parent
		Difficulty: big.NewInt(1), // wrong
		GasLimit:   1,             // wrong: below MinGasLimit
		GasUsed:    2,             // wrong: exceeds GasLimit
		Extra:      make([]byte, 64),
	}

	errs := ValidateHeader(params.MainnetConfig, badHeader, parent)
	require.Contains(t, errs, ErrInvalidDifficulty)
	require.Contains(t, errs, ErrExceededGasLimit)
	require.Contains(t, errs, ErrInvalidGasLimit)
	require.Contains(t, errs, ErrChildTimestampInvalid)
	require.Contains(t, errs, ErrChildNumberInvalid)
	require.Contains(t, errs, ErrExtraDataTooLarge)
}
