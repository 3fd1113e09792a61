package core

import (
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/params"
)

// ValidateHeader checks header against its parent per §4.4.2,
// collecting every violated rule rather than stopping at the first
// (resolved Open Question, see DESIGN.md). parent is nil for a
// genesis-like header with no predecessor. A nil return means Valid.
func ValidateHeader(config *params.ChainConfig, header *types.Header, parent *types.Header) []error {
	var errs []error

	if parent != nil {
		wantDifficulty := CalcDifficulty(config, header.Time, parent)
		if header.Difficulty == nil || header.Difficulty.Cmp(wantDifficulty) != 0 {
			errs = append(errs, ErrInvalidDifficulty)
		}
	}

	if header.GasUsed > header.GasLimit {
		errs = append(errs, ErrExceededGasLimit)
	}

	if header.GasLimit <= config.MinGasLimit {
		errs = append(errs, ErrInvalidGasLimit)
	} else if parent != nil {
		var diff uint64
		if header.GasLimit >= parent.GasLimit {
			diff = header.GasLimit - parent.GasLimit
		} else {
			diff = parent.GasLimit - header.GasLimit
		}
		if diff >= parent.GasLimit/config.GasLimitBoundDivisor {
			errs = append(errs, ErrInvalidGasLimit)
		}
	}

	if parent != nil && header.Time <= parent.Time {
		errs = append(errs, ErrChildTimestampInvalid)
	}

	switch {
	case parent != nil && (header.Number == nil || header.Number.Uint64() != parent.Number.Uint64()+1):
		errs = append(errs, ErrChildNumberInvalid)
	case parent == nil && (header.Number == nil || header.Number.Uint64() != 0):
		errs = append(errs, ErrChildNumberInvalid)
	}

	if len(header.Extra) > types.MaxExtraDataSize {
		errs = append(errs, ErrExtraDataTooLarge)
	}

	return errs
}
