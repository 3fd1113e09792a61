package core

import (
	"math/big"

	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/params"
)

var (
	big1   = big.NewInt(1)
	big10  = big.NewInt(10)
	big99  = big.NewInt(-99)
	big100000 = big.NewInt(100000)
	big2   = big.NewInt(2)
)

// CalcDifficulty computes D(n) for a child block at the given time with
// the given parent, per §4.4.1. The formula only needs the child's
// proposed time and the parent header; config selects the Homestead
// sigma formula once parent.Number+1 >= config.HomesteadBlock.
//
// Only a test exercising this signature (not its body) was available to
// ground against in the retrieved pack; the arithmetic itself follows
// §4.4.1 literally.
func CalcDifficulty(config *params.ChainConfig, time uint64, parent *types.Header) *big.Int {
	childNumber := new(big.Int).Add(parent.Number, big1)

	bigTime := new(big.Int).SetUint64(time)
	bigParentTime := new(big.Int).SetUint64(parent.Time)

	var sigma *big.Int
	if config.IsHomestead(childNumber.Uint64()) {
		// max(1 - floor((T(n)-T(n-1))/10), -99)
		sigma = new(big.Int).Sub(bigTime, bigParentTime)
		sigma.Div(sigma, big10)
		sigma.Sub(big1, sigma)
		if sigma.Cmp(big99) < 0 {
			sigma = new(big.Int).Set(big99)
		}
	} else {
		// +1 if T(n) < T(n-1)+13 else -1
		threshold := new(big.Int).Add(bigParentTime, big.NewInt(13))
		if bigTime.Cmp(threshold) < 0 {
			sigma = big.NewInt(1)
		} else {
			sigma = big.NewInt(-1)
		}
	}

	x := new(big.Int).Div(parent.Difficulty, new(big.Int).SetUint64(config.DifficultyBoundDivisor))
	x.Mul(x, sigma)

	d := new(big.Int).Add(parent.Difficulty, x)
	d.Add(d, difficultyBomb(childNumber))

	min := new(big.Int).SetUint64(config.MinimumDifficulty)
	if d.Cmp(min) < 0 {
		return min
	}
	return d
}

// difficultyBomb computes epsilon = floor(2^(floor(n/100000)-2)), the
// exponential "ice age" term, per §4.4.1.
func difficultyBomb(blockNumber *big.Int) *big.Int {
	periodCount := new(big.Int).Div(blockNumber, big100000)
	if periodCount.Cmp(big2) < 0 {
		return new(big.Int)
	}
	exp := new(big.Int).Sub(periodCount, big2)
	return new(big.Int).Exp(big2, exp, nil)
}
