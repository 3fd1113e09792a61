// Package params holds the chain-level configuration threaded through
// block processing and header validation as an explicit context record,
// per the design note that the chain configuration is the only global:
// it's passed through every call rather than read from process state.
package params

import "math/big"

// ChainConfig is the chain configuration record named in §6 EXTERNAL
// INTERFACES: {block_reward, homestead_block, initial_difficulty,
// minimum_difficulty, difficulty_bound_divisor, gas_limit_bound_divisor,
// min_gas_limit, nodes}.
type ChainConfig struct {
	// BlockReward is the per-block miner reward R credited to the
	// beneficiary at finalization, before ommer adjustments.
	BlockReward *big.Int

	// HomesteadBlock is the block number at which the Homestead
	// difficulty-adjustment formula and low-S signature rule activate.
	HomesteadBlock uint64

	// InitialDifficulty is D(0), the genesis block's difficulty.
	InitialDifficulty uint64

	// MinimumDifficulty is the floor difficulty never adjusted below.
	MinimumDifficulty uint64

	// DifficultyBoundDivisor is the divisor used to compute the per-block
	// difficulty adjustment step x = floor(D(n-1) / divisor).
	DifficultyBoundDivisor uint64

	// GasLimitBoundDivisor bounds how far a child's gas_limit may drift
	// from its parent's: |gas_limit - parent.gas_limit| < parent.gas_limit / divisor.
	GasLimitBoundDivisor uint64

	// MinGasLimit is the minimum gas_limit a valid header may carry.
	MinGasLimit uint64

	// Nodes lists bootnode URLs for peer discovery. The core never dials
	// them itself; it is carried here only because §6 names it as part of
	// the chain configuration record.
	Nodes []string
}

// IsHomestead reports whether blockNumber is at or past HomesteadBlock.
func (c *ChainConfig) IsHomestead(blockNumber uint64) bool {
	return blockNumber >= c.HomesteadBlock
}

// MainnetConfig mirrors Ethereum mainnet's Frontier/Homestead-era
// parameters (block 1,150,000 Homestead activation, 5 ether block
// reward, the classic 2048/1024 bound divisors).
var MainnetConfig = &ChainConfig{
	BlockReward:            new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18)),
	HomesteadBlock:         1150000,
	InitialDifficulty:      131072,
	MinimumDifficulty:      131072,
	DifficultyBoundDivisor: 2048,
	GasLimitBoundDivisor:   1024,
	MinGasLimit:            125000,
	Nodes:                  nil,
}

// TestConfig activates Homestead from genesis, for deterministic unit
// tests that don't want to track the mainnet activation block.
var TestConfig = &ChainConfig{
	BlockReward:            new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18)),
	HomesteadBlock:         0,
	InitialDifficulty:      131072,
	MinimumDifficulty:      131072,
	DifficultyBoundDivisor: 2048,
	GasLimitBoundDivisor:   1024,
	MinGasLimit:            125000,
	Nodes:                  nil,
}
