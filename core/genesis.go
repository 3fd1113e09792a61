package core

import (
	"math/big"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/params"
)

// GenesisAccount is one pre-funded account in a genesis allocation.
type GenesisAccount struct {
	Balance *big.Int
	Code    []byte
	Nonce   uint64
	Storage map[common.Hash]common.Hash
}

// GenesisAlloc maps addresses to their genesis allocation.
type GenesisAlloc map[common.Address]GenesisAccount

// Genesis specifies the header fields of the chain's first block. It has
// no parent: ToHeader builds its header directly, while ChildHeader
// always needs a non-nil parent.
type Genesis struct {
	Config     *params.ChainConfig
	Timestamp  uint64
	ExtraData  []byte
	GasLimit   uint64
	Difficulty *big.Int
	Beneficiary common.Address
	Alloc      GenesisAlloc
}

// ToHeader builds the genesis header. Number is 0, ParentHash the zero
// hash; TxRoot/ReceiptRoot/Bloom are the empty-list/empty-trie values
// since a genesis block carries no transactions.
func (g *Genesis) ToHeader() *types.Header {
	ommersHash, _ := DeriveOmmersHash(nil)
	return &types.Header{
		OmmersHash:  ommersHash,
		Beneficiary: g.Beneficiary,
		TxRoot:      types.EmptyRootHash,
		ReceiptRoot: types.EmptyRootHash,
		Difficulty:  new(big.Int).Set(g.Difficulty),
		Number:      new(big.Int),
		GasLimit:    g.GasLimit,
		Time:        g.Timestamp,
		Extra:       g.ExtraData,
	}
}

// ChildHeader builds the unsigned header for the block following parent,
// per §4.4: increments number, links parent_hash, applies the
// difficulty function, clamps gas_limit into the band parent allows, and
// carries the caller-supplied beneficiary/timestamp/extra_data through
// unchanged. The caller fills in state_root/tx_root/receipt_root/bloom
// after running the block's transactions.
func ChildHeader(config *params.ChainConfig, parent *types.Header, timestamp uint64, beneficiary common.Address, gasLimit uint64, extra []byte) *types.Header {
	header := &types.Header{
		ParentHash:  parent.Hash(),
		Beneficiary: beneficiary,
		Difficulty:  CalcDifficulty(config, timestamp, parent),
		Number:      new(big.Int).Add(parent.Number, big.NewInt(1)),
		GasLimit:    clampGasLimit(config, parent.GasLimit, gasLimit),
		Time:        timestamp,
		Extra:       extra,
	}
	return header
}

// clampGasLimit bounds wanted into the open band (parent.GasLimit - bound,
// parent.GasLimit + bound) where bound = floor(parent.GasLimit/GasLimitBoundDivisor), and
// floors the result at MinGasLimit+1 so the header always validates.
func clampGasLimit(config *params.ChainConfig, parentGasLimit, wanted uint64) uint64 {
	bound := parentGasLimit / config.GasLimitBoundDivisor
	min := parentGasLimit - bound + 1
	max := parentGasLimit + bound - 1
	switch {
	case wanted < min:
		wanted = min
	case wanted > max:
		wanted = max
	}
	if wanted <= config.MinGasLimit {
		wanted = config.MinGasLimit + 1
	}
	return wanted
}
