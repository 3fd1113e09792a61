package core

import (
	"fmt"
	"math/big"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/state"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/core/vm"
	"github.com/exthereum/ethereum/internal/ethlog"
	"github.com/exthereum/ethereum/params"
)

// StateProcessor applies a block's transactions to a state trie sequentially
// and finalizes the block reward, per §4.4 "Transaction application"
// and "Block finalization". Ommer rewards are supported for completeness
// even though the seed scenarios never exercise more than zero ommers.
type StateProcessor struct {
	config  *params.ChainConfig
	getHash vm.GetHashFunc
	log     *ethlog.Logger
}

// NewStateProcessor creates a processor bound to config. getHash resolves
// the last 256 block hashes for the BLOCKHASH opcode; it may be nil if no
// transaction exercises BLOCKHASH.
func NewStateProcessor(config *params.ChainConfig, getHash vm.GetHashFunc) *StateProcessor {
	return &StateProcessor{config: config, getHash: getHash, log: ethlog.Default().Component("core")}
}

// Process applies every transaction in block against statedb in order
// (ApplyTransaction removes self-destructed accounts after each one), then
// performs block finalization (ommer-aware reward distribution) and
// commits the resulting trie. It returns the
// block's receipts and the final state root, both of which the caller
// compares against the block header as part of holistic validity.
func (p *StateProcessor) Process(block *types.Block, statedb *state.StateDB) (types.Receipts, common.Hash, error) {
	header := block.Header()
	homestead := p.config.IsHomestead(header.Number.Uint64())

	blockCtx := vm.BlockContext{
		GetHash:     p.getHash,
		BlockNumber: header.Number.Uint64(),
		Time:        header.Time,
		Coinbase:    header.Beneficiary,
		GasLimit:    header.GasLimit,
		Difficulty:  mustUint256(header.Difficulty),
	}

	gasPool := new(GasPool).AddGas(header.GasLimit)

	p.log.Debug("processing block", "number", header.Number, "txs", len(block.Transactions()))

	var (
		receipts          types.Receipts
		cumulativeGasUsed uint64
	)
	for i, tx := range block.Transactions() {
		statedb.SetTxContext(tx.Hash(), i)

		sender, err := tx.Sender(homestead)
		if err != nil {
			return nil, common.Hash{}, fmt.Errorf("tx %d: %w", i, err)
		}
		txCtx := vm.TxContext{Origin: sender, GasPrice: mustUint256(tx.GasPrice)}
		evm := vm.NewEVM(blockCtx, txCtx, statedb, vm.Config{MaxCallDepth: 1024})

		receipt, gasUsed, err := ApplyTransaction(evm, gasPool, statedb, tx, homestead, cumulativeGasUsed)
		if err != nil {
			p.log.Warn("transaction rejected", "number", header.Number, "index", i, "err", err)
			return nil, common.Hash{}, fmt.Errorf("tx %d: %w", i, err)
		}
		cumulativeGasUsed += gasUsed
		receipts = append(receipts, receipt)
	}

	AccumulateRewards(p.config, statedb, header, block.Ommers())

	root, err := statedb.Commit()
	if err != nil {
		return nil, common.Hash{}, err
	}
	p.log.Debug("processed block", "number", header.Number, "gas_used", cumulativeGasUsed, "state_root", root)
	return receipts, root, nil
}

// AccumulateRewards credits the beneficiary with the block reward (plus
// 1/32 of the reward per ommer included) and each ommer's own beneficiary
// with a depth-discounted share, per §4.4 "Block finalization":
// "R*(8-depth)/8 to each ommer's own beneficiary". depth is the ommer's
// distance from the including block: header.Number - ommer.Number.
func AccumulateRewards(config *params.ChainConfig, statedb *state.StateDB, header *types.Header, ommers []*types.Header) {
	reward := new(big.Int).Set(config.BlockReward)

	mainReward := new(big.Int).Set(reward)
	ommerShare := new(big.Int).Div(reward, big.NewInt(32))
	mainReward.Add(mainReward, new(big.Int).Mul(ommerShare, big.NewInt(int64(len(ommers)))))
	statedb.AddBalance(header.Beneficiary, mustUint256(mainReward))

	for _, ommer := range ommers {
		depth := new(big.Int).Sub(header.Number, ommer.Number)
		share := new(big.Int).Mul(reward, new(big.Int).Sub(big.NewInt(8), depth))
		share.Div(share, big.NewInt(8))
		statedb.AddBalance(ommer.Beneficiary, mustUint256(share))
	}
}
