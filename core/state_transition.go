package core

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/core/state"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/core/vm"
)

// ApplyTransaction runs tx against statedb inside evm and returns the
// resulting receipt and gas used, per §4.4 "Transaction application"
// steps 1-8. gp is debited tx.GasLimit for the duration of the call,
// matching the block-level gas pool accounting; evm.Context.Coinbase is
// credited with the gas fee (the beneficiary of block finalization).
// Callers must statedb.SetTxContext(tx.Hash(), index) beforehand so logs
// emitted during execution are attributed to this transaction.
func ApplyTransaction(evm *vm.EVM, gp *GasPool, statedb *state.StateDB, tx *types.Transaction, homestead bool, cumulativeGasUsed uint64) (*types.Receipt, uint64, error) {
	sender, err := tx.Sender(homestead)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidSender, err)
	}

	if statedb.GetNonce(sender) != tx.Nonce {
		return nil, 0, ErrNonceMismatch
	}

	intrinsicGas := types.IntrinsicGas(tx.Data, tx.IsContractCreation())
	if tx.GasLimit < intrinsicGas {
		return nil, 0, ErrIntrinsicGas
	}

	upfrontCost := new(big.Int).Mul(new(big.Int).SetUint64(tx.GasLimit), tx.GasPrice)
	upfrontCost.Add(upfrontCost, tx.Value)
	if statedb.GetBalance(sender).ToBig().Cmp(upfrontCost) < 0 {
		return nil, 0, ErrInsufficientFunds
	}

	if err := gp.SubGas(tx.GasLimit); err != nil {
		return nil, 0, err
	}

	gasPrice256, overflow := uint256.FromBig(tx.GasPrice)
	if overflow {
		return nil, 0, fmt.Errorf("core: gas_price overflows 256 bits")
	}
	value256, overflow := uint256.FromBig(tx.Value)
	if overflow {
		return nil, 0, fmt.Errorf("core: value overflows 256 bits")
	}

	// Step 3: deduct up-front gas. The sender's nonce is bumped here for a
	// CALL; a CREATE bumps it itself (evm.Create derives the new contract
	// address from the pre-bump nonce, then increments it), so it isn't
	// duplicated here.
	statedb.SubBalance(sender, new(uint256.Int).Mul(uint256.NewInt(tx.GasLimit), gasPrice256))

	gasForExecution := tx.GasLimit - intrinsicGas

	var (
		execErr  error
		leftover uint64
	)
	if tx.IsContractCreation() {
		_, _, leftover, execErr = evm.Create(sender, tx.Data, gasForExecution, value256)
	} else {
		statedb.SetNonce(sender, tx.Nonce+1)
		_, leftover, execErr = evm.Call(sender, *tx.To, tx.Data, gasForExecution, value256)
	}
	if execErr != nil {
		// A revert or out-of-gas still yields a valid receipt (§7
		// "Transactions never throw"): Call/Create already rolled their
		// own state changes back to their internal pre-call snapshot, so
		// all execution gas is treated as consumed.
		leftover = 0
	}

	gasUsed := tx.GasLimit - leftover

	// Step 6: apply the refund counter, capped at half the gas used.
	refund := statedb.GetRefund()
	if maxRefund := gasUsed / 2; refund > maxRefund {
		refund = maxRefund
	}
	gasUsed -= refund
	gasRefunded := tx.GasLimit - gasUsed

	// Step 5: refund unused gas to the sender, credit the beneficiary with
	// what was actually spent.
	statedb.AddBalance(sender, new(uint256.Int).Mul(uint256.NewInt(gasRefunded), gasPrice256))
	statedb.AddBalance(evm.Context.Coinbase, new(uint256.Int).Mul(uint256.NewInt(gasUsed), gasPrice256))
	gp.AddGas(gasRefunded)

	// Step 7: delete all self-destructed accounts.
	if err := statedb.Finalize(); err != nil {
		return nil, 0, err
	}

	root, err := statedb.IntermediateRoot()
	if err != nil {
		return nil, 0, err
	}

	// Step 8: emit the receipt, with CumulativeGasUsed tracking the
	// block-wide running total rather than this transaction's own cost.
	logs := statedb.GetLogs(tx.Hash())
	receipt := types.NewReceipt(root, cumulativeGasUsed+gasUsed, logs)
	return receipt, gasUsed, nil
}
