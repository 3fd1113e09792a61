package core

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/state"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/core/vm"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/params"
)

// applyTestTransaction mirrors ApplyTransaction's gas-charging, execution,
// refund and fee steps against a MemoryStateDB, skipping sender recovery,
// the nonce/balance pre-checks, self-destruct finalization and the
// trie-backed IntermediateRoot/receipt-root machinery (already covered by
// core/state's own tests) so these tests can
// focus on the gas/balance/nonce arithmetic from §8's literal
// scenarios.
func applyTestTransaction(evm *vm.EVM, gp *GasPool, statedb *state.MemoryStateDB, sender common.Address, tx *types.Transaction) (uint64, error) {
	statedb.SetTxContext(tx.Hash(), 0)

	isCreation := tx.IsContractCreation()
	intrinsicGas := types.IntrinsicGas(tx.Data, isCreation)
	if tx.GasLimit < intrinsicGas {
		return 0, ErrIntrinsicGas
	}

	if err := gp.SubGas(tx.GasLimit); err != nil {
		return 0, err
	}

	gasPrice256, _ := uint256.FromBig(tx.GasPrice)
	value256, _ := uint256.FromBig(tx.Value)

	statedb.SubBalance(sender, new(uint256.Int).Mul(uint256.NewInt(tx.GasLimit), gasPrice256))

	gasForExecution := tx.GasLimit - intrinsicGas

	var (
		execErr  error
		leftover uint64
	)
	if isCreation {
		_, _, leftover, execErr = evm.Create(sender, tx.Data, gasForExecution, value256)
	} else {
		statedb.SetNonce(sender, tx.Nonce+1)
		_, leftover, execErr = evm.Call(sender, *tx.To, tx.Data, gasForExecution, value256)
	}
	if execErr != nil {
		leftover = 0
	}

	gasUsed := tx.GasLimit - leftover

	refund := statedb.GetRefund()
	if maxRefund := gasUsed / 2; refund > maxRefund {
		refund = maxRefund
	}
	gasUsed -= refund
	gasRefunded := tx.GasLimit - gasUsed

	statedb.AddBalance(sender, new(uint256.Int).Mul(uint256.NewInt(gasRefunded), gasPrice256))
	statedb.AddBalance(evm.Context.Coinbase, new(uint256.Int).Mul(uint256.NewInt(gasUsed), gasPrice256))
	gp.AddGas(gasRefunded)

	return gasUsed, nil
}

// TestApplyTransaction_StopOnlyCreation reproduces §8's stop-only
// contract-creation scenario: sender balance 400000 nonce 5, tx{nonce=5,
// gas_price=3, gas_limit=100000, to=nil, value=5, init=[STOP]}, beneficiary
// 0x05. Expected: gas_used=53004, sender balance 240983 nonce 6,
// beneficiary balance 159012, contract balance 5.
func TestApplyTransaction_StopOnlyCreation(t *testing.T) {
	statedb := state.NewMemoryStateDB()

	var senderAddr common.Address
	senderAddr[19] = 0xaa
	beneficiary := common.HexToAddress("0x05")

	statedb.SetNonce(senderAddr, 5)
	statedb.AddBalance(senderAddr, uint256.NewInt(400000))

	tx := types.NewContractCreation(5, big.NewInt(5), 100000, big.NewInt(3), []byte{byte(vm.STOP)})

	evm := vm.NewEVM(
		vm.BlockContext{BlockNumber: 1, Coinbase: beneficiary, GasLimit: 1000000, Difficulty: new(uint256.Int)},
		vm.TxContext{Origin: senderAddr, GasPrice: uint256.NewInt(3)},
		statedb,
		vm.Config{MaxCallDepth: 1024},
	)

	gp := new(GasPool).AddGas(1000000)

	gasUsed, err := applyTestTransaction(evm, gp, statedb, senderAddr, tx)
	require.NoError(t, err)
	require.Equal(t, uint64(53004), gasUsed)

	require.Equal(t, uint256.NewInt(240983), statedb.GetBalance(senderAddr))
	require.Equal(t, uint64(6), statedb.GetNonce(senderAddr))
	require.Equal(t, uint256.NewInt(159012), statedb.GetBalance(beneficiary))

	contractAddr := crypto.CreateAddress(senderAddr, 5)
	require.Equal(t, uint256.NewInt(5), statedb.GetBalance(contractAddr))
}

// TestApplyTransaction_AddContract reproduces §8's ADD-contract
// scenario: init-code PUSH1 3; PUSH1 5; ADD; PUSH1 0; MSTORE; PUSH1 0;
// PUSH1 32; RETURN must install code returning big-endian 8.
func TestApplyTransaction_AddContract(t *testing.T) {
	statedb := state.NewMemoryStateDB()

	var senderAddr common.Address
	senderAddr[19] = 0xbb
	beneficiary := common.HexToAddress("0x05")

	statedb.AddBalance(senderAddr, uint256.NewInt(1_000_000))

	init := []byte{
		byte(vm.PUSH1), 3,
		byte(vm.PUSH1), 5,
		byte(vm.ADD),
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 0,
		byte(vm.PUSH1), 32,
		byte(vm.RETURN),
	}
	tx := types.NewContractCreation(0, new(big.Int), 200000, big.NewInt(1), init)

	evm := vm.NewEVM(
		vm.BlockContext{BlockNumber: 1, Coinbase: beneficiary, GasLimit: 1000000, Difficulty: new(uint256.Int)},
		vm.TxContext{Origin: senderAddr, GasPrice: uint256.NewInt(1)},
		statedb,
		vm.Config{MaxCallDepth: 1024},
	)

	gp := new(GasPool).AddGas(1000000)

	_, err := applyTestTransaction(evm, gp, statedb, senderAddr, tx)
	require.NoError(t, err)

	contractAddr := crypto.CreateAddress(senderAddr, 0)
	code := statedb.GetCode(contractAddr)
	require.Len(t, code, 32)

	want := make([]byte, 32)
	want[31] = 8
	require.Equal(t, want, code)
}
