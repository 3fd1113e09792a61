package vm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/state"
)

func newTestEVM(statedb *state.MemoryStateDB) *EVM {
	return NewEVM(
		BlockContext{BlockNumber: 1, GasLimit: 10_000_000, Difficulty: new(uint256.Int)},
		TxContext{GasPrice: uint256.NewInt(1)},
		statedb,
		Config{MaxCallDepth: 1024},
	)
}

func TestStackPushPopDupSwap(t *testing.T) {
	st := NewStack()
	require.NoError(t, st.Push(uint256.NewInt(1)))
	require.NoError(t, st.Push(uint256.NewInt(2)))
	st.Dup(2)
	require.Equal(t, 3, st.Len())
	require.Equal(t, uint256.NewInt(1), st.Back(0))

	st.Swap(2)
	require.Equal(t, uint256.NewInt(1), st.Back(2))
	require.Equal(t, uint256.NewInt(1), st.Back(0))

	v := st.Pop()
	require.Equal(t, *uint256.NewInt(1), v)
}

func TestStackOverflow(t *testing.T) {
	st := NewStack()
	for i := 0; i < stackLimit; i++ {
		require.NoError(t, st.Push(uint256.NewInt(uint64(i))))
	}
	require.Error(t, st.Push(uint256.NewInt(1)))
}

func TestMemoryResizeAndSet32(t *testing.T) {
	m := NewMemory()
	m.Resize(64)
	require.Equal(t, 64, m.Len())

	val := uint256.NewInt(0xdeadbeef)
	m.Set32(0, val)
	got := m.Get(0, 32)
	want := val.Bytes32()
	require.Equal(t, want[:], got)
}

// TestInterpreter_AddPushMstoreReturn reproduces §8's "ADD
// contract" bytecode directly against the interpreter, checking both the
// returned bytes and that the result is the big-endian integer 8.
func TestInterpreter_AddPushMstoreReturn(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	evm := newTestEVM(statedb)

	code := []byte{
		byte(PUSH1), 3,
		byte(PUSH1), 5,
		byte(ADD),
		byte(PUSH1), 0,
		byte(MSTORE),
		byte(PUSH1), 0,
		byte(PUSH1), 32,
		byte(RETURN),
	}
	contract := NewContract(common.Address{}, common.Address{}, uint256.NewInt(0), 100000)
	contract.Code = code

	ret, err := evm.interpreter().Run(contract, nil)
	require.NoError(t, err)

	want := make([]byte, 32)
	want[31] = 8
	require.Equal(t, want, ret)
}

// TestInterpreter_OutOfGas halts with ErrOutOfGas when gas runs out before
// the operation it is charged against can run, per §4.3 "Step".
func TestInterpreter_OutOfGas(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	evm := newTestEVM(statedb)

	code := []byte{byte(PUSH1), 1, byte(PUSH1), 2, byte(ADD)}
	contract := NewContract(common.Address{}, common.Address{}, uint256.NewInt(0), 5) // 3 gas for first PUSH1, then starved
	contract.Code = code

	_, err := evm.interpreter().Run(contract, nil)
	require.ErrorIs(t, err, ErrOutOfGas)
}

// TestInterpreter_StackUnderflow halts with ErrStackUnderflow when an
// opcode's input arity exceeds the stack depth.
func TestInterpreter_StackUnderflow(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	evm := newTestEVM(statedb)

	code := []byte{byte(ADD)}
	contract := NewContract(common.Address{}, common.Address{}, uint256.NewInt(0), 100000)
	contract.Code = code

	_, err := evm.interpreter().Run(contract, nil)
	require.ErrorIs(t, err, ErrStackUnderflow)
}

// TestInterpreter_InvalidInstruction halts on an undefined opcode byte.
func TestInterpreter_InvalidInstruction(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	evm := newTestEVM(statedb)

	contract := NewContract(common.Address{}, common.Address{}, uint256.NewInt(0), 100000)
	contract.Code = []byte{0x0c} // unassigned opcode between SIGNEXTEND and LT

	_, err := evm.interpreter().Run(contract, nil)
	require.ErrorIs(t, err, ErrInvalidInstruction)
}

// TestInterpreter_BadJumpDestination enforces §4.3 "JUMP
// validity": a JUMP target that isn't a JUMPDEST opcode halts.
func TestInterpreter_BadJumpDestination(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	evm := newTestEVM(statedb)

	code := []byte{byte(PUSH1), 5, byte(JUMP), byte(STOP), byte(STOP), byte(ADD)}
	contract := NewContract(common.Address{}, common.Address{}, uint256.NewInt(0), 100000)
	contract.Code = code

	_, err := evm.interpreter().Run(contract, nil)
	require.ErrorIs(t, err, ErrBadJumpDestination)
}

// TestInterpreter_JumpIntoPushDataRejected confirms a JUMPDEST byte that
// lives inside a PUSH's immediate data does not count as a valid target.
func TestInterpreter_JumpIntoPushDataRejected(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	evm := newTestEVM(statedb)

	// PUSH1 0x5b looks like "push the byte 0x5b (JUMPDEST)"; jumping to
	// offset 4 (the immediate data byte) must still be rejected.
	code := []byte{byte(PUSH1), 4, byte(JUMP), byte(PUSH1), byte(JUMPDEST), byte(STOP)}
	contract := NewContract(common.Address{}, common.Address{}, uint256.NewInt(0), 100000)
	contract.Code = code

	_, err := evm.interpreter().Run(contract, nil)
	require.ErrorIs(t, err, ErrBadJumpDestination)
}

// TestInterpreter_SstoreGasAndRefund reproduces §4.3's gas rules
// for SSTORE: 20000 to set a zero slot non-zero, and a 15000 refund when
// clearing it back to zero.
func TestInterpreter_SstoreGasAndRefund(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	addr := common.HexToAddress("0x01")
	statedb.CreateAccount(addr)
	evm := newTestEVM(statedb)

	setCode := []byte{byte(PUSH1), 1, byte(PUSH1), 0, byte(SSTORE)}
	contract := NewContract(addr, addr, uint256.NewInt(0), 100000)
	contract.Code = setCode
	_, err := evm.interpreter().Run(contract, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(100000-3-3-GasSstoreSet), contract.Gas)

	clearCode := []byte{byte(PUSH1), 0, byte(PUSH1), 0, byte(SSTORE)}
	contract2 := NewContract(addr, addr, uint256.NewInt(0), 100000)
	contract2.Code = clearCode
	_, err = evm.interpreter().Run(contract2, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(GasSstoreReset), 100000-3-3-contract2.Gas)
	require.Equal(t, uint64(GasSstoreRefund), statedb.GetRefund())
}

// TestInterpreter_SelfdestructRefund confirms SELFDESTRUCT accrues the
// 24000 refund exactly once, even if re-triggered on an already-marked
// account (§4.3 "Already-marked accounts do not re-accumulate the
// refund").
func TestInterpreter_SelfdestructRefund(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	addr := common.HexToAddress("0x01")
	statedb.CreateAccount(addr)
	evm := newTestEVM(statedb)

	code := []byte{byte(PUSH1), 2, byte(SELFDESTRUCT)}
	contract := NewContract(addr, addr, uint256.NewInt(0), 100000)
	contract.Code = code
	_, err := evm.interpreter().Run(contract, nil)
	require.NoError(t, err)
	require.True(t, statedb.HasBeenMarkedForDeletion(addr))
	require.Equal(t, uint64(GasSelfdestructRefund), statedb.GetRefund())

	contract2 := NewContract(addr, addr, uint256.NewInt(0), 100000)
	contract2.Code = code
	_, err = evm.interpreter().Run(contract2, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(GasSelfdestructRefund), statedb.GetRefund())
}

// TestInterpreter_CallDepthExceeded confirms that EVM.Call attempted beyond
// the maximum call stack depth fails immediately with ErrCallDepthExceeded
// (the error opCall turns into a pushed 0, §4.3 "Call semantics").
func TestInterpreter_CallDepthExceeded(t *testing.T) {
	statedb := state.NewMemoryStateDB()
	evm := newTestEVM(statedb)
	evm.depth = evm.Config.MaxCallDepth + 1

	_, _, err := evm.Call(common.Address{}, common.Address{}, nil, 1000, uint256.NewInt(0))
	require.ErrorIs(t, err, ErrCallDepthExceeded)
}
