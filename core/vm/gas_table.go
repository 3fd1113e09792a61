package vm

import "github.com/holiman/uint256"

// gasExp charges 10 gas per byte of the exponent's minimal big-endian
// representation, on top of EXP's constant base cost.
func gasExp(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	exponent := stack.Back(1)
	nbytes := uint64((exponent.BitLen() + 7) / 8)
	return nbytes * GasExpByte, nil
}

// gasSha3 adds the per-word cost of SHA3's input (its size operand) on top
// of its base cost, plus the memory expansion up to memorySize.
func gasSha3(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	length := clampAdd(stack.Back(1), 0)
	wordGas := wordCount(length) * GasSha3Word
	memGas, err := gasMemExpansion(evm, contract, stack, mem, memorySize)
	if err != nil {
		return 0, err
	}
	return wordGas + memGas, nil
}

// gasCopy adds the per-word copy cost for CALLDATACOPY/CODECOPY/EXTCODECOPY
// on top of memory expansion.
func gasCopy(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	memGas, err := gasMemExpansion(evm, contract, stack, mem, memorySize)
	if err != nil {
		return 0, err
	}
	// The length operand sits at index 2 for every copy opcode in this
	// jump table (CALLDATACOPY/CODECOPY: destOffset, offset, length;
	// EXTCODECOPY: addr, destOffset, offset, length).
	var length *uint256.Int
	if contract != nil && stack.Len() >= 4 {
		length = stack.Back(3)
	} else {
		length = stack.Back(2)
	}
	return wordCount(length.Uint64())*GasCopy + memGas, nil
}

// gasSstore implements §4.3's SSTORE schedule: 20000 to set a zero
// slot non-zero, 5000 otherwise, with a 15000 refund (capped elsewhere, at
// half of total gas used) when a non-zero slot is cleared to zero.
func gasSstore(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	key := stack.Back(0).Bytes32()
	newVal := stack.Back(1)

	current := evm.StateDB.GetState(contract.Address, key)
	currentIsZero := current == ([32]byte{})
	newIsZero := newVal.IsZero()

	if currentIsZero && !newIsZero {
		return GasSstoreSet, nil
	}
	if !currentIsZero && newIsZero {
		evm.StateDB.AddRefund(GasSstoreRefund)
	}
	return GasSstoreReset, nil
}

// gasCall adds CALL/CALLCODE's value stipend, new-account surcharge,
// memory expansion, and the caller-forwarded gas.
func gasCall(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	memGas, err := gasMemExpansion(evm, contract, stack, mem, memorySize)
	if err != nil {
		return 0, err
	}
	value := stack.Back(2)
	addr := common20(stack.Back(1))

	var surcharge uint64
	if !value.IsZero() && !evm.StateDB.Exist(addr) {
		surcharge = GasCallNewAccount
	}
	var stipend uint64
	if !value.IsZero() {
		stipend = GasCallValueStipend
	}
	forwarded, err := callGas(contract.Gas, memGas+surcharge, stack.Back(0))
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = forwarded
	return memGas + surcharge + forwarded + stipend, nil
}

// gasDelegateCall adds memory expansion and the caller-forwarded gas;
// DELEGATECALL carries no value, so there's no stipend or new-account
// surcharge to add.
func gasDelegateCall(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	memGas, err := gasMemExpansion(evm, contract, stack, mem, memorySize)
	if err != nil {
		return 0, err
	}
	forwarded, err := callGas(contract.Gas, memGas, stack.Back(0))
	if err != nil {
		return 0, err
	}
	evm.callGasTemp = forwarded
	return memGas + forwarded, nil
}

// callGas resolves the gas argument pushed for a CALL-family opcode: the
// value requested on the stack, capped to whatever remains of the caller's
// gas after the cost already computed (base + memory + stipend surcharge).
func callGas(available, alreadyCharged uint64, gasArg *uint256.Int) (uint64, error) {
	if available < alreadyCharged {
		return 0, ErrOutOfGas
	}
	remaining := available - alreadyCharged
	if !gasArg.IsUint64() || gasArg.Uint64() > remaining {
		return remaining, nil
	}
	return gasArg.Uint64(), nil
}

// gasLog returns the dynamicGasFunc for a LOGn opcode: per-topic cost
// (n topics) plus per-byte data cost, plus memory expansion.
func gasLog(n int) dynamicGasFunc {
	return func(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		memGas, err := gasMemExpansion(evm, contract, stack, mem, memorySize)
		if err != nil {
			return 0, err
		}
		length := clampAdd(stack.Back(1), 0)
		return memGas + uint64(n)*GasLogTopic + length*GasLogData, nil
	}
}

// gasSelfdestruct adds the new-account surcharge when the beneficiary
// doesn't exist yet and would receive a non-zero balance.
func gasSelfdestruct(evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	beneficiary := common20(stack.Back(0))
	if evm.StateDB.Exist(beneficiary) {
		return 0, nil
	}
	if evm.StateDB.GetBalance(contract.Address).IsZero() {
		return 0, nil
	}
	return GasCallNewAccount, nil
}
