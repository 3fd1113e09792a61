package vm

// Interpreter implements the fetch-decode-execute loop from §4.3's
// "Step" rule: fetch the opcode at PC, price it, validate the stack, run
// it, advance PC (or jump), repeat until a halting opcode or an error.
type Interpreter struct {
	evm *EVM
}

// Run executes contract's code against input until it halts.
func (in *Interpreter) Run(contract *Contract, input []byte) ([]byte, error) {
	contract.Input = input

	var (
		pc    uint64
		stack = NewStack()
		mem   = NewMemory()
		evm   = in.evm
	)

	for {
		op := contract.GetOp(pc)
		op_ := evm.jumpTable[op]
		if op_ == nil || op_.execute == nil {
			return nil, ErrInvalidInstruction
		}

		sLen := stack.Len()
		if sLen < op_.minStack {
			return nil, ErrStackUnderflow
		}
		if sLen > op_.maxStack {
			return nil, ErrStackOverflow
		}
		if op_.writes && evm.readOnly {
			return nil, ErrStaticStateViolation
		}

		if op_.constantGas > 0 && !contract.UseGas(op_.constantGas) {
			return nil, ErrOutOfGas
		}

		var memorySize uint64
		if op_.memorySize != nil {
			memorySize = op_.memorySize(stack)
		}

		if op_.dynamicGas != nil {
			cost, err := op_.dynamicGas(evm, contract, stack, mem, memorySize)
			if err != nil {
				return nil, err
			}
			if !contract.UseGas(cost) {
				return nil, ErrOutOfGas
			}
		}

		if memorySize > 0 {
			mem.Resize(wordCount(memorySize) * 32)
		}

		ret, err := op_.execute(&pc, evm, contract, mem, stack)
		if err != nil {
			return ret, err
		}

		if op_.halts {
			return ret, nil
		}
		if op_.jumps {
			continue
		}
		pc++
	}
}
