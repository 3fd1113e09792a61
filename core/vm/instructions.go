package vm

import (
	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/crypto"
)

// Arithmetic. uint256.Int's own arithmetic already wraps modulo 2^256, so
// none of these need the manual masking the *big.Int original required.

func opAdd(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.Add(&x, y)
	return nil, nil
}

func opSub(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.Sub(&x, y)
	return nil, nil
}

func opMul(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.Mul(&x, y)
	return nil, nil
}

func opDiv(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.SMod(&x, y)
	return nil, nil
}

func opAddmod(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y, z := stack.Pop(), stack.Pop(), stack.Back(0)
	z.AddMod(&x, &y, z)
	return nil, nil
}

func opMulmod(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y, z := stack.Pop(), stack.Pop(), stack.Back(0)
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	base, exponent := stack.Pop(), stack.Back(0)
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	back, num := stack.Pop(), stack.Back(0)
	num.ExtendSign(num, &back)
	return nil, nil
}

// Comparison and bitwise.

func opLt(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIsZero(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.Back(0)
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.Pop(), stack.Back(0)
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.Back(0)
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	th, val := stack.Pop(), stack.Back(0)
	val.Byte(&th)
	return nil, nil
}

// Keccak-256.

func opSha3(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, size := stack.Pop(), stack.Back(0)
	data := memory.Get(offset.Uint64(), size.Uint64())
	hash := crypto.Keccak256(data)
	size.SetBytes(hash)
	return nil, nil
}

// Environment.

func opAddress(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(addressToUint256(contract.Address))
}

func opBalance(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	slot := stack.Back(0)
	addr := common20(slot)
	slot.Set(evm.StateDB.GetBalance(addr))
	return nil, nil
}

func opOrigin(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(addressToUint256(evm.TxContext.Origin))
}

func opCaller(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(addressToUint256(contract.CallerAddress))
}

func opCallValue(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	v := new(uint256.Int)
	if contract.Value != nil {
		v.Set(contract.Value)
	}
	return nil, stack.Push(v)
}

func opCalldataLoad(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.Back(0)
	if offset, overflow := x.Uint64WithOverflow(); !overflow {
		data := getData(contract.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCalldataSize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(uint256.NewInt(uint64(len(contract.Input))))
}

func opCalldataCopy(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	memOffset, dataOffset, length := stack.Pop(), stack.Pop(), stack.Pop()
	dOff, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		dOff = 0xffffffffffffffff
	}
	data := getData(contract.Input, dOff, length.Uint64())
	memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(uint256.NewInt(uint64(len(contract.Code))))
}

func opCodeCopy(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	memOffset, codeOffset, length := stack.Pop(), stack.Pop(), stack.Pop()
	cOff, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		cOff = 0xffffffffffffffff
	}
	data := getData(contract.Code, cOff, length.Uint64())
	memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opGasPrice(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	v := new(uint256.Int)
	if evm.TxContext.GasPrice != nil {
		v.Set(evm.TxContext.GasPrice)
	}
	return nil, stack.Push(v)
}

func opExtCodeSize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	slot := stack.Back(0)
	addr := common20(slot)
	slot.SetUint64(uint64(evm.StateDB.GetCodeSize(addr)))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	addrWord, memOffset, codeOffset, length := stack.Pop(), stack.Pop(), stack.Pop(), stack.Pop()
	addr := common20(&addrWord)
	cOff, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		cOff = 0xffffffffffffffff
	}
	code := evm.StateDB.GetCode(addr)
	data := getData(code, cOff, length.Uint64())
	memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

// getData returns data[offset:offset+size], zero-padded when the request
// runs past the end of data — the standard EVM convention for CALLDATA*/
// CODE*/EXTCODE* copy opcodes.
func getData(data []byte, offset, size uint64) []byte {
	out := make([]byte, size)
	if offset >= uint64(len(data)) {
		return out
	}
	end := offset + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	copy(out, data[offset:end])
	return out
}

// Block.

func opBlockhash(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	num := stack.Back(0)
	if !num.IsUint64() {
		num.Clear()
		return nil, nil
	}
	n := num.Uint64()
	if evm.Context.GetHash == nil || n >= evm.Context.BlockNumber || n+256 < evm.Context.BlockNumber {
		num.Clear()
		return nil, nil
	}
	num.Set(hashToUint256(evm.Context.GetHash(n)))
	return nil, nil
}

func opCoinbase(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(addressToUint256(evm.Context.Coinbase))
}

func opTimestamp(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(uint256.NewInt(evm.Context.Time))
}

func opNumber(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(uint256.NewInt(evm.Context.BlockNumber))
}

func opDifficulty(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	v := new(uint256.Int)
	if evm.Context.Difficulty != nil {
		v.Set(evm.Context.Difficulty)
	}
	return nil, stack.Push(v)
}

func opGasLimit(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(uint256.NewInt(evm.Context.GasLimit))
}

// Stack, memory, storage, flow.

func opPop(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.Pop()
	return nil, nil
}

func opMload(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset := stack.Back(0)
	offset.SetBytes(memory.GetPtr(offset.Uint64(), 32))
	return nil, nil
}

func opMstore(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, val := stack.Pop(), stack.Pop()
	memory.Set32(offset.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, val := stack.Pop(), stack.Pop()
	memory.Set(offset.Uint64(), 1, []byte{byte(val.Uint64())})
	return nil, nil
}

func opSload(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	loc := stack.Back(0)
	key := common.Hash(loc.Bytes32())
	val := evm.StateDB.GetState(contract.Address, key)
	loc.SetBytes(val.Bytes())
	return nil, nil
}

func opSstore(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	loc, val := stack.Pop(), stack.Pop()
	key := common.Hash(loc.Bytes32())
	value := common.Hash(val.Bytes32())
	evm.StateDB.SetState(contract.Address, key, value)
	return nil, nil
}

func opJump(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	dest := stack.Pop()
	if !contract.validJumpdest(&dest) {
		return nil, ErrBadJumpDestination
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	dest, cond := stack.Pop(), stack.Pop()
	if cond.IsZero() {
		*pc++
		return nil, nil
	}
	if !contract.validJumpdest(&dest) {
		return nil, ErrBadJumpDestination
	}
	*pc = dest.Uint64()
	return nil, nil
}

func opJumpdest(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, nil
}

func opPc(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(uint256.NewInt(*pc))
}

func opMsize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(uint256.NewInt(uint64(memory.Len())))
}

func opGas(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, stack.Push(uint256.NewInt(contract.Gas))
}

// Push, dup, swap.

func opPush1(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	*pc++
	var v uint256.Int
	if *pc < uint64(len(contract.Code)) {
		v.SetUint64(uint64(contract.Code[*pc]))
	}
	return nil, stack.Push(&v)
}

// makePush returns an executionFunc for PUSH2..PUSH32, reading n immediate
// bytes following the opcode.
func makePush(n uint64) executionFunc {
	return func(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		start := *pc + 1
		data := getData(contract.Code, start, n)
		var v uint256.Int
		v.SetBytes(data)
		*pc += n
		return nil, stack.Push(&v)
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		stack.Dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		stack.Swap(n)
		return nil, nil
	}
}

func makeLog(n int) executionFunc {
	return func(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		offset, size := stack.Pop(), stack.Pop()
		topics := make([]common.Hash, n)
		for i := 0; i < n; i++ {
			t := stack.Pop()
			topics[i] = common.Hash(t.Bytes32())
		}
		data := memory.Get(offset.Uint64(), size.Uint64())
		evm.StateDB.AddLog(&types.Log{
			Address: contract.Address,
			Topics:  topics,
			Data:    data,
		})
		return nil, nil
	}
}

// Halting.

func opStop(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, nil
}

func opReturn(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, size := stack.Pop(), stack.Pop()
	return memory.Get(offset.Uint64(), size.Uint64()), nil
}

func opInvalid(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, ErrInvalidInstruction
}

func opSelfdestruct(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	beneficiaryWord := stack.Pop()
	beneficiary := common20(&beneficiaryWord)

	balance := evm.StateDB.GetBalance(contract.Address)
	evm.StateDB.AddBalance(beneficiary, balance)
	evm.StateDB.SubBalance(contract.Address, balance)

	if !evm.StateDB.HasBeenMarkedForDeletion(contract.Address) {
		evm.StateDB.AddRefund(GasSelfdestructRefund)
		evm.StateDB.MarkForDeletion(contract.Address)
	}
	return nil, nil
}

// CALL family and CREATE.

func opCall(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.Pop() // gas, already resolved into evm.callGasTemp by gasCall
	addrWord := stack.Pop()
	addr := common20(&addrWord)
	value := stack.Pop()
	inOffset, inSize := stack.Pop(), stack.Pop()
	retOffset, retSize := stack.Pop(), stack.Pop()

	args := memory.Get(inOffset.Uint64(), inSize.Uint64())

	callGas := evm.callGasTemp
	if !value.IsZero() {
		callGas += GasCallValueStipend
	}

	ret, returnGas, err := evm.Call(contract.Address, addr, args, callGas, &value)
	contract.Gas += returnGas
	evm.returnData = ret

	if retSize.Uint64() > 0 && len(ret) > 0 {
		n := retSize.Uint64()
		if uint64(len(ret)) < n {
			n = uint64(len(ret))
		}
		memory.Set(retOffset.Uint64(), n, ret[:n])
	}

	if err != nil {
		return nil, stack.Push(new(uint256.Int))
	}
	return nil, stack.Push(uint256.NewInt(1))
}

func opCallCode(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.Pop()
	addrWord := stack.Pop()
	addr := common20(&addrWord)
	value := stack.Pop()
	inOffset, inSize := stack.Pop(), stack.Pop()
	retOffset, retSize := stack.Pop(), stack.Pop()

	args := memory.Get(inOffset.Uint64(), inSize.Uint64())

	callGas := evm.callGasTemp
	if !value.IsZero() {
		callGas += GasCallValueStipend
	}

	ret, returnGas, err := evm.CallCode(contract.Address, addr, args, callGas, &value)
	contract.Gas += returnGas
	evm.returnData = ret

	if retSize.Uint64() > 0 && len(ret) > 0 {
		n := retSize.Uint64()
		if uint64(len(ret)) < n {
			n = uint64(len(ret))
		}
		memory.Set(retOffset.Uint64(), n, ret[:n])
	}

	if err != nil {
		return nil, stack.Push(new(uint256.Int))
	}
	return nil, stack.Push(uint256.NewInt(1))
}

func opDelegateCall(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.Pop()
	addrWord := stack.Pop()
	addr := common20(&addrWord)
	inOffset, inSize := stack.Pop(), stack.Pop()
	retOffset, retSize := stack.Pop(), stack.Pop()

	args := memory.Get(inOffset.Uint64(), inSize.Uint64())

	ret, returnGas, err := evm.DelegateCall(contract.CallerAddress, contract.Address, addr, args, evm.callGasTemp, contract.Value)
	contract.Gas += returnGas
	evm.returnData = ret

	if retSize.Uint64() > 0 && len(ret) > 0 {
		n := retSize.Uint64()
		if uint64(len(ret)) < n {
			n = uint64(len(ret))
		}
		memory.Set(retOffset.Uint64(), n, ret[:n])
	}

	if err != nil {
		return nil, stack.Push(new(uint256.Int))
	}
	return nil, stack.Push(uint256.NewInt(1))
}

func opCreate(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	value, offset, size := stack.Pop(), stack.Pop(), stack.Pop()
	initCode := memory.Get(offset.Uint64(), size.Uint64())

	callGas := contract.Gas
	contract.Gas = 0

	ret, addr, returnGas, err := evm.Create(contract.Address, initCode, callGas, &value)
	contract.Gas += returnGas
	evm.returnData = ret

	if err != nil {
		return nil, stack.Push(new(uint256.Int))
	}
	return nil, stack.Push(addressToUint256(addr))
}
