package vm

import (
	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/crypto"
)

// GetHashFunc resolves one of the last 256 block hashes for the BLOCKHASH
// opcode.
type GetHashFunc func(blockNumber uint64) common.Hash

// BlockContext carries the block-level values the EVM needs: COINBASE,
// TIMESTAMP, NUMBER, DIFFICULTY, GASLIMIT and BLOCKHASH.
type BlockContext struct {
	GetHash     GetHashFunc
	BlockNumber uint64
	Time        uint64
	Coinbase    common.Address
	GasLimit    uint64
	Difficulty  *uint256.Int
}

// TxContext carries the transaction-level values: ORIGIN and GASPRICE.
type TxContext struct {
	Origin   common.Address
	GasPrice *uint256.Int
}

// StateDB is the account interface named in §4.3/§6 — the world
// state σ, abstracted behind exists/balance/code/nonce/storage/transfer
// plus log and refund bookkeeping. Scoped to Frontier/Homestead: no
// transient storage (EIP-1153) and no warm/cold access-list tracking
// (EIP-2929), since those post-date this interpreter's fork range.
type StateDB interface {
	CreateAccount(addr common.Address)
	Exist(addr common.Address) bool

	GetBalance(addr common.Address) *uint256.Int
	AddBalance(addr common.Address, amount *uint256.Int)
	SubBalance(addr common.Address, amount *uint256.Int)

	GetNonce(addr common.Address) uint64
	SetNonce(addr common.Address, nonce uint64)

	GetCode(addr common.Address) []byte
	SetCode(addr common.Address, code []byte)
	GetCodeHash(addr common.Address) common.Hash
	GetCodeSize(addr common.Address) int

	GetState(addr common.Address, key common.Hash) common.Hash
	SetState(addr common.Address, key common.Hash, value common.Hash)

	MarkForDeletion(addr common.Address)
	HasBeenMarkedForDeletion(addr common.Address) bool

	Snapshot() int
	RevertToSnapshot(id int)

	AddLog(log *types.Log)

	AddRefund(gas uint64)
	GetRefund() uint64
}

// Config holds EVM execution options.
type Config struct {
	MaxCallDepth int
}

// EVM ties together the block/tx context, world state, and the jump table
// selected for the active fork, and exposes the call/create entry points
// a StateProcessor drives per transaction.
type EVM struct {
	Context   BlockContext
	TxContext TxContext
	Config    Config
	StateDB   StateDB

	jumpTable   JumpTable
	depth       int
	readOnly    bool
	returnData  []byte
	callGasTemp uint64 // gas to forward to the next CALL/CALLCODE/DELEGATECALL, set by its dynamicGas func
}

// NewEVM creates an EVM using the Homestead jump table — the only fork
// this interpreter implements beyond genesis Frontier.
func NewEVM(blockCtx BlockContext, txCtx TxContext, statedb StateDB, config Config) *EVM {
	if config.MaxCallDepth == 0 {
		config.MaxCallDepth = 1024
	}
	return &EVM{
		Context:   blockCtx,
		TxContext: txCtx,
		Config:    config,
		StateDB:   statedb,
		jumpTable: NewHomesteadJumpTable(),
	}
}

// SetJumpTable lets a caller select the Frontier table explicitly (e.g. to
// replay a pre-Homestead block).
func (evm *EVM) SetJumpTable(jt JumpTable) { evm.jumpTable = jt }

// interpreter returns an Interpreter that runs contracts against evm's
// jump table.
func (evm *EVM) interpreter() *Interpreter { return &Interpreter{evm: evm} }

// Call executes a message call: code runs at addr's account, value moves
// from caller to addr.
func (evm *EVM) Call(caller common.Address, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftoverGas uint64, err error) {
	if evm.depth > evm.Config.MaxCallDepth {
		return nil, gas, ErrCallDepthExceeded
	}
	if value == nil {
		value = uint256.NewInt(0)
	}
	if !value.IsZero() {
		if evm.StateDB.GetBalance(caller).Lt(value) {
			return nil, gas, ErrInsufficientBalance
		}
	}

	snapshot := evm.StateDB.Snapshot()
	if !evm.StateDB.Exist(addr) {
		evm.StateDB.CreateAccount(addr)
	}
	if !value.IsZero() {
		if evm.readOnly {
			return nil, gas, ErrStaticStateViolation
		}
		evm.StateDB.SubBalance(caller, value)
		evm.StateDB.AddBalance(addr, value)
	}

	code := evm.StateDB.GetCode(addr)
	if len(code) == 0 {
		return nil, gas, nil
	}

	contract := NewContract(caller, addr, value, gas)
	contract.Code = code
	contract.CodeHash = evm.StateDB.GetCodeHash(addr)

	evm.depth++
	ret, err = evm.interpreter().Run(contract, input)
	evm.depth--

	leftoverGas = contract.Gas
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		leftoverGas = 0
	}
	return ret, leftoverGas, err
}

// CallCode runs addr's code in caller's storage/address context, per the
// CALLCODE opcode.
func (evm *EVM) CallCode(caller common.Address, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftoverGas uint64, err error) {
	if evm.depth > evm.Config.MaxCallDepth {
		return nil, gas, ErrCallDepthExceeded
	}
	if value == nil {
		value = uint256.NewInt(0)
	}
	if !value.IsZero() && evm.StateDB.GetBalance(caller).Lt(value) {
		return nil, gas, ErrInsufficientBalance
	}

	snapshot := evm.StateDB.Snapshot()
	code := evm.StateDB.GetCode(addr)
	if len(code) == 0 {
		return nil, gas, nil
	}

	contract := NewContract(caller, caller, value, gas)
	contract.Code = code
	contract.CodeHash = evm.StateDB.GetCodeHash(addr)

	evm.depth++
	ret, err = evm.interpreter().Run(contract, input)
	evm.depth--

	leftoverGas = contract.Gas
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		leftoverGas = 0
	}
	return ret, leftoverGas, err
}

// DelegateCall runs addr's code with the caller's address, value, and
// storage context entirely unchanged, per EIP-7.
func (evm *EVM) DelegateCall(originCaller common.Address, contractAddr common.Address, addr common.Address, input []byte, gas uint64, value *uint256.Int) (ret []byte, leftoverGas uint64, err error) {
	if evm.depth > evm.Config.MaxCallDepth {
		return nil, gas, ErrCallDepthExceeded
	}

	snapshot := evm.StateDB.Snapshot()
	code := evm.StateDB.GetCode(addr)
	if len(code) == 0 {
		return nil, gas, nil
	}

	contract := NewContract(originCaller, contractAddr, value, gas)
	contract.Code = code
	contract.CodeHash = evm.StateDB.GetCodeHash(addr)

	evm.depth++
	ret, err = evm.interpreter().Run(contract, input)
	evm.depth--

	leftoverGas = contract.Gas
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		leftoverGas = 0
	}
	return ret, leftoverGas, err
}

// Create runs init as contract-creation code and installs its return value
// as the new account's code, per §4.3 "Contract creation".
func (evm *EVM) Create(caller common.Address, init []byte, gas uint64, value *uint256.Int) (ret []byte, contractAddr common.Address, leftoverGas uint64, err error) {
	if evm.depth > evm.Config.MaxCallDepth {
		return nil, common.Address{}, gas, ErrCallDepthExceeded
	}
	if evm.readOnly {
		return nil, common.Address{}, gas, ErrStaticStateViolation
	}
	if value == nil {
		value = uint256.NewInt(0)
	}

	nonce := evm.StateDB.GetNonce(caller)
	evm.StateDB.SetNonce(caller, nonce+1)
	contractAddr = crypto.CreateAddress(caller, nonce)

	// Creation fails if the target account already has a nonzero nonce or
	// non-empty code (§4.3 "Contract creation").
	if evm.StateDB.GetNonce(contractAddr) != 0 {
		return nil, common.Address{}, 0, ErrContractAddressCollision
	}
	if h := evm.StateDB.GetCodeHash(contractAddr); h != (common.Hash{}) && h != types.EmptyCodeHash {
		return nil, common.Address{}, 0, ErrContractAddressCollision
	}

	if !value.IsZero() && evm.StateDB.GetBalance(caller).Lt(value) {
		return nil, common.Address{}, gas, ErrInsufficientBalance
	}

	snapshot := evm.StateDB.Snapshot()
	if !evm.StateDB.Exist(contractAddr) {
		evm.StateDB.CreateAccount(contractAddr)
	}
	if !value.IsZero() {
		evm.StateDB.SubBalance(caller, value)
		evm.StateDB.AddBalance(contractAddr, value)
	}

	contract := NewContract(caller, contractAddr, value, gas)
	contract.Code = init

	evm.depth++
	ret, err = evm.interpreter().Run(contract, nil)
	evm.depth--

	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		return nil, common.Address{}, 0, err
	}

	// Deployed-code cost: 200 gas per byte, charged against the leftover
	// init-code gas (§4.3 gas rules).
	depositCost := uint64(len(ret)) * GasCreateData
	if contract.Gas < depositCost {
		evm.StateDB.RevertToSnapshot(snapshot)
		return nil, common.Address{}, 0, ErrOutOfGas
	}
	contract.Gas -= depositCost
	evm.StateDB.SetCode(contractAddr, ret)

	return ret, contractAddr, contract.Gas, nil
}
