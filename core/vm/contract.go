package vm

import (
	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/common"
)

// Contract is the Execution environment I of the Yellow Paper: the
// executing code together with its calling context.
type Contract struct {
	CallerAddress common.Address
	Address       common.Address
	Code          []byte
	CodeHash      common.Hash
	Input         []byte
	Gas           uint64
	Value         *uint256.Int

	jumpdests map[uint64]bool
}

// NewContract creates a contract ready for execution.
func NewContract(caller, addr common.Address, value *uint256.Int, gas uint64) *Contract {
	return &Contract{
		CallerAddress: caller,
		Address:       addr,
		Value:         value,
		Gas:           gas,
	}
}

// GetOp returns the opcode at position n, or STOP past the end of code
// (matching the Yellow Paper's convention that code is implicitly
// STOP-padded).
func (c *Contract) GetOp(n uint64) OpCode {
	if n < uint64(len(c.Code)) {
		return OpCode(c.Code[n])
	}
	return STOP
}

// UseGas attempts to consume gas, returning false on insufficient gas.
func (c *Contract) UseGas(gas uint64) bool {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

// SetCallCode sets the code (and its hash and, if given, the contract's
// apparent address) for a CALL-family execution.
func (c *Contract) SetCallCode(addr *common.Address, hash common.Hash, code []byte) {
	c.Code = code
	c.CodeHash = hash
	if addr != nil {
		c.Address = *addr
	}
}

// validJumpdest reports whether dest is a JUMPDEST that isn't hiding inside
// PUSH immediate data.
func (c *Contract) validJumpdest(dest *uint256.Int) bool {
	udest, overflow := dest.Uint64WithOverflow()
	if overflow || udest >= uint64(len(c.Code)) {
		return false
	}
	if OpCode(c.Code[udest]) != JUMPDEST {
		return false
	}
	return c.isCode(udest)
}

// isCode reports whether pos is an opcode position (not PUSH data),
// computing and caching the full jump-destination analysis on first use.
func (c *Contract) isCode(pos uint64) bool {
	if c.jumpdests == nil {
		c.jumpdests = make(map[uint64]bool)
		c.analyzeJumpdests()
	}
	return c.jumpdests[pos]
}

func (c *Contract) analyzeJumpdests() {
	for i := uint64(0); i < uint64(len(c.Code)); i++ {
		op := OpCode(c.Code[i])
		if op == JUMPDEST {
			c.jumpdests[i] = true
		}
		if op.IsPush() {
			i += uint64(op - PUSH1 + 1)
		}
	}
}
