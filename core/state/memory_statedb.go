package state

import (
	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/core/vm"
	"github.com/exthereum/ethereum/crypto"
)

// memAccount is MemoryStateDB's per-address record: no trie, no
// persistence, just the fields §4.3's account interface names.
type memAccount struct {
	nonce          uint64
	balance        *uint256.Int
	code           []byte
	codeHash       common.Hash
	storage        map[common.Hash]common.Hash
	selfDestructed bool
}

func newMemAccount() *memAccount {
	return &memAccount{balance: uint256.NewInt(0), codeHash: types.EmptyCodeHash, storage: make(map[common.Hash]common.Hash)}
}

// MemoryStateDB is a dependency-free vm.StateDB: per Design Note §9
// "Dynamic dispatch ... realized by concrete implementations (one
// MPT-backed, one in-memory for tests)". It has no roots, no commit, no
// persistence — only the account/storage/log/refund bookkeeping the EVM
// interpreter needs to run a single call or transaction in isolation,
// covering the Frontier/Homestead surface vm.StateDB exposes.
type MemoryStateDB struct {
	accounts     map[common.Address]*memAccount
	journal      *journal
	memSnapshots []memSnapshot
	logs         map[common.Hash][]*types.Log
	refund       uint64
	thash        common.Hash
	txIndex      int
}

var _ vm.StateDB = (*MemoryStateDB)(nil)

// NewMemoryStateDB returns an empty in-memory state.
func NewMemoryStateDB() *MemoryStateDB {
	return &MemoryStateDB{
		accounts: make(map[common.Address]*memAccount),
		journal:  newJournal(),
		logs:     make(map[common.Hash][]*types.Log),
	}
}

func (s *MemoryStateDB) get(addr common.Address) *memAccount { return s.accounts[addr] }

func (s *MemoryStateDB) getOrNew(addr common.Address) *memAccount {
	if a := s.accounts[addr]; a != nil {
		return a
	}
	a := newMemAccount()
	s.accounts[addr] = a
	return a
}

func (s *MemoryStateDB) CreateAccount(addr common.Address) {
	s.accounts[addr] = newMemAccount()
}

func (s *MemoryStateDB) Exist(addr common.Address) bool { return s.accounts[addr] != nil }

func (s *MemoryStateDB) GetBalance(addr common.Address) *uint256.Int {
	if a := s.get(addr); a != nil {
		return new(uint256.Int).Set(a.balance)
	}
	return uint256.NewInt(0)
}

func (s *MemoryStateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	a := s.getOrNew(addr)
	a.balance = new(uint256.Int).Add(a.balance, amount)
}

func (s *MemoryStateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	a := s.getOrNew(addr)
	a.balance = new(uint256.Int).Sub(a.balance, amount)
}

func (s *MemoryStateDB) GetNonce(addr common.Address) uint64 {
	if a := s.get(addr); a != nil {
		return a.nonce
	}
	return 0
}

func (s *MemoryStateDB) SetNonce(addr common.Address, nonce uint64) {
	s.getOrNew(addr).nonce = nonce
}

func (s *MemoryStateDB) GetCode(addr common.Address) []byte {
	if a := s.get(addr); a != nil {
		return a.code
	}
	return nil
}

func (s *MemoryStateDB) SetCode(addr common.Address, code []byte) {
	a := s.getOrNew(addr)
	a.code = code
	if len(code) == 0 {
		a.codeHash = types.EmptyCodeHash
		return
	}
	a.codeHash = crypto.Keccak256Hash(code)
}

func (s *MemoryStateDB) GetCodeHash(addr common.Address) common.Hash {
	if a := s.get(addr); a != nil {
		return a.codeHash
	}
	return common.Hash{}
}

func (s *MemoryStateDB) GetCodeSize(addr common.Address) int { return len(s.GetCode(addr)) }

func (s *MemoryStateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if a := s.get(addr); a != nil {
		return a.storage[key]
	}
	return common.Hash{}
}

func (s *MemoryStateDB) SetState(addr common.Address, key, value common.Hash) {
	s.getOrNew(addr).storage[key] = value
}

func (s *MemoryStateDB) MarkForDeletion(addr common.Address) {
	a := s.getOrNew(addr)
	a.selfDestructed = true
	a.balance = uint256.NewInt(0)
}

func (s *MemoryStateDB) HasBeenMarkedForDeletion(addr common.Address) bool {
	a := s.get(addr)
	return a != nil && a.selfDestructed
}

// Snapshot/RevertToSnapshot use the same journal machinery as StateDB, but
// since MemoryStateDB mutates its accounts map directly (no dirty/clean
// split), reverting takes a cheap full deep-copy snapshot instead of
// journaling individual field writes — adequate for test-double use,
// where states are small.
type memSnapshot struct {
	id       int
	accounts map[common.Address]*memAccount
	refund   uint64
}

func (s *MemoryStateDB) Snapshot() int {
	id := s.journal.snapshot()
	cp := make(map[common.Address]*memAccount, len(s.accounts))
	for addr, a := range s.accounts {
		acp := *a
		acp.balance = new(uint256.Int).Set(a.balance)
		acp.storage = make(map[common.Hash]common.Hash, len(a.storage))
		for k, v := range a.storage {
			acp.storage[k] = v
		}
		cp[addr] = &acp
	}
	s.memSnapshots = append(s.memSnapshots, memSnapshot{id: id, accounts: cp, refund: s.refund})
	return id
}

func (s *MemoryStateDB) RevertToSnapshot(id int) {
	for i := len(s.memSnapshots) - 1; i >= 0; i-- {
		if s.memSnapshots[i].id == id {
			s.accounts = s.memSnapshots[i].accounts
			s.refund = s.memSnapshots[i].refund
			s.memSnapshots = s.memSnapshots[:i]
			return
		}
	}
}

func (s *MemoryStateDB) AddLog(log *types.Log) {
	log.TxHash = s.thash
	log.TxIndex = uint(s.txIndex)
	s.logs[s.thash] = append(s.logs[s.thash], log)
}

func (s *MemoryStateDB) GetLogs(txHash common.Hash) []*types.Log { return s.logs[txHash] }

func (s *MemoryStateDB) SetTxContext(txHash common.Hash, index int) {
	s.thash = txHash
	s.txIndex = index
}

func (s *MemoryStateDB) AddRefund(gas uint64) { s.refund += gas }

func (s *MemoryStateDB) GetRefund() uint64 { return s.refund }
