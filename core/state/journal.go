package state

import (
	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/common"
)

// journalEntry is one revertible state mutation, capturing just enough of
// the prior value to undo itself against this package's trie-backed
// StateDB and uint256 balances.
type journalEntry interface {
	revert(s *StateDB)
}

// journal accumulates entries between snapshots so RevertToSnapshot can
// undo exactly the mutations made since a given Snapshot() call, per
// §4.3 "on failure ... the sub-state is discarded".
type journal struct {
	entries   []journalEntry
	snapshots map[int]int
	nextID    int
}

func newJournal() *journal {
	return &journal{snapshots: make(map[int]int)}
}

func (j *journal) append(e journalEntry) { j.entries = append(j.entries, e) }

func (j *journal) snapshot() int {
	id := j.nextID
	j.nextID++
	j.snapshots[id] = len(j.entries)
	return id
}

func (j *journal) revertToSnapshot(id int, s *StateDB) {
	idx, ok := j.snapshots[id]
	if !ok {
		return
	}
	for i := len(j.entries) - 1; i >= idx; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:idx]
	for sid := range j.snapshots {
		if sid >= id {
			delete(j.snapshots, sid)
		}
	}
}

type createObjectChange struct {
	addr common.Address
	prev *stateObject // nil if the account didn't exist before
}

func (ch createObjectChange) revert(s *StateDB) {
	if ch.prev == nil {
		delete(s.stateObjects, ch.addr)
	} else {
		s.stateObjects[ch.addr] = ch.prev
	}
}

type balanceChange struct {
	addr common.Address
	prev *uint256.Int
}

func (ch balanceChange) revert(s *StateDB) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.balance = ch.prev
	}
}

type nonceChange struct {
	addr common.Address
	prev uint64
}

func (ch nonceChange) revert(s *StateDB) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.account.Nonce = ch.prev
	}
}

type codeChange struct {
	addr     common.Address
	prevCode []byte
	prevHash common.Hash
}

func (ch codeChange) revert(s *StateDB) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.code = ch.prevCode
		obj.account.CodeHash = ch.prevHash
		obj.dirtyCode = true
	}
}

type storageChange struct {
	addr       common.Address
	key        common.Hash
	prev       common.Hash
	prevExists bool
}

func (ch storageChange) revert(s *StateDB) {
	obj := s.stateObjects[ch.addr]
	if obj == nil {
		return
	}
	if ch.prevExists {
		obj.dirtyStorage[ch.key] = ch.prev
	} else {
		delete(obj.dirtyStorage, ch.key)
	}
}

type selfDestructChange struct {
	addr        common.Address
	prevMarked  bool
	prevBalance *uint256.Int
}

func (ch selfDestructChange) revert(s *StateDB) {
	if obj := s.stateObjects[ch.addr]; obj != nil {
		obj.selfDestructed = ch.prevMarked
		obj.balance = ch.prevBalance
	}
}

type refundChange struct {
	prev uint64
}

func (ch refundChange) revert(s *StateDB) { s.refund = ch.prev }

type addLogChange struct {
	txHash common.Hash
}

func (ch addLogChange) revert(s *StateDB) {
	logs := s.logs[ch.txHash]
	s.logs[ch.txHash] = logs[:len(logs)-1]
	s.logSize--
}
