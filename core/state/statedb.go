// Package state implements the world state σ of §4.3: the
// account interface core/vm executes against, backed by the
// Merkle-Patricia Trie in package trie.
package state

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/core/vm"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/trie"
)

// codeHash returns code's content address, or the canonical empty-code
// hash for empty/nil code (§3 "Account": "code_hash ... or the hash
// of the empty string").
func codeHash(code []byte) common.Hash {
	if len(code) == 0 {
		return types.EmptyCodeHash
	}
	return crypto.Keccak256Hash(code)
}

// StateDB is the trie-backed account interface named in §4.3/§6.
// It satisfies vm.StateDB and additionally exposes Commit, GetLogs, and
// the self-destruct bookkeeping the block processor needs at transaction
// end (§4.4 step 7).
type StateDB struct {
	db       *trie.Database
	trie     *trie.SecureTrie
	rootHash common.Hash // as of the last Open/Commit

	stateObjects      map[common.Address]*stateObject
	stateObjectsDirty map[common.Address]struct{}

	logs    map[common.Hash][]*types.Log
	logSize uint

	refund uint64

	thash   common.Hash
	txIndex int

	journal *journal
}

var _ vm.StateDB = (*StateDB)(nil)

// New opens the state trie rooted at root (the zero hash for a brand new,
// empty state) against db.
func New(db *trie.Database, root common.Hash) (*StateDB, error) {
	var (
		t   *trie.Trie
		err error
	)
	if root.IsZero() || root == trie.EmptyRoot {
		t = trie.New(db)
	} else {
		t, err = trie.NewWithRoot(db, root)
		if err != nil {
			return nil, fmt.Errorf("state: open root %s: %w", root.Hex(), err)
		}
	}
	return &StateDB{
		db:                db,
		trie:              trie.NewSecure(t),
		rootHash:          root,
		stateObjects:      make(map[common.Address]*stateObject),
		stateObjectsDirty: make(map[common.Address]struct{}),
		logs:              make(map[common.Hash][]*types.Log),
		journal:           newJournal(),
	}, nil
}

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if obj, ok := s.stateObjects[addr]; ok {
		return obj
	}
	enc, err := s.trie.Get(addr.Bytes())
	if err != nil {
		return nil
	}
	acc, err := decodeAccount(enc)
	if err != nil {
		return nil
	}
	obj := newStateObjectFromAccount(addr, *acc)
	s.stateObjects[addr] = obj
	return obj
}

func (s *StateDB) getOrNewStateObject(addr common.Address) *stateObject {
	if obj := s.getStateObject(addr); obj != nil {
		return obj
	}
	return s.createObject(addr)
}

func (s *StateDB) createObject(addr common.Address) *stateObject {
	prev := s.stateObjects[addr]
	obj := newStateObject(addr)
	s.journal.append(createObjectChange{addr: addr, prev: prev})
	s.stateObjects[addr] = obj
	s.stateObjectsDirty[addr] = struct{}{}
	return obj
}

// CreateAccount creates a new, empty account at addr, discarding any prior
// state (used by CALL/CREATE when the target didn't previously exist, and
// — per go-ethereum convention — to reset an account being re-created by
// CREATE over a formerly self-destructed address).
func (s *StateDB) CreateAccount(addr common.Address) {
	s.createObject(addr)
}

func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

// Empty reports the EIP-161-style "empty account" test: the account is
// absent, or has zero nonce, zero balance and no code.
func (s *StateDB) Empty(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj == nil || obj.empty()
}

func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	if obj := s.getStateObject(addr); obj != nil {
		return new(uint256.Int).Set(obj.balance)
	}
	return uint256.NewInt(0)
}

func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(balanceChange{addr: addr, prev: new(uint256.Int).Set(obj.balance)})
	obj.balance = new(uint256.Int).Add(obj.balance, amount)
}

func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(balanceChange{addr: addr, prev: new(uint256.Int).Set(obj.balance)})
	obj.balance = new(uint256.Int).Sub(obj.balance, amount)
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.account.Nonce
	}
	return 0
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(nonceChange{addr: addr, prev: obj.account.Nonce})
	obj.account.Nonce = nonce
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	obj := s.getStateObject(addr)
	if obj == nil {
		return nil
	}
	if obj.code != nil || obj.account.CodeHash == types.EmptyCodeHash {
		return obj.code
	}
	code, err := s.db.Node(obj.account.CodeHash)
	if err != nil {
		return nil
	}
	obj.code = code
	return code
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(codeChange{addr: addr, prevCode: obj.code, prevHash: obj.account.CodeHash})
	obj.code = code
	obj.dirtyCode = true
	obj.account.CodeHash = codeHash(code)
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.account.CodeHash
	}
	return common.Hash{}
}

func (s *StateDB) GetCodeSize(addr common.Address) int {
	return len(s.GetCode(addr))
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	obj := s.getStateObject(addr)
	if obj == nil {
		return common.Hash{}
	}
	return obj.getState(s.db, key)
}

func (s *StateDB) SetState(addr common.Address, key common.Hash, value common.Hash) {
	obj := s.getOrNewStateObject(addr)
	prev := obj.getState(s.db, key)
	if prev == value {
		return
	}
	_, existed := obj.dirtyStorage[key]
	s.journal.append(storageChange{addr: addr, key: key, prev: prev, prevExists: existed})
	obj.setState(key, value)
}

// MarkForDeletion marks addr for removal at transaction end (SELFDESTRUCT,
// §4.3). Already-marked accounts don't re-journal, matching the
// "do not re-accumulate" rule.
func (s *StateDB) MarkForDeletion(addr common.Address) {
	obj := s.getOrNewStateObject(addr)
	if obj.selfDestructed {
		return
	}
	s.journal.append(selfDestructChange{addr: addr, prevMarked: obj.selfDestructed, prevBalance: new(uint256.Int).Set(obj.balance)})
	obj.selfDestructed = true
	obj.balance = uint256.NewInt(0)
}

func (s *StateDB) HasBeenMarkedForDeletion(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj != nil && obj.selfDestructed
}

func (s *StateDB) Snapshot() int { return s.journal.snapshot() }

func (s *StateDB) RevertToSnapshot(id int) { s.journal.revertToSnapshot(id, s) }

func (s *StateDB) AddLog(log *types.Log) {
	log.TxHash = s.thash
	log.TxIndex = uint(s.txIndex)
	log.Index = s.logSize
	s.logs[s.thash] = append(s.logs[s.thash], log)
	s.logSize++
	s.journal.append(addLogChange{txHash: s.thash})
}

func (s *StateDB) GetLogs(txHash common.Hash) []*types.Log { return s.logs[txHash] }

// Logs returns every log recorded against this StateDB so far, in the
// order AddLog saw them.
func (s *StateDB) Logs() []*types.Log {
	var all []*types.Log
	for _, lg := range s.logs {
		all = append(all, lg...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all
}

func (s *StateDB) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

func (s *StateDB) GetRefund() uint64 { return s.refund }

// SetTxContext primes per-transaction log attribution ahead of applying
// tx at index i in the block, per §5 "Logs within one transaction
// appear in EVM execution order."
func (s *StateDB) SetTxContext(txHash common.Hash, index int) {
	s.thash = txHash
	s.txIndex = index
}

// SelfDestructedAddresses returns every address marked for deletion so
// far, for the processor's "delete all self-destructed accounts" step.
func (s *StateDB) SelfDestructedAddresses() []common.Address {
	var out []common.Address
	for addr, obj := range s.stateObjects {
		if obj.selfDestructed {
			out = append(out, addr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hex() < out[j].Hex() })
	return out
}

// Finalize deletes every self-destructed account's trie entry and clears
// the in-memory object, per §4.4 step 7. Call once per
// transaction, after EVM execution and before computing the receipt's
// state root.
func (s *StateDB) Finalize() error {
	for addr, obj := range s.stateObjects {
		if !obj.selfDestructed {
			continue
		}
		if err := s.trie.Delete(addr.Bytes()); err != nil {
			return fmt.Errorf("state: delete self-destructed account %s: %w", addr.Hex(), err)
		}
		delete(s.stateObjects, addr)
		delete(s.stateObjectsDirty, addr)
	}
	return nil
}

// IntermediateRoot writes every dirty account (and its dirty storage) into
// the trie and returns the resulting root, without committing to the
// backing Database. Used for the per-transaction PostState root
// (Homestead-era receipts) as well as the final block state_root.
func (s *StateDB) IntermediateRoot() (common.Hash, error) {
	addrs := make([]common.Address, 0, len(s.stateObjectsDirty))
	for addr := range s.stateObjectsDirty {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Hex() < addrs[j].Hex() })

	for _, addr := range addrs {
		obj, ok := s.stateObjects[addr]
		if !ok || obj.selfDestructed {
			continue
		}
		if _, err := obj.updateStorageTrie(s.db); err != nil {
			return common.Hash{}, err
		}
		if obj.dirtyCode {
			s.db.Put(obj.account.CodeHash, obj.code)
			obj.dirtyCode = false
		}
		acc := &types.Account{Nonce: obj.account.Nonce, Balance: obj.balance.ToBig(), StorageRoot: obj.account.StorageRoot, CodeHash: obj.account.CodeHash}
		enc, err := encodeAccount(acc)
		if err != nil {
			return common.Hash{}, err
		}
		if err := s.trie.Put(addr.Bytes(), enc); err != nil {
			return common.Hash{}, err
		}
	}
	return s.trie.Hash(), nil
}

// Commit folds all dirty accounts into the trie, flushes newly hashed
// trie nodes (account trie, every touched storage trie, and any new
// contract code) to the backing Database/NodeWriter, and returns the new
// state root.
func (s *StateDB) Commit() (common.Hash, error) {
	if _, err := s.IntermediateRoot(); err != nil {
		return common.Hash{}, err
	}
	for _, obj := range s.stateObjects {
		if obj.selfDestructed {
			continue
		}
		obj.commitStorageTrie()
	}
	root := s.trie.Commit()
	s.stateObjectsDirty = make(map[common.Address]struct{})
	s.rootHash = root
	return root, nil
}
