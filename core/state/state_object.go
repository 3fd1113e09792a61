package state

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/rlp"
	"github.com/exthereum/ethereum/trie"
)

// stateObject is the in-memory working copy of one account: its consensus
// fields (nonce, balance, storage root, code hash) plus the dirty storage
// writes and code not yet folded into the account trie. Balances are held
// as uint256.Int, the type core/vm's StateDB interface requires.
type stateObject struct {
	address  common.Address
	addrHash common.Hash // Keccak256(address), the account trie key

	account types.Account
	balance *uint256.Int

	code      []byte
	dirtyCode bool

	storageTrie   *trie.SecureTrie // lazily opened/created on first access
	originStorage map[common.Hash]common.Hash
	dirtyStorage  map[common.Hash]common.Hash

	selfDestructed bool
	deleted        bool // true once Commit has removed it from the account trie
}

func newStateObject(addr common.Address) *stateObject {
	return &stateObject{
		address:       addr,
		addrHash:      crypto.Keccak256Hash(addr.Bytes()),
		account:       *types.NewEmptyAccount(),
		balance:       uint256.NewInt(0),
		originStorage: make(map[common.Hash]common.Hash),
		dirtyStorage:  make(map[common.Hash]common.Hash),
	}
}

// newStateObjectFromAccount wraps an account loaded from the trie.
func newStateObjectFromAccount(addr common.Address, acc types.Account) *stateObject {
	bal := new(uint256.Int)
	if acc.Balance != nil {
		bal.SetFromBig(acc.Balance)
	}
	return &stateObject{
		address:       addr,
		addrHash:      crypto.Keccak256Hash(addr.Bytes()),
		account:       acc,
		balance:       bal,
		originStorage: make(map[common.Hash]common.Hash),
		dirtyStorage:  make(map[common.Hash]common.Hash),
	}
}

func (o *stateObject) empty() bool {
	return o.account.Nonce == 0 && o.balance.IsZero() && o.account.CodeHash == types.EmptyCodeHash
}

// getStorageTrie opens (or lazily creates) the per-account storage trie
// backed by db, keyed by Keccak256(slot) per §3 "Account storage".
func (o *stateObject) getStorageTrie(db *trie.Database) (*trie.SecureTrie, error) {
	if o.storageTrie != nil {
		return o.storageTrie, nil
	}
	var (
		t   *trie.Trie
		err error
	)
	if o.account.StorageRoot == types.EmptyRootHash || o.account.StorageRoot.IsZero() {
		t = trie.New(db)
	} else {
		t, err = trie.NewWithRoot(db, o.account.StorageRoot)
		if err != nil {
			return nil, err
		}
	}
	o.storageTrie = trie.NewSecure(t)
	return o.storageTrie, nil
}

func (o *stateObject) getCommittedState(db *trie.Database, key common.Hash) common.Hash {
	if v, ok := o.originStorage[key]; ok {
		return v
	}
	st, err := o.getStorageTrie(db)
	if err != nil {
		return common.Hash{}
	}
	enc, err := st.Get(key.Bytes())
	if err != nil {
		o.originStorage[key] = common.Hash{}
		return common.Hash{}
	}
	value := decodeStorageValue(enc)
	o.originStorage[key] = value
	return value
}

func (o *stateObject) getState(db *trie.Database, key common.Hash) common.Hash {
	if v, ok := o.dirtyStorage[key]; ok {
		return v
	}
	return o.getCommittedState(db, key)
}

func (o *stateObject) setState(key, value common.Hash) {
	o.dirtyStorage[key] = value
}

// updateStorageTrie writes every dirty slot into the account's storage trie and
// updates the account's StorageRoot accordingly. Returns the (possibly
// unchanged) storage root.
func (o *stateObject) updateStorageTrie(db *trie.Database) (common.Hash, error) {
	if len(o.dirtyStorage) == 0 {
		return o.account.StorageRoot, nil
	}
	st, err := o.getStorageTrie(db)
	if err != nil {
		return common.Hash{}, err
	}
	for key, value := range o.dirtyStorage {
		o.originStorage[key] = value
		delete(o.dirtyStorage, key)
		if value.IsZero() {
			if err := st.Delete(key.Bytes()); err != nil {
				return common.Hash{}, err
			}
			continue
		}
		enc := encodeStorageValue(value)
		if err := st.Put(key.Bytes(), enc); err != nil {
			return common.Hash{}, err
		}
	}
	o.account.StorageRoot = st.Hash()
	return o.account.StorageRoot, nil
}

func (o *stateObject) commitStorageTrie() {
	if o.storageTrie != nil {
		o.storageTrie.Commit()
	}
}

// rlpAccount is the canonical four-field account record, per §3
// "Account" — [nonce, balance, storage_root, code_hash].
type rlpAccount struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot common.Hash
	CodeHash    common.Hash
}

func encodeAccount(a *types.Account) ([]byte, error) {
	bal := a.Balance
	if bal == nil {
		bal = new(big.Int)
	}
	return rlp.EncodeToBytes(&rlpAccount{Nonce: a.Nonce, Balance: bal, StorageRoot: a.StorageRoot, CodeHash: a.CodeHash})
}

func decodeAccount(data []byte) (*types.Account, error) {
	var ra rlpAccount
	if err := rlp.DecodeBytes(data, &ra); err != nil {
		return nil, err
	}
	return &types.Account{Nonce: ra.Nonce, Balance: ra.Balance, StorageRoot: ra.StorageRoot, CodeHash: ra.CodeHash}, nil
}

// encodeStorageValue RLP-encodes a non-zero 256-bit storage value with
// leading zero bytes trimmed, per §3 "Account storage".
func encodeStorageValue(v common.Hash) []byte {
	b := v.Bytes()
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	enc, _ := rlp.EncodeToBytes(b[i:])
	return enc
}

func decodeStorageValue(data []byte) common.Hash {
	if len(data) == 0 {
		return common.Hash{}
	}
	var b []byte
	if err := rlp.DecodeBytes(data, &b); err != nil {
		return common.Hash{}
	}
	return common.BytesToHash(b)
}
