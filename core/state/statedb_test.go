package state

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/trie"
)

func TestStateDBEmptyRootMatchesEmptyTrie(t *testing.T) {
	sdb, err := New(trie.NewDatabase(nil), common.Hash{})
	require.NoError(t, err)
	root, err := sdb.IntermediateRoot()
	require.NoError(t, err)
	require.Equal(t, trie.EmptyRoot, root)
}

func TestStateDBBalanceNonceRoundTrip(t *testing.T) {
	sdb, err := New(trie.NewDatabase(nil), common.Hash{})
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000001")
	require.False(t, sdb.Exist(addr))

	sdb.CreateAccount(addr)
	sdb.AddBalance(addr, uint256.NewInt(1000))
	sdb.SetNonce(addr, 7)

	require.True(t, sdb.Exist(addr))
	require.Equal(t, uint64(7), sdb.GetNonce(addr))
	require.Equal(t, uint256.NewInt(1000), sdb.GetBalance(addr))

	root, err := sdb.Commit()
	require.NoError(t, err)
	require.NotEqual(t, trie.EmptyRoot, root)

	reopened, err := New(sdb.db, root)
	require.NoError(t, err)
	require.Equal(t, uint64(7), reopened.GetNonce(addr))
	require.Equal(t, uint256.NewInt(1000), reopened.GetBalance(addr))
}

func TestStateDBSnapshotRevert(t *testing.T) {
	sdb, err := New(trie.NewDatabase(nil), common.Hash{})
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000002")
	sdb.AddBalance(addr, uint256.NewInt(500))

	id := sdb.Snapshot()
	sdb.AddBalance(addr, uint256.NewInt(500))
	sdb.SetNonce(addr, 3)
	require.Equal(t, uint256.NewInt(1000), sdb.GetBalance(addr))

	sdb.RevertToSnapshot(id)
	require.Equal(t, uint256.NewInt(500), sdb.GetBalance(addr))
	require.Equal(t, uint64(0), sdb.GetNonce(addr))
}

func TestStateDBStorageRoundTripThroughCommit(t *testing.T) {
	db := trie.NewDatabase(nil)
	sdb, err := New(db, common.Hash{})
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000003")
	key := common.HexToHash("0x01")
	val := common.HexToHash("0x2a")

	sdb.CreateAccount(addr)
	sdb.SetState(addr, key, val)
	require.Equal(t, val, sdb.GetState(addr, key))

	root, err := sdb.Commit()
	require.NoError(t, err)

	reopened, err := New(db, root)
	require.NoError(t, err)
	require.Equal(t, val, reopened.GetState(addr, key))

	// Clearing a slot back to zero removes it from the storage trie.
	reopened.SetState(addr, key, common.Hash{})
	root2, err := reopened.Commit()
	require.NoError(t, err)
	require.NotEqual(t, root, root2)

	final, err := New(db, root2)
	require.NoError(t, err)
	require.Equal(t, common.Hash{}, final.GetState(addr, key))
}

func TestStateDBCodeStorage(t *testing.T) {
	db := trie.NewDatabase(nil)
	sdb, err := New(db, common.Hash{})
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000004")
	code := []byte{0x60, 0x2a, 0x60, 0x00, 0x55}
	sdb.SetCode(addr, code)
	require.Equal(t, code, sdb.GetCode(addr))
	require.Equal(t, len(code), sdb.GetCodeSize(addr))

	root, err := sdb.Commit()
	require.NoError(t, err)

	reopened, err := New(db, root)
	require.NoError(t, err)
	require.Equal(t, code, reopened.GetCode(addr))
}

func TestStateDBSelfDestructFinalize(t *testing.T) {
	sdb, err := New(trie.NewDatabase(nil), common.Hash{})
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000005")
	sdb.AddBalance(addr, uint256.NewInt(10))
	sdb.MarkForDeletion(addr)
	require.True(t, sdb.HasBeenMarkedForDeletion(addr))
	require.True(t, sdb.GetBalance(addr).IsZero())

	require.NoError(t, sdb.Finalize())
	require.False(t, sdb.Exist(addr))
}

func TestStateDBLogsOrderedByTxContext(t *testing.T) {
	sdb, err := New(trie.NewDatabase(nil), common.Hash{})
	require.NoError(t, err)

	tx1 := common.HexToHash("0x01")
	sdb.SetTxContext(tx1, 0)
	sdb.AddLog(&types.Log{Address: common.HexToAddress("0x1")})
	sdb.AddLog(&types.Log{Address: common.HexToAddress("0x2")})

	logs := sdb.GetLogs(tx1)
	require.Len(t, logs, 2)
	require.Equal(t, tx1, logs[0].TxHash)
	require.Equal(t, uint(0), logs[0].Index)
	require.Equal(t, uint(1), logs[1].Index)
}

func TestStateDBEmptyAccountTest(t *testing.T) {
	sdb, err := New(trie.NewDatabase(nil), common.Hash{})
	require.NoError(t, err)

	addr := common.HexToAddress("0x00000000000000000000000000000000000006")
	require.True(t, sdb.Empty(addr))

	sdb.CreateAccount(addr)
	require.True(t, sdb.Empty(addr))

	sdb.AddBalance(addr, uint256.NewInt(1))
	require.False(t, sdb.Empty(addr))
}

func TestMemoryStateDBBasic(t *testing.T) {
	m := NewMemoryStateDB()
	addr := common.HexToAddress("0x1")

	require.False(t, m.Exist(addr))
	m.CreateAccount(addr)
	m.AddBalance(addr, uint256.NewInt(42))
	m.SetNonce(addr, 1)
	require.Equal(t, uint256.NewInt(42), m.GetBalance(addr))

	id := m.Snapshot()
	m.SubBalance(addr, uint256.NewInt(42))
	require.True(t, m.GetBalance(addr).IsZero())
	m.RevertToSnapshot(id)
	require.Equal(t, uint256.NewInt(42), m.GetBalance(addr))
}

func TestMemoryStateDBSelfDestruct(t *testing.T) {
	m := NewMemoryStateDB()
	addr := common.HexToAddress("0x2")
	m.AddBalance(addr, uint256.NewInt(99))
	m.MarkForDeletion(addr)
	require.True(t, m.HasBeenMarkedForDeletion(addr))
	require.True(t, m.GetBalance(addr).IsZero())
}

func TestEncodeDecodeAccountRoundTrip(t *testing.T) {
	acc := &types.Account{
		Nonce:       5,
		Balance:     big.NewInt(123456),
		StorageRoot: types.EmptyRootHash,
		CodeHash:    types.EmptyCodeHash,
	}
	enc, err := encodeAccount(acc)
	require.NoError(t, err)
	got, err := decodeAccount(enc)
	require.NoError(t, err)
	require.Equal(t, acc.Nonce, got.Nonce)
	require.Equal(t, 0, acc.Balance.Cmp(got.Balance))
	require.Equal(t, acc.StorageRoot, got.StorageRoot)
	require.Equal(t, acc.CodeHash, got.CodeHash)
}
