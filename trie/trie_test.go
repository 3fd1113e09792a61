package trie

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/common"
)

func TestEmptyTrieHash(t *testing.T) {
	tr := New(nil)
	require.Equal(t, EmptyRoot, tr.Hash())
}

func TestInsertGethVector1(t *testing.T) {
	tr := New(nil)
	require.NoError(t, tr.Put([]byte("doe"), []byte("reindeer")))
	require.NoError(t, tr.Put([]byte("dog"), []byte("puppy")))
	require.NoError(t, tr.Put([]byte("dogglesworth"), []byte("cat")))

	want := common.HexToHash("8aad789dff2f538bca5d8ea56e8abe10f4c7ba3a5dea95fea4cd6e7c3a1168d3")
	require.Equal(t, want, tr.Hash())
}

func TestInsertGethVector2(t *testing.T) {
	tr := New(nil)
	require.NoError(t, tr.Put([]byte("A"), []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")))

	want := common.HexToHash("d23786fb4a010da3ce639d66d5e904a11dbc02746d1ce25029e53290cabf28ab")
	require.Equal(t, want, tr.Hash())
}

func TestDeleteGethVector(t *testing.T) {
	tr := New(nil)
	for _, kv := range []struct{ k, v string }{
		{"do", "verb"},
		{"ether", "wookiedoo"},
		{"horse", "stallion"},
		{"shaman", "horse"},
		{"doge", "coin"},
	} {
		require.NoError(t, tr.Put([]byte(kv.k), []byte(kv.v)))
	}
	require.NoError(t, tr.Delete([]byte("ether")))
	require.NoError(t, tr.Put([]byte("dog"), []byte("puppy")))
	require.NoError(t, tr.Delete([]byte("shaman")))

	want := common.HexToHash("5991bb8c6514148a29db676a14ac506cd2cd5775ace63c30a4fe457715e9ac84")
	require.Equal(t, want, tr.Hash())
}

func TestEmptyValuePutIsDelete(t *testing.T) {
	tr := New(nil)
	for _, kv := range []struct{ k, v string }{
		{"do", "verb"}, {"ether", "wookiedoo"}, {"horse", "stallion"},
		{"shaman", "horse"}, {"doge", "coin"}, {"ether", ""},
		{"dog", "puppy"}, {"shaman", ""},
	} {
		require.NoError(t, tr.Put([]byte(kv.k), []byte(kv.v)))
	}
	want := common.HexToHash("5991bb8c6514148a29db676a14ac506cd2cd5775ace63c30a4fe457715e9ac84")
	require.Equal(t, want, tr.Hash())
}

func TestGetExistingAndMissingKeys(t *testing.T) {
	tr := New(nil)
	require.NoError(t, tr.Put([]byte("doe"), []byte("reindeer")))
	require.NoError(t, tr.Put([]byte("dog"), []byte("puppy")))
	require.NoError(t, tr.Put([]byte("dogglesworth"), []byte("cat")))

	got, err := tr.Get([]byte("doe"))
	require.NoError(t, err)
	require.Equal(t, []byte("reindeer"), got)

	_, err = tr.Get([]byte("unknown"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetEmptyTrie(t *testing.T) {
	tr := New(nil)
	_, err := tr.Get([]byte("anything"))
	require.ErrorIs(t, err, ErrNotFound)
}

// memKV is a minimal in-memory NodeReader/NodeWriter pair, standing in for
// the caller-provided KV store during commit/reopen round-trip tests.
type memKV struct {
	nodes map[common.Hash][]byte
}

func newMemKV() *memKV { return &memKV{nodes: make(map[common.Hash][]byte)} }

func (m *memKV) Node(hash common.Hash) ([]byte, error) {
	data, ok := m.nodes[hash]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *memKV) PutNode(hash common.Hash, data []byte) error {
	m.nodes[hash] = data
	return nil
}

func TestCommitAndReopen(t *testing.T) {
	store := newMemKV()
	db := NewDatabase(store)
	tr := New(db)

	require.NoError(t, tr.Put([]byte("doe"), []byte("reindeer")))
	require.NoError(t, tr.Put([]byte("dog"), []byte("puppy")))
	require.NoError(t, tr.Put([]byte("dogglesworth"), []byte("cat")))

	root := tr.Commit()
	require.NoError(t, db.Flush(store))
	require.Greater(t, len(store.nodes), 0)

	reopened, err := NewWithRoot(db, root)
	require.NoError(t, err)

	got, err := reopened.Get([]byte("dogglesworth"))
	require.NoError(t, err)
	require.Equal(t, []byte("cat"), got)

	require.Equal(t, root, reopened.Hash())
}

func TestNewWithRootMissingNodeError(t *testing.T) {
	db := NewDatabase(nil)
	bogus := common.HexToHash("deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")

	_, err := NewWithRoot(db, bogus)
	require.Error(t, err)
	var missing *ErrMissingNode
	require.ErrorAs(t, err, &missing)
}

func TestSecureTrieKeysByHash(t *testing.T) {
	tr := NewSecure(New(nil))
	require.NoError(t, tr.Put([]byte("key"), []byte("value")))

	got, err := tr.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)
}
