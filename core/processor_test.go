package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exthereum/ethereum/core/state"
	"github.com/exthereum/ethereum/core/types"
	"github.com/exthereum/ethereum/core/vm"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/params"
	"github.com/exthereum/ethereum/trie"
)

// TestStateProcessor_SingleCreationTransaction runs §8's stop-only
// contract-creation scenario through the full StateProcessor pipeline:
// signed transaction, trie-backed StateDB, receipt and reward accounting,
// rather than ApplyTransaction in isolation (core/state_transition_test.go
// covers that narrower slice).
func TestStateProcessor_SingleCreationTransaction(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)

	db := trie.NewDatabase(nil)
	statedb, err := state.New(db, trie.EmptyRoot)
	require.NoError(t, err)

	statedb.CreateAccount(sender)
	statedb.AddBalance(sender, mustUint256(big.NewInt(400000)))
	statedb.SetNonce(sender, 5)

	tx := types.NewContractCreation(5, big.NewInt(5), 100000, big.NewInt(3), []byte{byte(vm.STOP)})
	signedTx, err := types.SignTx(tx, key)
	require.NoError(t, err)

	header := &types.Header{
		Number:      big.NewInt(1),
		Beneficiary: [20]byte{5},
		GasLimit:    1000000,
		Difficulty:  big.NewInt(131072),
	}
	block := types.NewBlock(header, []*types.Transaction{signedTx}, nil)

	proc := NewStateProcessor(params.TestConfig, nil)
	receipts, root, err := proc.Process(block, statedb)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, uint64(53004), receipts[0].CumulativeGasUsed)
	require.NotEqual(t, trie.EmptyRoot, root)

	reopened, err := state.New(db, root)
	require.NoError(t, err)
	require.Equal(t, uint64(240983), reopened.GetBalance(sender).Uint64())
	require.Equal(t, uint64(6), reopened.GetNonce(sender))

	contractAddr := crypto.CreateAddress(sender, 5)
	require.Equal(t, uint64(5), reopened.GetBalance(contractAddr).Uint64())

	// Block reward (no ommers) must also land on the beneficiary, on top
	// of the transaction's gas fee.
	expectedBeneficiaryBalance := new(big.Int).Add(params.TestConfig.BlockReward, big.NewInt(159012))
	require.Equal(t, expectedBeneficiaryBalance, reopened.GetBalance(header.Beneficiary).ToBig())
}
