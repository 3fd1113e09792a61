package types

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync/atomic"

	"github.com/exthereum/ethereum/common"
	"github.com/exthereum/ethereum/crypto"
	"github.com/exthereum/ethereum/rlp"
)

// Errors surfaced while decoding or validating a transaction's shape
// (§7 kind 2, malformed input).
var (
	ErrInvalidSig = errors.New("types: invalid transaction signature")
)

// Transaction is the nine-field Frontier/Homestead transaction from spec
// §3 "Transaction". To is nil for contract creation (encodes as the RLP
// empty string, distinct from the zero address); Data carries the call
// data (To set) or init code (To nil) — spec's data/init distinction is
// purely "is To empty", there is no separate wire field.
type Transaction struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       *common.Address // nil means contract creation
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int

	hash atomic.Pointer[common.Hash]
}

// NewTransaction creates a call transaction to a specific address.
func NewTransaction(nonce uint64, to common.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) *Transaction {
	toCopy := to
	return &Transaction{
		Nonce:    nonce,
		GasPrice: new(big.Int).Set(gasPrice),
		GasLimit: gasLimit,
		To:       &toCopy,
		Value:    new(big.Int).Set(value),
		Data:     data,
	}
}

// NewContractCreation creates a contract-creation transaction: To is nil
// and Data is interpreted as init code.
func NewContractCreation(nonce uint64, value *big.Int, gasLimit uint64, gasPrice *big.Int, init []byte) *Transaction {
	return &Transaction{
		Nonce:    nonce,
		GasPrice: new(big.Int).Set(gasPrice),
		GasLimit: gasLimit,
		To:       nil,
		Value:    new(big.Int).Set(value),
		Data:     init,
	}
}

// IsContractCreation reports whether this transaction creates a contract
// (§3: "to (20 bytes or empty for contract creation)").
func (tx *Transaction) IsContractCreation() bool {
	return tx.To == nil
}

// signingFields returns the six RLP fields used for the signing hash
// (pre-EIP-155: the signature fields are omitted).
func (tx *Transaction) signingFields() []interface{} {
	return []interface{}{
		tx.Nonce, tx.GasPrice, tx.GasLimit, tx.To, tx.Value, tx.Data,
	}
}

// SigningHash returns the Keccak-256 hash signed by the sender, excluding
// the signature triple (pre-EIP-155 form), per §3 "Transaction".
func (tx *Transaction) SigningHash() common.Hash {
	enc, _ := rlp.EncodeToBytes(tx.signingFields())
	return crypto.Keccak256Hash(enc)
}

// rlpFields returns the full nine-field wire encoding in canonical order.
func (tx *Transaction) rlpFields() []interface{} {
	v, r, s := tx.V, tx.R, tx.S
	if v == nil {
		v = new(big.Int)
	}
	if r == nil {
		r = new(big.Int)
	}
	if s == nil {
		s = new(big.Int)
	}
	return []interface{}{
		tx.Nonce, tx.GasPrice, tx.GasLimit, tx.To, tx.Value, tx.Data, v, r, s,
	}
}

// EncodeRLP returns the canonical RLP encoding of the transaction.
func (tx *Transaction) EncodeRLP() ([]byte, error) {
	return rlp.EncodeToBytes(tx.rlpFields())
}

// DecodeRLP decodes a transaction from its canonical RLP encoding.
func (tx *Transaction) DecodeRLP(data []byte) error {
	var fields struct {
		Nonce    uint64
		GasPrice big.Int
		GasLimit uint64
		To       *common.Address
		Value    big.Int
		Data     []byte
		V        big.Int
		R        big.Int
		S        big.Int
	}
	if err := rlp.DecodeBytes(data, &fields); err != nil {
		return err
	}
	tx.Nonce = fields.Nonce
	tx.GasPrice = &fields.GasPrice
	tx.GasLimit = fields.GasLimit
	tx.To = fields.To
	tx.Value = &fields.Value
	tx.Data = fields.Data
	tx.V = &fields.V
	tx.R = &fields.R
	tx.S = &fields.S
	return nil
}

// Hash returns the Keccak-256 hash of the transaction's canonical RLP
// encoding (its wire identifier), cached after first computation.
func (tx *Transaction) Hash() common.Hash {
	if p := tx.hash.Load(); p != nil {
		return *p
	}
	enc, _ := tx.EncodeRLP()
	h := crypto.Keccak256Hash(enc)
	tx.hash.Store(&h)
	return h
}

// Sender recovers the sending address from the transaction's signature.
// homestead selects the Homestead low-S malleability rule (§7:
// signature recovery is a consensus-determining check, not a panic).
func (tx *Transaction) Sender(homestead bool) (common.Address, error) {
	if tx.V == nil || tx.R == nil || tx.S == nil {
		return common.Address{}, ErrInvalidSig
	}
	v := tx.V.Uint64()
	if v != 0 && v != 1 && v != 27 && v != 28 {
		return common.Address{}, ErrInvalidSig
	}
	recID := byte(v % 2)
	if !crypto.ValidateSignatureValues(recID, tx.R, tx.S, homestead) {
		return common.Address{}, ErrInvalidSig
	}
	sig := make([]byte, 65)
	rBytes, sBytes := tx.R.Bytes(), tx.S.Bytes()
	copy(sig[32-len(rBytes):32], rBytes)
	copy(sig[64-len(sBytes):64], sBytes)
	sig[64] = recID

	pub, err := crypto.Ecrecover(tx.SigningHash().Bytes(), sig)
	if err != nil {
		return common.Address{}, err
	}
	hash := crypto.Keccak256(pub[1:])
	return common.BytesToAddress(hash[12:]), nil
}

// SignTx signs tx with prv and returns a new transaction carrying the
// V/R/S fields; tx itself is left unchanged.
func SignTx(tx *Transaction, prv *ecdsa.PrivateKey) (*Transaction, error) {
	h := tx.SigningHash()
	sig, err := crypto.Sign(h.Bytes(), prv)
	if err != nil {
		return nil, err
	}
	r := new(big.Int).SetBytes(sig[0:32])
	s := new(big.Int).SetBytes(sig[32:64])
	v := new(big.Int).SetUint64(uint64(sig[64]) + 27)
	return &Transaction{
		Nonce:    tx.Nonce,
		GasPrice: tx.GasPrice,
		GasLimit: tx.GasLimit,
		To:       tx.To,
		Value:    tx.Value,
		Data:     tx.Data,
		V:        v,
		R:        r,
		S:        s,
	}, nil
}

// IntrinsicGas computes the fixed pre-execution gas charge for a
// transaction, per §4.4 step 4: 21000 + 68 per nonzero data byte +
// 4 per zero data byte, plus 32000 for contract creation.
func IntrinsicGas(data []byte, isContractCreation bool) uint64 {
	gas := uint64(21000)
	if isContractCreation {
		gas += 32000
	}
	var nonZero, zero uint64
	for _, b := range data {
		if b == 0 {
			zero++
		} else {
			nonZero++
		}
	}
	return gas + nonZero*68 + zero*4
}

// Transactions is an ordered list of transactions, as carried in a Block.
type Transactions []*Transaction
