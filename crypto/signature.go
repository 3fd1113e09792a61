package crypto

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/exthereum/ethereum/common"
)

// Errors for signature recovery operations (§7 kind 1: these feed
// into a transaction's "recover sender" step, which is itself a
// consensus-determining check — an unrecoverable signature is a hard
// reject, not a panic).
var (
	ErrInvalidSigLen  = errors.New("crypto: signature must be 65 bytes [R || S || V]")
	ErrInvalidRecID   = errors.New("crypto: invalid recovery id")
	ErrInvalidPubkey  = errors.New("crypto: invalid public key")
	ErrInvalidHashLen = errors.New("crypto: hash must be 32 bytes")
)

// secp256k1N is the order of the secp256k1 curve.
var secp256k1N = secp256k1.S256().N

// secp256k1HalfN is half the curve order, used for the Homestead low-S check.
var secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)

// GenerateKey generates a new secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	return key.ToECDSA(), nil
}

// Sign produces a 65-byte recoverable ECDSA signature (R || S || V, V in
// {0,1}) of a 32-byte hash. S is normalized to the lower half of the
// curve order (EIP-2 / Homestead).
func Sign(hash []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	if len(hash) != 32 {
		return nil, ErrInvalidHashLen
	}
	priv := secp256k1.PrivKeyFromBytes(prv.D.Bytes())
	compact := dsa.SignCompact(priv, hash, false)
	// dsa.SignCompact returns [recoveryID+27, R(32), S(32)].
	recID := compact[0] - 27
	sig := make([]byte, 65)
	copy(sig[0:32], compact[1:33])
	copy(sig[32:64], compact[33:65])
	sig[64] = recID
	return sig, nil
}

// Ecrecover recovers the uncompressed 65-byte public key from hash and a
// 65-byte [R || S || V] signature.
func Ecrecover(hash, sig []byte) ([]byte, error) {
	pub, err := SigToPub(hash, sig)
	if err != nil {
		return nil, err
	}
	return FromECDSAPub(pub), nil
}

// SigToPub recovers the public key from hash and a 65-byte [R || S || V]
// signature, V in {0,1}.
func SigToPub(hash, sig []byte) (*ecdsa.PublicKey, error) {
	if len(sig) != 65 {
		return nil, ErrInvalidSigLen
	}
	if len(hash) != 32 {
		return nil, ErrInvalidHashLen
	}
	if sig[64] > 1 {
		return nil, ErrInvalidRecID
	}
	compact := make([]byte, 65)
	compact[0] = sig[64] + 27
	copy(compact[1:33], sig[0:32])
	copy(compact[33:65], sig[32:64])

	pub, _, err := dsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, err
	}
	return pub.ToECDSA(), nil
}

// ValidateSignatureValues checks r, s, v for validity per §4.4 sender
// recovery. When homestead is true, s must be in the lower half of the
// curve order (EIP-2).
func ValidateSignatureValues(v byte, r, s *big.Int, homestead bool) bool {
	if r == nil || s == nil {
		return false
	}
	if v > 1 {
		return false
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return false
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return false
	}
	if homestead && s.Cmp(secp256k1HalfN) > 0 {
		return false
	}
	return true
}

// PubkeyToAddress derives the Ethereum address from a public key:
// Keccak256(pubkey.X || pubkey.Y)[12:32].
func PubkeyToAddress(p ecdsa.PublicKey) common.Address {
	pubBytes := FromECDSAPub(&p)
	if pubBytes == nil {
		return common.Address{}
	}
	hash := Keccak256(pubBytes[1:])
	return common.BytesToAddress(hash[12:])
}

// FromECDSAPub marshals a public key to 65-byte uncompressed format
// (0x04 || X || Y).
func FromECDSAPub(pub *ecdsa.PublicKey) []byte {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil
	}
	var fx, fy secp256k1.FieldVal
	fx.SetByteSlice(pub.X.Bytes())
	fy.SetByteSlice(pub.Y.Bytes())
	return secp256k1.NewPublicKey(&fx, &fy).SerializeUncompressed()
}
