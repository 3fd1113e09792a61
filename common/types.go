// Package common holds the small fixed-size value types shared by every
// other package: addresses and hashes.
package common

import (
	"encoding/hex"
	"fmt"
)

const (
	HashLength    = 32
	AddressLength = 20
)

// Hash represents the 32-byte Keccak-256 output used throughout the
// protocol as a node reference, block hash, or transaction hash.
type Hash [HashLength]byte

// BytesToHash sets the last HashLength bytes of b as a Hash, left-padding
// or truncating from the left as necessary.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Hex returns the 0x-prefixed hex encoding of the hash.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// IsZero reports whether the hash is the all-zero value.
func (h Hash) IsZero() bool { return h == Hash{} }

// Address represents a 20-byte Ethereum account address.
type Address [AddressLength]byte

// BytesToAddress sets the last AddressLength bytes of b as an Address.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the 0x-prefixed hex encoding of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// IsZero reports whether the address is the all-zero value (the sentinel
// for "contract creation" in a transaction's To field).
func (a Address) IsZero() bool { return a == Address{} }

// HexToHash parses a hex string (with or without 0x prefix) into a Hash.
func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

// HexToAddress parses a hex string (with or without 0x prefix) into an Address.
func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

// FromHex decodes a hex string, stripping an optional 0x/0X prefix. It
// panics on malformed input, matching the package's "programmer error"
// handling for host-supplied literals (see FromHexErr for a checked form).
func FromHex(s string) []byte {
	b, err := FromHexErr(s)
	if err != nil {
		panic(fmt.Sprintf("common: %v", err))
	}
	return b
}

// FromHexErr decodes a hex string, stripping an optional 0x/0X prefix.
func FromHexErr(s string) ([]byte, error) {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}
