package rlp

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// TestEncodeByteString reproduces §4.1's canonical forms for the
// short-string, long-string and single-byte-below-0x80 cases.
func TestEncodeByteString(t *testing.T) {
	cases := []struct {
		in   []byte
		want string
	}{
		{[]byte{}, "80"},
		{[]byte{0x00}, "00"},
		{[]byte{0x7f}, "7f"},
		{[]byte("dog"), "83646f67"},
		{make([]byte, 56), "b838" + repeat("00", 56)},
	}
	for _, c := range cases {
		got, err := EncodeToBytes(c.in)
		require.NoError(t, err)
		require.Equal(t, mustHex(c.want), got)
	}
}

// TestEncodeInteger reproduces §4.1 "Integers are encoded as the
// big-endian byte string with no leading zero bytes; zero is the empty
// byte string."
func TestEncodeInteger(t *testing.T) {
	cases := []struct {
		in   uint64
		want string
	}{
		{0, "80"},
		{1, "01"},
		{127, "7f"},
		{128, "8180"},
		{1024, "820400"},
	}
	for _, c := range cases {
		got, err := EncodeToBytes(c.in)
		require.NoError(t, err)
		require.Equal(t, mustHex(c.want), got)
	}
}

// TestEncodeList reproduces the canonical "cat" example from the Ethereum
// Yellow Paper / RLP spec.
func TestEncodeList(t *testing.T) {
	got, err := EncodeToBytes([]string{"cat", "dog"})
	require.NoError(t, err)
	require.Equal(t, mustHex("c88363617483646f67"), got)
}

func TestEncodeEmptyList(t *testing.T) {
	got, err := EncodeToBytes([]string{})
	require.NoError(t, err)
	require.Equal(t, mustHex("c0"), got)
}

func TestEncodeBigIntAndUint256(t *testing.T) {
	got, err := EncodeToBytes(big.NewInt(1024))
	require.NoError(t, err)
	require.Equal(t, mustHex("820400"), got)

	got, err = EncodeToBytes(*uint256.NewInt(1024))
	require.NoError(t, err)
	require.Equal(t, mustHex("820400"), got)

	got, err = EncodeToBytes(big.NewInt(0))
	require.NoError(t, err)
	require.Equal(t, mustHex("80"), got)
}

// TestDecodeRejectsNonCanonicalForms covers three non-canonical decode
// failures from §4.1: a single byte below 0x80 wrapped as a one-byte
// string, a leading zero in a length field, and a long-form length prefix
// where the short form would suffice.
func TestDecodeRejectsNonCanonicalForms(t *testing.T) {
	// 0x81 0x00: one-byte string with a payload that fits in a single
	// byte below 0x80, so the canonical encoding would have been 0x00.
	var out []byte
	err := DecodeBytes(mustHex("8100"), &out)
	require.Error(t, err)

	// 0xb8 0x00 ...: long-string length-of-length with a leading zero
	// byte in the length field itself.
	s := newByteStream(mustHex("b80000"))
	_, _, err = s.readItem()
	require.ErrorIs(t, err, ErrCanonInt)

	// 0xb8 0x37: long-string form used for a 55-byte payload, which the
	// short form (0x80+55) can represent canonically.
	longform := append([]byte{0xb8, 0x37}, make([]byte, 55)...)
	s = newByteStream(longform)
	_, _, err = s.readItem()
	require.ErrorIs(t, err, ErrNonCanonicalSize)
}

func TestDecodeTruncated(t *testing.T) {
	var out []byte
	err := DecodeBytes([]byte{0x83, 0x64, 0x6f}, &out)
	require.Error(t, err)
}

func TestDecodeTrailingDataRejected(t *testing.T) {
	var out []byte
	err := DecodeBytes([]byte{0x80, 0x80}, &out)
	require.ErrorIs(t, err, ErrTrailingData)
}

// TestRoundTripStruct confirms decode(encode(x)) = x (§8 "RLP
// round-trip") for a small struct with mixed field kinds, matching the way
// types.Header/Transaction lean on struct-level RLP (un)marshalling.
func TestRoundTripStruct(t *testing.T) {
	type item struct {
		A uint64
		B []byte
		C *big.Int
	}
	in := item{A: 42, B: []byte("hello"), C: big.NewInt(123456789)}

	enc, err := EncodeToBytes(in)
	require.NoError(t, err)

	var out item
	require.NoError(t, DecodeBytes(enc, &out))
	require.Equal(t, in.A, out.A)
	require.Equal(t, in.B, out.B)
	require.Equal(t, 0, in.C.Cmp(out.C))
}

func TestRoundTripNestedList(t *testing.T) {
	in := [][]byte{[]byte("set"), []byte("theory"), []byte("is")}
	enc, err := EncodeToBytes(in)
	require.NoError(t, err)

	var out [][]byte
	require.NoError(t, DecodeBytes(enc, &out))
	require.Equal(t, in, out)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func repeat(s string, n int) string {
	return strings.Repeat(s, n)
}
