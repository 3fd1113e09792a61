package rlp

import "errors"

// Structural decode failures (§4.1/§7 kind 2: MalformedInput).
var (
	ErrCanonInt         = errors.New("rlp: non-canonical integer (leading zero byte)")
	ErrCanonSize        = errors.New("rlp: non-canonical size (single byte encoded as string)")
	ErrNonCanonicalSize = errors.New("rlp: non-canonical size (short form would suffice)")
	ErrExpectedString   = errors.New("rlp: expected string, got list")
	ErrExpectedList     = errors.New("rlp: expected list, got string")
	ErrElemTooLarge     = errors.New("rlp: element larger than containing list")
	ErrValueTooLarge    = errors.New("rlp: value too large or unsupported type")
	ErrEOL              = errors.New("rlp: unexpected end of list")
	ErrTrailingData     = errors.New("rlp: trailing data after top-level item")
	ErrUint64Range      = errors.New("rlp: uint64 overflow")
)
