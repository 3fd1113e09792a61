package rlp

import (
	"bytes"
	"io"
	"math/big"
	"reflect"

	"github.com/holiman/uint256"
)

// Kind identifies the type of the next RLP value in a stream.
type Kind int

const (
	Byte   Kind = iota // a single byte in [0x00, 0x7f]
	String             // an RLP string, including the empty string
	List               // an RLP list
)

// Decode reads a single RLP-encoded value from r into the value pointed to
// by val. It requires r to be fully consumed.
func Decode(r io.Reader, val interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return DecodeBytes(data, val)
}

// DecodeBytes decodes an RLP-encoded byte slice into the value pointed to
// by val, requiring the entire input to form exactly one item.
func DecodeBytes(b []byte, val interface{}) error {
	s := newByteStream(b)
	if err := s.decodeValue(reflect.ValueOf(val)); err != nil {
		return err
	}
	if s.pos != len(s.data) {
		return ErrTrailingData
	}
	return nil
}

// Stream provides low-level, streaming access to RLP-encoded data: the
// primitive §4.1 decode operation plus list scoping, used internally
// by the trie node decoder to avoid a reflection round-trip per node.
type Stream struct {
	data  []byte
	pos   int
	stack []listFrame
}

type listFrame struct {
	end int
}

// NewStream creates a Stream that reads the remainder of r eagerly.
func NewStream(r io.Reader) *Stream {
	data, _ := io.ReadAll(r)
	return newByteStream(data)
}

func newByteStream(data []byte) *Stream {
	return &Stream{data: data}
}

// Kind reports the type and payload size of the next value without
// consuming it.
func (s *Stream) Kind() (Kind, uint64, error) {
	lim := s.limit()
	if s.pos >= lim {
		return 0, 0, io.EOF
	}
	prefix := s.data[s.pos]
	switch {
	case prefix <= 0x7f:
		return Byte, 1, nil
	case prefix <= 0xb7:
		return String, uint64(prefix - 0x80), nil
	case prefix <= 0xbf:
		lenOfLen := int(prefix - 0xb7)
		if s.pos+1+lenOfLen > lim {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return String, readBigEndian(s.data[s.pos+1 : s.pos+1+lenOfLen]), nil
	case prefix <= 0xf7:
		return List, uint64(prefix - 0xc0), nil
	default:
		lenOfLen := int(prefix - 0xf7)
		if s.pos+1+lenOfLen > lim {
			return 0, 0, io.ErrUnexpectedEOF
		}
		return List, readBigEndian(s.data[s.pos+1 : s.pos+1+lenOfLen]), nil
	}
}

// readItem consumes and returns one complete RLP item: its kind and
// payload bytes. Rejects every non-canonical form named in §4.1:
// leading zeros in length fields, and short-form-would-suffice lengths.
func (s *Stream) readItem() (kind Kind, payload []byte, err error) {
	lim := s.limit()
	if s.pos >= lim {
		return 0, nil, io.EOF
	}
	prefix := s.data[s.pos]

	switch {
	case prefix <= 0x7f:
		payload = s.data[s.pos : s.pos+1]
		s.pos++
		return Byte, payload, nil

	case prefix <= 0xb7:
		size := int(prefix - 0x80)
		start := s.pos + 1
		end := start + size
		if end > lim {
			return 0, nil, io.ErrUnexpectedEOF
		}
		if size == 1 && s.data[start] <= 0x7f {
			return 0, nil, ErrCanonSize
		}
		payload = s.data[start:end]
		s.pos = end
		return String, payload, nil

	case prefix <= 0xbf:
		lenOfLen := int(prefix - 0xb7)
		if s.pos+1+lenOfLen > lim {
			return 0, nil, io.ErrUnexpectedEOF
		}
		sizeBytes := s.data[s.pos+1 : s.pos+1+lenOfLen]
		if sizeBytes[0] == 0 {
			return 0, nil, ErrCanonInt
		}
		size := int(readBigEndian(sizeBytes))
		if size <= 55 {
			return 0, nil, ErrNonCanonicalSize
		}
		start := s.pos + 1 + lenOfLen
		end := start + size
		if end > lim {
			return 0, nil, io.ErrUnexpectedEOF
		}
		payload = s.data[start:end]
		s.pos = end
		return String, payload, nil

	case prefix <= 0xf7:
		size := int(prefix - 0xc0)
		start := s.pos + 1
		end := start + size
		if end > lim {
			return 0, nil, io.ErrUnexpectedEOF
		}
		payload = s.data[start:end]
		s.pos = end
		return List, payload, nil

	default:
		lenOfLen := int(prefix - 0xf7)
		if s.pos+1+lenOfLen > lim {
			return 0, nil, io.ErrUnexpectedEOF
		}
		sizeBytes := s.data[s.pos+1 : s.pos+1+lenOfLen]
		if sizeBytes[0] == 0 {
			return 0, nil, ErrCanonInt
		}
		size := int(readBigEndian(sizeBytes))
		if size <= 55 {
			return 0, nil, ErrNonCanonicalSize
		}
		start := s.pos + 1 + lenOfLen
		end := start + size
		if end > lim {
			return 0, nil, io.ErrUnexpectedEOF
		}
		payload = s.data[start:end]
		s.pos = end
		return List, payload, nil
	}
}

// Raw reads the next item's full encoding, header included, without
// interpreting its contents. Used by callers (e.g. the trie package) that
// need to re-embed an item verbatim, such as a node's inline RLP.
func (s *Stream) Raw() ([]byte, error) {
	start := s.pos
	if _, _, err := s.readItem(); err != nil {
		return nil, err
	}
	return s.data[start:s.pos], nil
}

// Bytes reads an RLP string value.
func (s *Stream) Bytes() ([]byte, error) {
	kind, payload, err := s.readItem()
	if err != nil {
		return nil, err
	}
	if kind == List {
		return nil, ErrExpectedString
	}
	return payload, nil
}

// List enters a list scope, returning the byte length of its payload.
// Bytes/Uint64/List calls made before the matching ListEnd read from
// within this list.
func (s *Stream) List() (uint64, error) {
	lim := s.limit()
	if s.pos >= lim {
		return 0, io.EOF
	}
	prefix := s.data[s.pos]
	if prefix < 0xc0 {
		return 0, ErrExpectedList
	}

	var payloadStart, payloadEnd int
	switch {
	case prefix <= 0xf7:
		size := int(prefix - 0xc0)
		payloadStart = s.pos + 1
		payloadEnd = payloadStart + size
	default:
		lenOfLen := int(prefix - 0xf7)
		if s.pos+1+lenOfLen > lim {
			return 0, io.ErrUnexpectedEOF
		}
		sizeBytes := s.data[s.pos+1 : s.pos+1+lenOfLen]
		if sizeBytes[0] == 0 {
			return 0, ErrCanonInt
		}
		size := int(readBigEndian(sizeBytes))
		if size <= 55 {
			return 0, ErrNonCanonicalSize
		}
		payloadStart = s.pos + 1 + lenOfLen
		payloadEnd = payloadStart + size
	}
	if payloadEnd > lim {
		return 0, io.ErrUnexpectedEOF
	}
	s.stack = append(s.stack, listFrame{end: payloadEnd})
	s.pos = payloadStart
	return uint64(payloadEnd - payloadStart), nil
}

// ListEnd closes the current list scope, failing if it was not fully
// consumed (§4.1 "trailing bytes" rule applied at list granularity).
func (s *Stream) ListEnd() error {
	if len(s.stack) == 0 {
		return ErrExpectedList
	}
	top := s.stack[len(s.stack)-1]
	if s.pos != top.end {
		return ErrEOL
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// MoreInList reports whether the current list scope has unread bytes.
func (s *Stream) MoreInList() bool {
	if len(s.stack) == 0 {
		return s.pos < len(s.data)
	}
	return s.pos < s.stack[len(s.stack)-1].end
}

func (s *Stream) limit() int {
	if len(s.stack) > 0 {
		return s.stack[len(s.stack)-1].end
	}
	return len(s.data)
}

// Uint64 reads a canonical RLP-encoded unsigned integer.
func (s *Stream) Uint64() (uint64, error) {
	b, err := s.Bytes()
	if err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	if len(b) > 8 {
		return 0, ErrUint64Range
	}
	if len(b) > 1 && b[0] == 0 {
		return 0, ErrCanonInt
	}
	var val uint64
	for _, x := range b {
		val = (val << 8) | uint64(x)
	}
	return val, nil
}

// BigInt reads a canonical RLP-encoded arbitrary-precision integer.
func (s *Stream) BigInt() (*big.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 1 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	return new(big.Int).SetBytes(b), nil
}

// Uint256 reads a canonical RLP-encoded 256-bit unsigned integer.
func (s *Stream) Uint256() (*uint256.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 1 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	if len(b) > 32 {
		return nil, ErrValueTooLarge
	}
	return new(uint256.Int).SetBytes(b), nil
}

func readBigEndian(b []byte) uint64 {
	var val uint64
	for _, x := range b {
		val = (val << 8) | uint64(x)
	}
	return val
}

func (s *Stream) decodeValue(v reflect.Value) error {
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrExpectedString
	}
	return s.decodeInto(v.Elem())
}

func (s *Stream) decodeInto(v reflect.Value) error {
	if v.Type() == bigIntType {
		bi, err := s.BigInt()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(*bi))
		return nil
	}
	if v.Type() == uint256IntType {
		u, err := s.Uint256()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(*u))
		return nil
	}
	if v.Kind() == reflect.Ptr {
		if v.Type() == reflect.TypeOf((*big.Int)(nil)) {
			bi, err := s.BigInt()
			if err != nil {
				return err
			}
			v.Set(reflect.ValueOf(bi))
			return nil
		}
		if v.Type() == reflect.TypeOf((*uint256.Int)(nil)) {
			u, err := s.Uint256()
			if err != nil {
				return err
			}
			v.Set(reflect.ValueOf(u))
			return nil
		}
		// A generic optional pointer (e.g. *common.Address for a
		// transaction's contract-creation "to" field) decodes to nil when
		// the wire form is the empty RLP string, distinguishing "absent"
		// from "present with the zero value".
		if kind, size, err := s.Kind(); err == nil && kind == String && size == 0 {
			if _, err := s.Bytes(); err != nil {
				return err
			}
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return s.decodeInto(v.Elem())
	}

	switch v.Kind() {
	case reflect.Bool:
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		switch {
		case len(b) == 0:
			v.SetBool(false)
		case len(b) == 1 && b[0] == 0x01:
			v.SetBool(true)
		case len(b) == 1 && b[0] == 0x00:
			v.SetBool(false)
		default:
			return ErrCanonInt
		}
		return nil

	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		u, err := s.Uint64()
		if err != nil {
			return err
		}
		v.SetUint(u)
		return nil

	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		u, err := s.Uint64()
		if err != nil {
			return err
		}
		v.SetInt(int64(u))
		return nil

	case reflect.String:
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		v.SetString(string(b))
		return nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.Bytes()
			if err != nil {
				return err
			}
			v.SetBytes(bytes.Clone(b))
			return nil
		}
		return s.decodeList(v)

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.Bytes()
			if err != nil {
				return err
			}
			if len(b) > v.Len() {
				return ErrValueTooLarge
			}
			// Right-align: fixed-size protocol arrays (Hash, Address) are
			// big-endian with leading zeros stripped by the RLP encoding.
			off := v.Len() - len(b)
			for i := 0; i < v.Len(); i++ {
				if i < off {
					v.Index(i).SetUint(0)
				} else {
					v.Index(i).SetUint(uint64(b[i-off]))
				}
			}
			return nil
		}
		return s.decodeList(v)

	case reflect.Struct:
		return s.decodeStruct(v)

	default:
		return ErrExpectedString
	}
}

func (s *Stream) decodeList(v reflect.Value) error {
	if _, err := s.List(); err != nil {
		return err
	}
	isSlice := v.Kind() == reflect.Slice
	if isSlice {
		v.Set(reflect.MakeSlice(v.Type(), 0, 0))
	}
	i := 0
	for s.MoreInList() {
		if isSlice {
			v.Set(reflect.Append(v, reflect.New(v.Type().Elem()).Elem()))
		}
		if i < v.Len() {
			if err := s.decodeInto(v.Index(i)); err != nil {
				return err
			}
		} else if _, err := s.Raw(); err != nil {
			// Array shorter than the list: consume and discard the
			// excess item so MoreInList() eventually returns false.
			return err
		}
		i++
	}
	return s.ListEnd()
}

func (s *Stream) decodeStruct(v reflect.Value) error {
	if _, err := s.List(); err != nil {
		return err
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("rlp") == "-" {
			continue
		}
		if err := s.decodeInto(v.Field(i)); err != nil {
			return err
		}
	}
	return s.ListEnd()
}
