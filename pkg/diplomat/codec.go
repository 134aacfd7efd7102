package diplomat

import (
	"encoding/binary"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// Codec describes how a payload of type T is laid out in a receive buffer
// and how to decode it. Decode receives exactly Layout.Size bytes and must
// not retain them.
type Codec[T any] struct {
	Layout protocol.Layout
	Decode func(b []byte) T
}

// Unit is the empty payload of Result<(), E> and Result<T, ()>.
type Unit struct{}

// ZeroSized returns a codec for payloads without data, such as Unit or
// zero-sized error structs.
func ZeroSized[T any]() Codec[T] {
	return Codec[T]{
		Layout: protocol.LayoutUnit,
		Decode: func([]byte) T {
			var zero T
			return zero
		},
	}
}

// UnitCodec decodes the empty payload.
var UnitCodec = ZeroSized[Unit]()

// BoolCodec decodes a one-byte bool.
var BoolCodec = Codec[bool]{
	Layout: protocol.LayoutBool,
	Decode: func(b []byte) bool { return b[0] != 0 },
}

// U16Codec decodes a little-endian uint16.
var U16Codec = Codec[uint16]{
	Layout: protocol.LayoutU16,
	Decode: binary.LittleEndian.Uint16,
}

// I32Codec decodes a little-endian int32.
var I32Codec = Codec[int32]{
	Layout: protocol.LayoutU32,
	Decode: func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) },
}

// I64Codec decodes a little-endian int64.
var I64Codec = Codec[int64]{
	Layout: protocol.LayoutU64,
	Decode: func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) },
}

// CharCodec decodes a Unicode scalar value.
var CharCodec = Codec[rune]{
	Layout: protocol.LayoutChar,
	Decode: func(b []byte) rune { return rune(binary.LittleEndian.Uint32(b)) },
}

// PtrCodec decodes an opaque pointer.
var PtrCodec = Codec[uint32]{
	Layout: protocol.LayoutPtr,
	Decode: binary.LittleEndian.Uint32,
}

// EnumCodec decodes a C enum, which is an int32 on wasm32.
func EnumCodec[E ~int32]() Codec[E] {
	return Codec[E]{
		Layout: protocol.LayoutEnum,
		Decode: func(b []byte) E { return E(int32(binary.LittleEndian.Uint32(b))) },
	}
}
