package diplomat

import (
	"context"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// Memory is a view over the native library's linear memory.
type Memory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
	ReadByte(offset uint32) (byte, bool)
	ReadUint32Le(offset uint32) (uint32, bool)
	Size() uint32
}

// Library is a loaded native library reachable through exported symbols.
// Parameters and results use the wasm value encoding: i32 values travel in
// the low 32 bits of a uint64.
type Library interface {
	Call(ctx context.Context, symbol string, params ...uint64) ([]uint64, error)
	Memory() Memory
}

// Alloc reserves size bytes aligned to align in the library's heap.
func Alloc(ctx context.Context, lib Library, size, align uint32) (uint32, error) {
	ptr, err := Call32(ctx, lib, protocol.SymbolAlloc, uint64(size), uint64(align))
	if err != nil {
		return 0, err
	}
	if ptr == 0 {
		return 0, &AllocError{Size: size, Align: align}
	}
	return ptr, nil
}

// Free returns memory obtained from Alloc.
func Free(ctx context.Context, lib Library, ptr, size, align uint32) error {
	_, err := lib.Call(ctx, protocol.SymbolFree, uint64(ptr), uint64(size), uint64(align))
	return err
}

// Call32 invokes a symbol returning a single i32: an opaque pointer, a
// bool, a char, an enum or an integer up to 32 bits.
func Call32(ctx context.Context, lib Library, symbol string, params ...uint64) (uint32, error) {
	res, err := lib.Call(ctx, symbol, params...)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, &NoResultError{Symbol: symbol}
	}
	return uint32(res[0]), nil
}

// CallVoid invokes a symbol for its side effect.
func CallVoid(ctx context.Context, lib Library, symbol string, params ...uint64) error {
	_, err := lib.Call(ctx, symbol, params...)
	return err
}

// Bool encodes a bool parameter.
func Bool(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// I32 encodes a signed 32-bit parameter.
func I32(v int32) uint64 {
	return uint64(uint32(v))
}

// I64 encodes a signed 64-bit parameter.
func I64(v int64) uint64 {
	return uint64(v)
}
