package diplomat

import (
	"context"
	"errors"
	"runtime"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// danglingPtr stands in for the pointer of an empty borrowed span. It is
// non-null and aligned for bytes, and it is never dereferenced.
const danglingPtr uint32 = 1

type allocation struct {
	ptr   uint32
	size  uint32
	align uint32
}

// Frame scopes the temporary guest memory of one call: receive buffers,
// borrowed input spans and write buffers. Release frees all of it, so
// nothing borrowed outlives the call.
type Frame struct {
	ctx    context.Context
	lib    Library
	allocs []allocation
	writes []uint32
	// Handles lent to the frame's calls.
	borrowed []*Handle
}

// NewFrame starts a frame for calls into lib.
func NewFrame(ctx context.Context, lib Library) *Frame {
	return &Frame{ctx: ctx, lib: lib}
}

// Do runs fn inside a fresh frame and releases the frame afterwards.
func Do[T any](ctx context.Context, lib Library, fn func(f *Frame) (T, error)) (T, error) {
	f := NewFrame(ctx, lib)
	v, err := fn(f)
	if rerr := f.Release(); rerr != nil && err == nil {
		err = rerr
	}
	return v, err
}

// Context returns the context calls in this frame run under.
func (f *Frame) Context() context.Context {
	return f.ctx
}

// Library returns the library this frame calls into.
func (f *Frame) Library() Library {
	return f.lib
}

// Alloc reserves guest memory that lives until Release.
func (f *Frame) Alloc(size, align uint32) (uint32, error) {
	ptr, err := Alloc(f.ctx, f.lib, size, align)
	if err != nil {
		return 0, err
	}
	f.allocs = append(f.allocs, allocation{ptr: ptr, size: size, align: align})
	return ptr, nil
}

// Bytes copies b into guest memory and returns the borrowed span.
func (f *Frame) Bytes(b []byte) (protocol.Span, error) {
	if len(b) == 0 {
		return protocol.Span{Ptr: danglingPtr}, nil
	}
	size := uint32(len(b))
	ptr, err := f.Alloc(size, 1)
	if err != nil {
		return protocol.Span{}, err
	}
	if !f.lib.Memory().Write(ptr, b) {
		return protocol.Span{}, &MemoryError{Op: "write span", Offset: ptr, Length: size}
	}
	return protocol.Span{Ptr: ptr, Len: size}, nil
}

// Str copies s into guest memory and returns the borrowed span. The bytes
// are passed as-is; validated parameters go through GuardStr first.
func (f *Frame) Str(s string) (protocol.Span, error) {
	return f.Bytes([]byte(s))
}

// Release destroys the frame's write buffers and frees its allocations in
// reverse order. The frame is empty afterwards.
func (f *Frame) Release() error {
	var errs []error
	for i := len(f.writes) - 1; i >= 0; i-- {
		if err := CallVoid(f.ctx, f.lib, protocol.SymbolWriteDestroy, uint64(f.writes[i])); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(f.allocs) - 1; i >= 0; i-- {
		a := f.allocs[i]
		if err := Free(f.ctx, f.lib, a.ptr, a.size, a.align); err != nil {
			errs = append(errs, err)
		}
	}
	f.writes = f.writes[:0]
	f.allocs = f.allocs[:0]
	runtime.KeepAlive(f.borrowed)
	f.borrowed = nil
	return errors.Join(errs...)
}
