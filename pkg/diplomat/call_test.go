package diplomat

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

const (
	symParse   = "lib_Thing_parse"
	symDestroy = "lib_Thing_destroy"
	symFormat  = "lib_Thing_format"
	symTryName = "lib_Thing_try_name"
)

// installThing registers a parser that accepts "ok*" strings.
func installThing(lib *fakeLib) map[uint32]int {
	destroyed := make(map[uint32]int)
	layout := protocol.NewResultLayout(protocol.LayoutPtr, protocol.LayoutEnum)
	lib.funcs[symParse] = func(p []uint64) []uint64 {
		s := lib.readStr(p[1], p[2])
		if strings.HasPrefix(s, "ok") {
			lib.putResult(p[0], layout, protocol.TagOk, le32(lib.alloc(8, 4)))
		} else {
			lib.putResult(p[0], layout, protocol.TagErr, le32(2))
		}
		return nil
	}
	lib.funcs[symDestroy] = func(p []uint64) []uint64 {
		destroyed[uint32(p[0])]++
		delete(lib.live, uint32(p[0]))
		return nil
	}
	lib.funcs[symFormat] = func(p []uint64) []uint64 {
		lib.appendWrite(p[1], "hello, ")
		lib.appendWrite(p[1], "wörld")
		return nil
	}
	unit := protocol.NewResultLayout(protocol.LayoutUnit, protocol.LayoutEnum)
	lib.funcs[symTryName] = func(p []uint64) []uint64 {
		lib.appendWrite(p[2], "partial")
		if p[1] == 0 {
			lib.putResult(p[0], unit, protocol.TagErr, le32(1))
		} else {
			lib.putResult(p[0], unit, protocol.TagOk, nil)
		}
		return nil
	}
	return destroyed
}

func parseThing(ctx context.Context, lib Library, s string) (Result[*Handle, testEnum], error) {
	return Do(ctx, lib, func(f *Frame) (Result[*Handle, testEnum], error) {
		span, err := f.Str(s)
		if err != nil {
			return Result[*Handle, testEnum]{}, err
		}
		return CallConstructor(f, symParse, symDestroy, EnumCodec[testEnum](), span.Params()...)
	})
}

func TestCallConstructor_SingleOwnership(t *testing.T) {
	ctx := context.Background()
	lib := newFakeLib()
	destroyed := installThing(lib)

	r, err := parseThing(ctx, lib, "ok-thing")
	require.NoError(t, err)
	h, ok := r.OkValue()
	require.True(t, ok)

	ptr, err := h.Ptr()
	require.NoError(t, err)

	require.NoError(t, h.Close(ctx))
	require.NoError(t, h.Close(ctx))
	assert.Equal(t, 1, destroyed[ptr])
	assert.True(t, h.Closed())

	_, err = h.Ptr()
	assert.ErrorIs(t, err, ErrHandleClosed)
	assert.Empty(t, lib.live, "receive buffer, input span and object must all be released")
}

func TestCallConstructor_ErrorPathCreatesNoHandle(t *testing.T) {
	ctx := context.Background()
	lib := newFakeLib()
	destroyed := installThing(lib)

	r, err := parseThing(ctx, lib, "nope")
	require.NoError(t, err)
	e, failed := r.ErrValue()
	require.True(t, failed)
	assert.Equal(t, testEnum(2), e)
	assert.Empty(t, destroyed)
	assert.Zero(t, lib.calls[symDestroy])
	assert.Empty(t, lib.live)
}

func TestAdopt_Null(t *testing.T) {
	_, err := Adopt(newFakeLib(), 0, symDestroy)
	assert.ErrorIs(t, err, ErrNullHandle)
}

func TestFrame_EmptySpanSkipsAllocation(t *testing.T) {
	ctx := context.Background()
	lib := newFakeLib()
	f := NewFrame(ctx, lib)

	span, err := f.Str("")
	require.NoError(t, err)
	assert.Equal(t, uint32(0), span.Len)
	assert.NotZero(t, span.Ptr)
	assert.Zero(t, lib.calls[protocol.SymbolAlloc])
	require.NoError(t, f.Release())
}

func TestFrame_SpanCopiesBytes(t *testing.T) {
	ctx := context.Background()
	lib := newFakeLib()
	f := NewFrame(ctx, lib)

	span, err := f.Str("en-US")
	require.NoError(t, err)
	assert.Equal(t, "en-US", lib.readStr(uint64(span.Ptr), uint64(span.Len)))
	assert.Len(t, lib.live, 1)

	require.NoError(t, f.Release())
	assert.Empty(t, lib.live)
	assert.Equal(t, 1, lib.calls[protocol.SymbolFree])
}

func TestFrame_AllocFailure(t *testing.T) {
	lib := newFakeLib()
	lib.failNext = true
	f := NewFrame(context.Background(), lib)

	_, err := f.Alloc(8, 4)
	var allocErr *AllocError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, uint32(8), allocErr.Size)
}

func TestCallWrite_Completeness(t *testing.T) {
	ctx := context.Background()
	lib := newFakeLib()
	installThing(lib)

	s, err := Do(ctx, lib, func(f *Frame) (string, error) {
		return WriteString(f, symFormat, 42)
	})
	require.NoError(t, err)
	assert.Equal(t, "hello, wörld", s)
	assert.Equal(t, 1, lib.calls[protocol.SymbolWriteDestroy])
	assert.Empty(t, lib.live)
}

func TestCallResultWrite_DiscardsOnFailure(t *testing.T) {
	ctx := context.Background()
	lib := newFakeLib()
	installThing(lib)

	var out strings.Builder
	r, err := Do(ctx, lib, func(f *Frame) (Result[Unit, testEnum], error) {
		return CallResultWrite(f, &out, symTryName, EnumCodec[testEnum](), 0)
	})
	require.NoError(t, err)
	assert.False(t, r.IsOk())
	assert.Empty(t, out.String())

	r, err = Do(ctx, lib, func(f *Frame) (Result[Unit, testEnum], error) {
		return CallResultWrite(f, &out, symTryName, EnumCodec[testEnum](), 1)
	})
	require.NoError(t, err)
	assert.True(t, r.IsOk())
	assert.Equal(t, "partial", out.String())
	assert.Empty(t, lib.live)
}

func TestCall32_NoResult(t *testing.T) {
	lib := newFakeLib()
	lib.funcs["void"] = func([]uint64) []uint64 { return nil }

	_, err := Call32(context.Background(), lib, "void")
	var noResult *NoResultError
	require.ErrorAs(t, err, &noResult)
	assert.Equal(t, "void", noResult.Symbol)
}
