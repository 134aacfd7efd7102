package nativetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

func TestShim_Compiles(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	native := New()
	compiled, err := r.CompileModule(ctx, native.Shim())
	require.NoError(t, err)

	exports := compiled.ExportedFunctions()
	for _, sym := range native.Symbols() {
		assert.Contains(t, exports, sym)
	}
	for _, sym := range protocol.RuntimeExports {
		assert.Contains(t, exports, sym)
	}
	assert.Contains(t, exports, SymbolConsoleGreeting)
	assert.Contains(t, compiled.ExportedMemories(), "memory")
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "icu4x_Locale_from_string_mv1", New().Symbol("Locale", "from_string"))
	assert.Equal(t, "x_Date_year", NewWithRename("x_{0}").Symbol("Date", "year"))
}

func TestStart_AllocAndFree(t *testing.T) {
	ctx := context.Background()
	inst, native := Start(t)

	res, err := inst.Call(ctx, protocol.SymbolAlloc, 12, 4)
	require.NoError(t, err)
	ptr := res[0]
	assert.NotZero(t, ptr)
	assert.Zero(t, ptr%4)
	assert.Equal(t, 1, native.LiveAllocations())

	_, err = inst.Call(ctx, protocol.SymbolFree, ptr, 12, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, native.LiveAllocations())

	// A second free traps.
	_, err = inst.Call(ctx, protocol.SymbolFree, ptr, 12, 4)
	assert.Error(t, err)
}

func TestStart_GrowsMemory(t *testing.T) {
	ctx := context.Background()
	inst, _ := Start(t)

	before := inst.Memory().Size()
	res, err := inst.Call(ctx, protocol.SymbolAlloc, uint64(before), 1)
	require.NoError(t, err)
	assert.NotZero(t, res[0])
	assert.Greater(t, inst.Memory().Size(), before)
}

func TestDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.340", "12.340"},
		{"-0.5", "-0.5"},
		{"007.50", "7.50"},
		{"+42", "42"},
	}
	for _, tt := range tests {
		d, _, ok := parseDecimal(tt.in)
		require.True(t, ok, tt.in)
		assert.Equal(t, tt.want, d.String())
	}

	d := decimalFromInt(5)
	d.exp -= 3
	d.trim()
	assert.Equal(t, "0.005", d.String())
	assert.Equal(t, uint8(5), d.digitAt(-3))
	assert.Equal(t, uint8(0), d.digitAt(2))

	_, code, ok := parseDecimal("1e5")
	assert.False(t, ok)
	assert.Equal(t, decimalParseErrorSyntax, code)
}

func TestParseOffset(t *testing.T) {
	cases := map[string]int32{"Z": 0, "+05:30": 19800, "-0800": -28800, "+01": 3600}
	for in, want := range cases {
		got, ok := parseOffset(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "05:00", "+19:00", "+01:60", "UTC"} {
		_, ok := parseOffset(bad)
		assert.False(t, ok, bad)
	}
}
