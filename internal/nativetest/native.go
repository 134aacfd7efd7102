// Package nativetest provides an in-process stand-in for an ICU4X wasm32
// build. Go host functions implement the Diplomat runtime exports and a
// subset of the icu4x symbols over the guest's memory, and a synthesized
// shim module re-exports them so that host functions see the shim as
// their caller.
//
// The fixture counts every call and every destroy, and tracks live
// allocations, so tests can observe ownership and marshaling from the
// native side.
package nativetest

import (
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

const (
	// HostModule is the import module the shim links against.
	HostModule = "icu4x_native"

	// DefaultRename is the symbol pattern of ICU4X 1.5 builds.
	DefaultRename = "icu4x_{0}_mv1"

	heapBase  uint32 = 1024
	pageSize  uint32 = 65536
	shimPages uint32 = 2
)

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

var (
	ptrOrEnum  = protocol.NewResultLayout(protocol.LayoutPtr, protocol.LayoutEnum)
	ptrOrUnit  = protocol.NewResultLayout(protocol.LayoutPtr, protocol.LayoutUnit)
	unitOrEnum = protocol.NewResultLayout(protocol.LayoutUnit, protocol.LayoutEnum)
	unitOrUnit = protocol.NewResultLayout(protocol.LayoutUnit, protocol.LayoutUnit)
	i32OrUnit  = protocol.NewResultLayout(protocol.LayoutU32, protocol.LayoutUnit)
	boolOrUnit = protocol.NewResultLayout(protocol.LayoutBool, protocol.LayoutUnit)
)

type hostFunc struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
	impl    func(mod api.Module, stack []uint64)
}

type writeBuf struct {
	data       []byte
	mirror     uint32
	mirrorSize uint32
}

// Native is the fake library state. One Native backs one shim instance.
type Native struct {
	rename string
	funcs  []hostFunc

	mu       sync.Mutex
	next     uint32
	live     map[uint32]uint32
	objects  map[uint32]any
	writes   map[uint32]*writeBuf
	calls    map[string]int
	destroys map[uint32]int
}

// New builds a fixture using DefaultRename.
func New() *Native {
	return NewWithRename(DefaultRename)
}

// NewWithRename builds a fixture whose symbols follow rename, where {0}
// stands for Type_method.
func NewWithRename(rename string) *Native {
	n := &Native{
		rename:   rename,
		next:     heapBase,
		live:     make(map[uint32]uint32),
		objects:  make(map[uint32]any),
		writes:   make(map[uint32]*writeBuf),
		calls:    make(map[string]int),
		destroys: make(map[uint32]int),
	}
	n.defineRuntime()
	n.defineProvider()
	n.defineLocale()
	n.defineDecimal()
	n.defineTimeZone()
	n.defineCalendar()
	n.defineCaseMapper()
	n.defineProperties()
	return n
}

// Symbol returns the exported name of Type_method.
func (n *Native) Symbol(typ, method string) string {
	return strings.ReplaceAll(n.rename, "{0}", typ+"_"+method)
}

// Symbols returns every exported symbol, sorted.
func (n *Native) Symbols() []string {
	names := make([]string, 0, len(n.funcs))
	for _, f := range n.funcs {
		names = append(names, f.name)
	}
	sort.Strings(names)
	return names
}

// Export adds every native function to builder.
func (n *Native) Export(builder wazero.HostModuleBuilder) {
	for _, f := range n.funcs {
		f := f
		fn := api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			n.mu.Lock()
			defer n.mu.Unlock()
			n.calls[f.name]++
			f.impl(mod, stack)
		})
		builder.NewFunctionBuilder().
			WithGoModuleFunction(fn, f.params, f.results).
			Export(f.name)
	}
}

// Calls returns how often symbol was called.
func (n *Native) Calls(symbol string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[symbol]
}

// TotalCalls returns the number of calls across all symbols.
func (n *Native) TotalCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, c := range n.calls {
		total += c
	}
	return total
}

// Destroys returns how often the object at ptr was destroyed.
func (n *Native) Destroys(ptr uint32) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.destroys[ptr]
}

// TotalDestroys returns the number of destroy calls across all objects.
func (n *Native) TotalDestroys() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, c := range n.destroys {
		total += c
	}
	return total
}

// LiveAllocations returns the number of outstanding diplomat_alloc blocks
// and write buffers.
func (n *Native) LiveAllocations() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.live) + len(n.writes)
}

// LiveObjects returns the number of objects not yet destroyed.
func (n *Native) LiveObjects() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.objects)
}

// ResetCounts clears call and destroy counters.
func (n *Native) ResetCounts() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = make(map[string]int)
	n.destroys = make(map[uint32]int)
}

func (n *Native) define(name string, params, results []api.ValueType, impl func(mod api.Module, stack []uint64)) {
	n.funcs = append(n.funcs, hostFunc{name: name, params: params, results: results, impl: impl})
}

func (n *Native) method(typ, method string, params, results []api.ValueType, impl func(mod api.Module, stack []uint64)) {
	n.define(n.Symbol(typ, method), params, results, impl)
}

// destructor defines Type_destroy, which fails loudly on a second destroy.
func (n *Native) destructor(typ string) {
	n.method(typ, "destroy", []api.ValueType{i32}, nil, func(_ api.Module, stack []uint64) {
		ptr := uint32(stack[0])
		if _, ok := n.objects[ptr]; !ok {
			panic(fmt.Sprintf("%s_destroy: unknown or already destroyed object %d", typ, ptr))
		}
		n.destroys[ptr]++
		delete(n.objects, ptr)
	})
}

func (n *Native) alloc(mod api.Module, size, align uint32) uint32 {
	ptr := protocol.AlignTo(n.next, max(align, 1))
	end := ptr + max(size, 1)
	mem := mod.Memory()
	if end > mem.Size() {
		pages := (end - mem.Size() + pageSize - 1) / pageSize
		if _, ok := mem.Grow(pages); !ok {
			return 0
		}
	}
	n.next = end
	return ptr
}

func (n *Native) newObject(mod api.Module, v any) uint32 {
	ptr := n.alloc(mod, 8, 4)
	if ptr == 0 {
		panic("out of memory")
	}
	n.objects[ptr] = v
	return ptr
}

func object[T any](n *Native, ptr uint64) T {
	v, ok := n.objects[uint32(ptr)]
	if !ok {
		panic(fmt.Sprintf("use of unknown or destroyed object %d", ptr))
	}
	t, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("object %d has type %T", ptr, v))
	}
	return t
}

func (n *Native) appendWrite(w uint64, s string) {
	buf, ok := n.writes[uint32(w)]
	if !ok {
		panic(fmt.Sprintf("append to unknown write buffer %d", w))
	}
	buf.data = append(buf.data, s...)
}

func readStr(mod api.Module, ptr, length uint64) string {
	if length == 0 {
		return ""
	}
	b, ok := mod.Memory().Read(uint32(ptr), uint32(length))
	if !ok {
		panic(fmt.Sprintf("string span out of range (ptr=%d, len=%d)", ptr, length))
	}
	return string(b)
}

func putResult(mod api.Module, sret uint64, layout protocol.ResultLayout, tag byte, payload []byte) {
	mem := mod.Memory()
	if len(payload) > 0 && !mem.Write(uint32(sret), payload) {
		panic("receive buffer out of range")
	}
	if !mem.WriteByte(uint32(sret)+layout.TagOffset, tag) {
		panic("receive buffer out of range")
	}
}

func putOk(mod api.Module, sret uint64, layout protocol.ResultLayout, payload []byte) {
	putResult(mod, sret, layout, protocol.TagOk, payload)
}

func putErr(mod api.Module, sret uint64, layout protocol.ResultLayout, payload []byte) {
	putResult(mod, sret, layout, protocol.TagErr, payload)
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func boolResult(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func params(n int) []api.ValueType {
	p := make([]api.ValueType, n)
	for i := range p {
		p[i] = i32
	}
	return p
}

var one = []api.ValueType{i32}
