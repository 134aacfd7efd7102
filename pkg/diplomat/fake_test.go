package diplomat

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

type fakeMemory struct {
	buf []byte
}

func (m *fakeMemory) Read(offset, n uint32) ([]byte, bool) {
	if uint64(offset)+uint64(n) > uint64(len(m.buf)) {
		return nil, false
	}
	return m.buf[offset : offset+n], true
}

func (m *fakeMemory) Write(offset uint32, v []byte) bool {
	if uint64(offset)+uint64(len(v)) > uint64(len(m.buf)) {
		return false
	}
	copy(m.buf[offset:], v)
	return true
}

func (m *fakeMemory) ReadByte(offset uint32) (byte, bool) {
	if offset >= uint32(len(m.buf)) {
		return 0, false
	}
	return m.buf[offset], true
}

func (m *fakeMemory) ReadUint32Le(offset uint32) (uint32, bool) {
	b, ok := m.Read(offset, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (m *fakeMemory) Size() uint32 {
	return uint32(len(m.buf))
}

type fakeWrite struct {
	data   []byte
	mirror uint32
}

// fakeLib is an in-process library with a bump allocator. Symbols are Go
// closures over the same memory.
type fakeLib struct {
	mu       sync.Mutex
	mem      *fakeMemory
	next     uint32
	failNext bool
	live     map[uint32]uint32
	writes   map[uint32]*fakeWrite
	funcs    map[string]func(params []uint64) []uint64
	calls    map[string]int
}

func newFakeLib() *fakeLib {
	l := &fakeLib{
		mem:    &fakeMemory{buf: make([]byte, 1<<16)},
		next:   64,
		live:   make(map[uint32]uint32),
		writes: make(map[uint32]*fakeWrite),
		funcs:  make(map[string]func([]uint64) []uint64),
		calls:  make(map[string]int),
	}
	l.funcs[protocol.SymbolAlloc] = func(p []uint64) []uint64 {
		if l.failNext {
			l.failNext = false
			return []uint64{0}
		}
		return []uint64{uint64(l.alloc(uint32(p[0]), uint32(p[1])))}
	}
	l.funcs[protocol.SymbolFree] = func(p []uint64) []uint64 {
		ptr := uint32(p[0])
		if _, ok := l.live[ptr]; !ok {
			panic(fmt.Sprintf("free of unknown pointer %d", ptr))
		}
		delete(l.live, ptr)
		return nil
	}
	l.funcs[protocol.SymbolWriteCreate] = func(p []uint64) []uint64 {
		ptr := l.alloc(4, 4)
		l.writes[ptr] = &fakeWrite{data: make([]byte, 0, p[0])}
		return []uint64{uint64(ptr)}
	}
	l.funcs[protocol.SymbolWriteLen] = func(p []uint64) []uint64 {
		return []uint64{uint64(len(l.writes[uint32(p[0])].data))}
	}
	l.funcs[protocol.SymbolWriteGetBytes] = func(p []uint64) []uint64 {
		w := l.writes[uint32(p[0])]
		if w.mirror == 0 {
			w.mirror = l.alloc(uint32(max(len(w.data), 1)), 1)
		}
		l.mem.Write(w.mirror, w.data)
		return []uint64{uint64(w.mirror)}
	}
	l.funcs[protocol.SymbolWriteDestroy] = func(p []uint64) []uint64 {
		ptr := uint32(p[0])
		w, ok := l.writes[ptr]
		if !ok {
			panic(fmt.Sprintf("destroy of unknown write buffer %d", ptr))
		}
		if w.mirror != 0 {
			delete(l.live, w.mirror)
		}
		delete(l.writes, ptr)
		delete(l.live, ptr)
		return nil
	}
	return l
}

func (l *fakeLib) alloc(size, align uint32) uint32 {
	ptr := protocol.AlignTo(l.next, max(align, 1))
	l.next = ptr + max(size, 1)
	l.live[ptr] = size
	return ptr
}

func (l *fakeLib) Call(_ context.Context, symbol string, params ...uint64) ([]uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn, ok := l.funcs[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	l.calls[symbol]++
	return fn(params), nil
}

// count reads a call counter. Safe while cleanups run.
func (l *fakeLib) count(symbol string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[symbol]
}

func (l *fakeLib) Memory() Memory {
	return l.mem
}

func (l *fakeLib) appendWrite(ptr uint64, s string) {
	w := l.writes[uint32(ptr)]
	w.data = append(w.data, s...)
}

func (l *fakeLib) putResult(sret uint64, layout protocol.ResultLayout, tag byte, payload []byte) {
	l.mem.Write(uint32(sret), payload)
	l.mem.buf[uint32(sret)+layout.TagOffset] = tag
}

func (l *fakeLib) readStr(ptr, n uint64) string {
	b, _ := l.mem.Read(uint32(ptr), uint32(n))
	return string(b)
}

func le32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}
