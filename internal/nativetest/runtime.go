package nativetest

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

func (n *Native) defineRuntime() {
	n.define(protocol.SymbolAlloc, params(2), one, func(mod api.Module, stack []uint64) {
		size, align := uint32(stack[0]), uint32(stack[1])
		ptr := n.alloc(mod, size, align)
		if ptr != 0 {
			n.live[ptr] = size
		}
		stack[0] = uint64(ptr)
	})

	n.define(protocol.SymbolFree, params(3), nil, func(_ api.Module, stack []uint64) {
		ptr, size := uint32(stack[0]), uint32(stack[1])
		got, ok := n.live[ptr]
		if !ok {
			panic(fmt.Sprintf("diplomat_free: %d was not allocated or is already free", ptr))
		}
		if got != size {
			panic(fmt.Sprintf("diplomat_free: %d allocated with %d bytes, freed with %d", ptr, got, size))
		}
		delete(n.live, ptr)
	})

	n.define(protocol.SymbolWriteCreate, one, one, func(mod api.Module, stack []uint64) {
		ptr := n.alloc(mod, 16, 4)
		n.writes[ptr] = &writeBuf{data: make([]byte, 0, stack[0])}
		stack[0] = uint64(ptr)
	})

	n.define(protocol.SymbolWriteLen, one, one, func(_ api.Module, stack []uint64) {
		buf, ok := n.writes[uint32(stack[0])]
		if !ok {
			panic(fmt.Sprintf("diplomat_buffer_write_len: unknown buffer %d", stack[0]))
		}
		stack[0] = uint64(len(buf.data))
	})

	n.define(protocol.SymbolWriteGetBytes, one, one, func(mod api.Module, stack []uint64) {
		buf, ok := n.writes[uint32(stack[0])]
		if !ok {
			panic(fmt.Sprintf("diplomat_buffer_write_get_bytes: unknown buffer %d", stack[0]))
		}
		size := uint32(len(buf.data))
		if buf.mirror == 0 || buf.mirrorSize < size {
			buf.mirror = n.alloc(mod, size, 1)
			buf.mirrorSize = size
		}
		mod.Memory().Write(buf.mirror, buf.data)
		stack[0] = uint64(buf.mirror)
	})

	n.define(protocol.SymbolWriteDestroy, one, nil, func(_ api.Module, stack []uint64) {
		ptr := uint32(stack[0])
		if _, ok := n.writes[ptr]; !ok {
			panic(fmt.Sprintf("diplomat_buffer_write_destroy: unknown or destroyed buffer %d", ptr))
		}
		delete(n.writes, ptr)
	})
}
