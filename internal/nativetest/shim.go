package nativetest

import (
	"github.com/tetratelabs/wazero/api"
)

// Exports of the shim that exercise the env imports.
const (
	SymbolConsoleGreeting = "nativetest_console_greeting"
	SymbolPanic           = "nativetest_panic"

	// Greeting is logged through diplomat_console_log_js.
	Greeting = "hello from the guest"
	// PanicMessage is passed to diplomat_throw_error_js.
	PanicMessage = "guest panicked"

	envModule      = "env"
	envConsoleLog  = "diplomat_console_log_js"
	envThrowError  = "diplomat_throw_error_js"
	greetingOffset = 16
	panicOffset    = 64
)

type shimImport struct {
	module  string
	name    string
	params  []api.ValueType
	results []api.ValueType
}

// Shim builds the wasm32 module that stands in for the native library.
// It defines and exports memory, imports every host function and exports
// a wrapper for each that forwards its parameters.
func (n *Native) Shim() []byte {
	imports := []shimImport{
		{module: envModule, name: envConsoleLog, params: params(2)},
		{module: envModule, name: envThrowError, params: params(2)},
	}
	for _, f := range n.funcs {
		imports = append(imports, shimImport{module: HostModule, name: f.name, params: f.params, results: f.results})
	}
	nimp := uint32(len(imports))

	// Type i serves import i and its wrapper; the env wrappers take no
	// parameters and use two extra types.
	var types []byte
	types = append(types, uleb(nimp+1)...)
	for _, imp := range imports {
		types = append(types, funcType(imp.params, imp.results)...)
	}
	voidType := nimp
	types = append(types, funcType(nil, nil)...)

	var imps []byte
	imps = append(imps, uleb(nimp)...)
	for i, imp := range imports {
		imps = append(imps, name(imp.module)...)
		imps = append(imps, name(imp.name)...)
		imps = append(imps, 0x00)
		imps = append(imps, uleb(uint32(i))...)
	}

	// Wrappers: two env callers, then one per host function.
	wrappers := 2 + len(n.funcs)
	var funcs []byte
	funcs = append(funcs, uleb(uint32(wrappers))...)
	funcs = append(funcs, uleb(voidType)...)
	funcs = append(funcs, uleb(voidType)...)
	for i := range n.funcs {
		funcs = append(funcs, uleb(uint32(2+i))...)
	}

	var mem []byte
	mem = append(mem, 0x01, 0x00)
	mem = append(mem, uleb(shimPages)...)

	var exports []byte
	exports = append(exports, uleb(uint32(wrappers+1))...)
	exports = append(exports, name("memory")...)
	exports = append(exports, 0x02, 0x00)
	exports = append(exports, name(SymbolConsoleGreeting)...)
	exports = append(exports, 0x00)
	exports = append(exports, uleb(nimp)...)
	exports = append(exports, name(SymbolPanic)...)
	exports = append(exports, 0x00)
	exports = append(exports, uleb(nimp+1)...)
	for i, f := range n.funcs {
		exports = append(exports, name(f.name)...)
		exports = append(exports, 0x00)
		exports = append(exports, uleb(nimp+2+uint32(i))...)
	}

	var code []byte
	code = append(code, uleb(uint32(wrappers))...)
	code = append(code, body(constCall(greetingOffset, len(Greeting), 0))...)
	code = append(code, body(constCall(panicOffset, len(PanicMessage), 1))...)
	for i, f := range n.funcs {
		var instr []byte
		for p := range f.params {
			instr = append(instr, 0x20)
			instr = append(instr, uleb(uint32(p))...)
		}
		instr = append(instr, 0x10)
		instr = append(instr, uleb(uint32(2+i))...)
		code = append(code, body(instr)...)
	}

	var data []byte
	data = append(data, 0x02)
	data = append(data, segment(greetingOffset, Greeting)...)
	data = append(data, segment(panicOffset, PanicMessage)...)

	var wasm []byte
	wasm = append(wasm, 0x00, 0x61, 0x73, 0x6d)
	wasm = append(wasm, 0x01, 0x00, 0x00, 0x00)
	wasm = append(wasm, section(0x01, types)...)
	wasm = append(wasm, section(0x02, imps)...)
	wasm = append(wasm, section(0x03, funcs)...)
	wasm = append(wasm, section(0x05, mem)...)
	wasm = append(wasm, section(0x07, exports)...)
	wasm = append(wasm, section(0x0a, code)...)
	wasm = append(wasm, section(0x0b, data)...)
	return wasm
}

func funcType(params, results []api.ValueType) []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint32(len(params)))...)
	out = append(out, params...)
	out = append(out, uleb(uint32(len(results)))...)
	return append(out, results...)
}

// constCall is i32.const ptr; i32.const len; call idx.
func constCall(ptr, length int, idx uint32) []byte {
	out := []byte{0x41}
	out = append(out, sleb(int32(ptr))...)
	out = append(out, 0x41)
	out = append(out, sleb(int32(length))...)
	out = append(out, 0x10)
	return append(out, uleb(idx)...)
}

func body(instr []byte) []byte {
	// No locals, then the instructions and end.
	b := append([]byte{0x00}, instr...)
	b = append(b, 0x0b)
	return append(uleb(uint32(len(b))), b...)
}

func segment(offset int, s string) []byte {
	out := []byte{0x00, 0x41}
	out = append(out, sleb(int32(offset))...)
	out = append(out, 0x0b)
	out = append(out, uleb(uint32(len(s)))...)
	return append(out, s...)
}

func section(id byte, content []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(content)))...)
	return append(out, content...)
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}
