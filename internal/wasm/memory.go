package wasm

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
)

// Memory is a bounds-checked view over an instance's linear memory. It
// satisfies diplomat.Memory.
//
// Slices returned by Read alias guest memory and are only valid until the
// next call into the guest, which may grow and move it. ReadBytes and
// ReadString copy.
type Memory struct {
	mem api.Memory
}

// NewMemory creates a memory helper.
func NewMemory(module api.Module) *Memory {
	return &Memory{mem: module.Memory()}
}

// Read returns a view of byteCount bytes at offset.
func (m *Memory) Read(offset, byteCount uint32) ([]byte, bool) {
	return m.mem.Read(offset, byteCount)
}

// Write copies v into memory at offset.
func (m *Memory) Write(offset uint32, v []byte) bool {
	return m.mem.Write(offset, v)
}

// ReadByte reads a single byte.
func (m *Memory) ReadByte(offset uint32) (byte, bool) {
	return m.mem.ReadByte(offset)
}

// ReadUint32Le reads a little-endian uint32.
func (m *Memory) ReadUint32Le(offset uint32) (uint32, bool) {
	return m.mem.ReadUint32Le(offset)
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

// ReadBytes copies length bytes starting at ptr.
func (m *Memory) ReadBytes(ptr, length uint32) ([]byte, error) {
	buf, ok := m.mem.Read(ptr, length)
	if !ok {
		return nil, &MemoryAccessError{
			Operation: "read",
			Address:   ptr,
			Length:    length,
			Err:       fmt.Errorf("out of range of %d bytes", m.mem.Size()),
		}
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// ReadString copies a length-delimited string starting at ptr.
func (m *Memory) ReadString(ptr, length uint32) (string, error) {
	buf, err := m.ReadBytes(ptr, length)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
