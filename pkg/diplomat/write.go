package diplomat

import (
	"io"
	"strings"

	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// DefaultWriteCapacity is the initial capacity requested for native write
// buffers. They grow on demand.
const DefaultWriteCapacity = 16

// Write is a native write buffer lent to one call. The callee appends
// UTF-8 to it; the host copies the result out with Flush.
type Write struct {
	f   *Frame
	ptr uint32
}

// NewWrite creates a native write buffer destroyed when the frame is
// released.
func (f *Frame) NewWrite(capacity uint32) (*Write, error) {
	ptr, err := Call32(f.ctx, f.lib, protocol.SymbolWriteCreate, uint64(capacity))
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, &AllocError{Size: capacity, Align: 1}
	}
	f.writes = append(f.writes, ptr)
	return &Write{f: f, ptr: ptr}, nil
}

// Param returns the buffer pointer as a call parameter.
func (w *Write) Param() uint64 {
	return uint64(w.ptr)
}

// Len returns the number of bytes the callee appended.
func (w *Write) Len() (uint32, error) {
	return Call32(w.f.ctx, w.f.lib, protocol.SymbolWriteLen, uint64(w.ptr))
}

// Flush copies the bytes the callee appended into out, in append order.
func (w *Write) Flush(out io.Writer) (int, error) {
	n, err := w.Len()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	data, err := Call32(w.f.ctx, w.f.lib, protocol.SymbolWriteGetBytes, uint64(w.ptr))
	if err != nil {
		return 0, err
	}
	b, ok := w.f.lib.Memory().Read(data, n)
	if !ok {
		return 0, &MemoryError{Op: "read write buffer", Offset: data, Length: n}
	}
	return out.Write(b)
}

// CallWrite invokes an infallible string-producing symbol. A fresh write
// buffer is appended as the last parameter and its contents are copied
// into out.
func CallWrite(f *Frame, out io.Writer, symbol string, params ...uint64) error {
	w, err := f.NewWrite(DefaultWriteCapacity)
	if err != nil {
		return err
	}
	if err := CallVoid(f.ctx, f.lib, symbol, withWrite(params, w)...); err != nil {
		return err
	}
	_, err = w.Flush(out)
	return err
}

// CallResultWrite invokes a fallible string-producing symbol. Output
// reaches out only when the call succeeds; on failure it is discarded.
func CallResultWrite[E any](f *Frame, out io.Writer, symbol string, errc Codec[E], params ...uint64) (Result[Unit, E], error) {
	w, err := f.NewWrite(DefaultWriteCapacity)
	if err != nil {
		return Result[Unit, E]{}, err
	}
	r, err := CallResult(f, symbol, UnitCodec, errc, withWrite(params, w)...)
	if err != nil || !r.IsOk() {
		return r, err
	}
	if _, err := w.Flush(out); err != nil {
		return Result[Unit, E]{}, err
	}
	return r, nil
}

// CallOptionWrite invokes a string-producing symbol returning Option<()>.
// It reports whether a value was written.
func CallOptionWrite(f *Frame, out io.Writer, symbol string, params ...uint64) (bool, error) {
	r, err := CallResultWrite(f, out, symbol, UnitCodec, params...)
	if err != nil {
		return false, err
	}
	return r.IsOk(), nil
}

// WriteString runs CallWrite into a fresh string.
func WriteString(f *Frame, symbol string, params ...uint64) (string, error) {
	var sb strings.Builder
	if err := CallWrite(f, &sb, symbol, params...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func withWrite(params []uint64, w *Write) []uint64 {
	args := make([]uint64, 0, len(params)+1)
	args = append(args, params...)
	return append(args, w.Param())
}
