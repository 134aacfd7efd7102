package diplomat

import (
	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// CallResult invokes a fallible symbol. A receive buffer sized for
// Result<T, E> is passed as the first parameter and decoded after the call.
func CallResult[T, E any](f *Frame, symbol string, ok Codec[T], errc Codec[E], params ...uint64) (Result[T, E], error) {
	layout := protocol.NewResultLayout(ok.Layout, errc.Layout)
	sret, err := f.Alloc(layout.Size, layout.Align)
	if err != nil {
		return Result[T, E]{}, err
	}

	args := make([]uint64, 0, len(params)+1)
	args = append(args, uint64(sret))
	args = append(args, params...)
	if err := CallVoid(f.ctx, f.lib, symbol, args...); err != nil {
		return Result[T, E]{}, err
	}
	return ReadResult(f.lib.Memory(), sret, ok, errc)
}

// CallOption invokes a symbol returning Option<T>.
func CallOption[T any](f *Frame, symbol string, c Codec[T], params ...uint64) (Option[T], error) {
	r, err := CallResult(f, symbol, c, UnitCodec, params...)
	if err != nil {
		return None[T](), err
	}
	if v, ok := r.OkValue(); ok {
		return Some(v), nil
	}
	return None[T](), nil
}

// CallConstructor invokes a fallible constructor and adopts the returned
// pointer. No handle exists on the error path.
func CallConstructor[E any](f *Frame, symbol, destroy string, errc Codec[E], params ...uint64) (Result[*Handle, E], error) {
	r, err := CallResult(f, symbol, PtrCodec, errc, params...)
	if err != nil {
		return Result[*Handle, E]{}, err
	}
	if e, failed := r.ErrValue(); failed {
		return Err[*Handle](e), nil
	}
	ptr, _ := r.OkValue()
	h, err := Adopt(f.lib, ptr, destroy)
	if err != nil {
		return Result[*Handle, E]{}, err
	}
	return Ok[*Handle, E](h), nil
}
