package diplomat

import (
	"github.com/woxQAQ/icu4x-go/pkg/protocol"
)

// Result is a discriminated value holding either an Ok payload or an Err
// payload, never both.
type Result[T, E any] struct {
	ok   T
	err  E
	isOk bool
}

// Ok builds a successful result.
func Ok[T, E any](v T) Result[T, E] {
	return Result[T, E]{ok: v, isOk: true}
}

// Err builds a failed result.
func Err[T, E any](e E) Result[T, E] {
	return Result[T, E]{err: e}
}

// IsOk reports whether the result carries the Ok branch.
func (r Result[T, E]) IsOk() bool {
	return r.isOk
}

// OkValue returns the Ok payload and whether it is present.
func (r Result[T, E]) OkValue() (T, bool) {
	return r.ok, r.isOk
}

// ErrValue returns the Err payload and whether it is present.
func (r Result[T, E]) ErrValue() (E, bool) {
	return r.err, !r.isOk
}

// Get converts a result whose error branch is a Go error into the usual
// (value, error) pair.
func Get[T any, E error](r Result[T, E]) (T, error) {
	if r.isOk {
		return r.ok, nil
	}
	var zero T
	return zero, r.err
}

// Option is a value that may be absent. On the wire it is Result<T, ()>.
type Option[T any] struct {
	v    T
	some bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] {
	return Option[T]{v: v, some: true}
}

// None returns an absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.v, o.some
}

// IsSome reports whether a value is present.
func (o Option[T]) IsSome() bool {
	return o.some
}

// OrElse returns the value, or def when absent.
func (o Option[T]) OrElse(def T) T {
	if o.some {
		return o.v
	}
	return def
}

// ReadResult decodes the result struct at ptr. Only the branch selected by
// the trailing discriminant is read.
func ReadResult[T, E any](mem Memory, ptr uint32, ok Codec[T], errc Codec[E]) (Result[T, E], error) {
	layout := protocol.NewResultLayout(ok.Layout, errc.Layout)
	tagAt := ptr + layout.TagOffset
	tag, valid := mem.ReadByte(tagAt)
	if !valid {
		return Result[T, E]{}, &MemoryError{Op: "read discriminant", Offset: tagAt, Length: 1}
	}

	switch tag {
	case protocol.TagOk:
		v, err := readPayload(mem, ptr, ok)
		if err != nil {
			return Result[T, E]{}, err
		}
		return Ok[T, E](v), nil
	case protocol.TagErr:
		e, err := readPayload(mem, ptr, errc)
		if err != nil {
			return Result[T, E]{}, err
		}
		return Err[T, E](e), nil
	default:
		return Result[T, E]{}, &TagError{Offset: tagAt, Tag: tag}
	}
}

// ReadOption decodes an Option<T> at ptr.
func ReadOption[T any](mem Memory, ptr uint32, c Codec[T]) (Option[T], error) {
	r, err := ReadResult(mem, ptr, c, UnitCodec)
	if err != nil {
		return None[T](), err
	}
	if v, ok := r.OkValue(); ok {
		return Some(v), nil
	}
	return None[T](), nil
}

func readPayload[T any](mem Memory, ptr uint32, c Codec[T]) (T, error) {
	if c.Layout.Size == 0 {
		return c.Decode(nil), nil
	}
	b, ok := mem.Read(ptr, c.Layout.Size)
	if !ok {
		var zero T
		return zero, &MemoryError{Op: "read payload", Offset: ptr, Length: c.Layout.Size}
	}
	return c.Decode(b), nil
}
