package diplomat

import (
	"fmt"
	"unicode/utf8"
)

// Utf8Error reports a string parameter that is not well-formed UTF-8. It
// is produced on the host before any native call is made.
type Utf8Error struct {
	// Offset is the byte index of the first invalid sequence.
	Offset int
}

func (e *Utf8Error) Error() string {
	return fmt.Sprintf("diplomat: invalid UTF-8 at byte offset %d", e.Offset)
}

// CheckStr validates s for a parameter the native side treats as &str.
func CheckStr(s string) error {
	if utf8.ValidString(s) {
		return nil
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return &Utf8Error{Offset: i}
		}
		i += size
	}
	return nil
}

// CheckBytes is CheckStr for byte slices.
func CheckBytes(b []byte) error {
	if utf8.Valid(b) {
		return nil
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return &Utf8Error{Offset: i}
		}
		i += size
	}
	return nil
}

// GuardStr runs call only when s is well-formed UTF-8. The outer result
// carries the pre-check failure; the inner one is the native result. On
// invalid input call is never invoked.
func GuardStr[T, E any](s string, call func() (Result[T, E], error)) (Result[Result[T, E], *Utf8Error], error) {
	if err := CheckStr(s); err != nil {
		return Err[Result[T, E]](err.(*Utf8Error)), nil
	}
	inner, err := call()
	if err != nil {
		return Result[Result[T, E], *Utf8Error]{}, err
	}
	return Ok[Result[T, E], *Utf8Error](inner), nil
}

// Flatten collapses a guarded result into (value, error). The error is a
// *Utf8Error from the pre-check or the native error value.
func Flatten[T any, E error](r Result[Result[T, E], *Utf8Error]) (T, error) {
	if u, failed := r.ErrValue(); failed {
		var zero T
		return zero, u
	}
	inner, _ := r.OkValue()
	return Get(inner)
}
