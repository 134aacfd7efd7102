package diplomat

import (
	"errors"
	"fmt"
)

var (
	// ErrNullHandle is returned when a constructor hands back a null pointer.
	ErrNullHandle = errors.New("diplomat: native constructor returned a null handle")

	// ErrHandleClosed is returned when a destroyed handle is used.
	ErrHandleClosed = errors.New("diplomat: handle already destroyed")
)

// AllocError occurs when diplomat_alloc returns null.
type AllocError struct {
	Size  uint32
	Align uint32
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("diplomat: allocation of %d bytes (align %d) failed", e.Size, e.Align)
}

// MemoryError occurs when a payload lies outside the library's memory.
type MemoryError struct {
	Op     string
	Offset uint32
	Length uint32
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("diplomat: %s out of range (offset=%d, len=%d)", e.Op, e.Offset, e.Length)
}

// TagError occurs when a receive buffer carries a discriminant other than
// 0 or 1.
type TagError struct {
	Offset uint32
	Tag    byte
}

func (e *TagError) Error() string {
	return fmt.Sprintf("diplomat: invalid result discriminant %d at offset %d", e.Tag, e.Offset)
}

// NoResultError occurs when a symbol expected to return a value returned
// nothing.
type NoResultError struct {
	Symbol string
}

func (e *NoResultError) Error() string {
	return fmt.Sprintf("diplomat: %s returned no value", e.Symbol)
}
