package diplomat

import (
	"context"
	"runtime"
	"sync"
)

// Handle owns one opaque native object. The object is destroyed exactly
// once: by Close, or by the garbage collector if Close was never called.
//
// Borrowing the pointer for a call does not transfer ownership. A handle
// must not be closed while a call borrowing it is in flight. Calls borrow
// through a Frame with Borrow, which keeps the handle reachable until the
// frame is released; a bare pointer from Ptr does not.
type Handle struct {
	lib     Library
	destroy string

	mu      sync.Mutex
	ptr     uint32
	cleanup runtime.Cleanup
}

type orphan struct {
	lib     Library
	ptr     uint32
	destroy string
}

func releaseOrphan(o orphan) {
	_ = CallVoid(context.Background(), o.lib, o.destroy, uint64(o.ptr))
}

// Adopt takes ownership of ptr, which destroy releases.
func Adopt(lib Library, ptr uint32, destroy string) (*Handle, error) {
	if ptr == 0 {
		return nil, ErrNullHandle
	}
	h := &Handle{lib: lib, ptr: ptr, destroy: destroy}
	h.cleanup = runtime.AddCleanup(h, releaseOrphan, orphan{lib: lib, ptr: ptr, destroy: destroy})
	return h, nil
}

// AdoptResult adopts the pointer returned by an infallible constructor.
func AdoptResult(lib Library, destroy string) func(ptr uint32, err error) (*Handle, error) {
	return func(ptr uint32, err error) (*Handle, error) {
		if err != nil {
			return nil, err
		}
		return Adopt(lib, ptr, destroy)
	}
}

// Ptr borrows the native pointer.
func (h *Handle) Ptr() (uint32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ptr == 0 {
		return 0, ErrHandleClosed
	}
	return h.ptr, nil
}

// Param borrows the native pointer as a call parameter.
func (h *Handle) Param() (uint64, error) {
	ptr, err := h.Ptr()
	return uint64(ptr), err
}

// Borrow lends the native pointer to the calls made in f. The handle
// cannot be collected, and so not destroyed by its cleanup, before f is
// released.
func (h *Handle) Borrow(f *Frame) (uint64, error) {
	p, err := h.Param()
	if err != nil {
		return 0, err
	}
	f.borrowed = append(f.borrowed, h)
	return p, nil
}

// Closed reports whether the object has been destroyed.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ptr == 0
}

// Close destroys the native object. Further calls are no-ops. The handle
// is marked closed before the destroy call, so a failed destroy is
// reported but not retried and the native object leaks.
func (h *Handle) Close(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ptr == 0 {
		return nil
	}
	ptr := h.ptr
	h.ptr = 0
	h.cleanup.Stop()
	return CallVoid(ctx, h.lib, h.destroy, uint64(ptr))
}
