// Package icu4x binds a representative set of ICU4X types over the
// Diplomat protocol. Every type owns a native object and must be closed.
package icu4x

import (
	"context"
	"errors"
	"strings"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// DefaultRename is the symbol pattern of ICU4X 1.5 builds. {0} stands for
// Type_method.
const DefaultRename = "icu4x_{0}_mv1"

// Library is a handle on one loaded ICU4X build.
type Library struct {
	lib    diplomat.Library
	rename string
}

// New binds lib, whose symbols follow rename. An empty rename selects
// DefaultRename.
func New(lib diplomat.Library, rename string) *Library {
	if rename == "" {
		rename = DefaultRename
	}
	return &Library{lib: lib, rename: rename}
}

// Native returns the underlying library.
func (l *Library) Native() diplomat.Library {
	return l.lib
}

// Symbol returns the exported name of Type_method.
func (l *Library) Symbol(typ, method string) string {
	return strings.ReplaceAll(l.rename, "{0}", typ+"_"+method)
}

// Close releases the underlying library if it can be closed. Objects
// created from it must be closed first.
func (l *Library) Close(ctx context.Context) error {
	if c, ok := l.lib.(interface{ Close(context.Context) error }); ok {
		return c.Close(ctx)
	}
	return nil
}

// create adopts the result of an infallible constructor.
func (l *Library) create(ctx context.Context, typ, method string, params ...uint64) (*diplomat.Handle, error) {
	adopt := diplomat.AdoptResult(l.lib, l.Symbol(typ, "destroy"))
	return adopt(diplomat.Call32(ctx, l.lib, l.Symbol(typ, method), params...))
}

// tryCreate runs a fallible constructor. args fills the parameters that
// follow the receive buffer.
func tryCreate[E error](ctx context.Context, l *Library, typ, method string, errc diplomat.Codec[E], args func(f *diplomat.Frame) ([]uint64, error)) (*diplomat.Handle, error) {
	h, err := diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (*diplomat.Handle, error) {
		params, err := args(f)
		if err != nil {
			return nil, err
		}
		r, err := diplomat.CallConstructor(f, l.Symbol(typ, method), l.Symbol(typ, "destroy"), errc, params...)
		if err != nil {
			return nil, err
		}
		return diplomat.Get(r)
	})
	if err != nil && h != nil {
		return nil, errors.Join(err, h.Close(ctx))
	}
	return h, err
}

// tryCall runs a fallible method returning Result<(), E>.
func tryCall[E error](ctx context.Context, l *Library, typ, method string, errc diplomat.Codec[E], args func(f *diplomat.Frame) ([]uint64, error)) error {
	_, err := diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (diplomat.Unit, error) {
		params, err := args(f)
		if err != nil {
			return diplomat.Unit{}, err
		}
		r, err := diplomat.CallResult(f, l.Symbol(typ, method), diplomat.UnitCodec, errc, params...)
		if err != nil {
			return diplomat.Unit{}, err
		}
		return diplomat.Get(r)
	})
	return err
}

// derive runs an infallible constructor that borrows self and returns an
// object released by the destroy of typ.
func (l *Library) derive(ctx context.Context, self *diplomat.Handle, owner, method, typ string) (*diplomat.Handle, error) {
	h, err := diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (*diplomat.Handle, error) {
		p, err := self.Borrow(f)
		if err != nil {
			return nil, err
		}
		ptr, err := diplomat.Call32(ctx, l.lib, l.Symbol(owner, method), p)
		return diplomat.AdoptResult(l.lib, l.Symbol(typ, "destroy"))(ptr, err)
	})
	if err != nil && h != nil {
		return nil, errors.Join(err, h.Close(ctx))
	}
	return h, err
}

// optional runs a method of self returning Option<T>.
func optional[T any](ctx context.Context, l *Library, self *diplomat.Handle, typ, method string, c diplomat.Codec[T], params ...uint64) (T, bool, error) {
	o, err := diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (diplomat.Option[T], error) {
		p, err := self.Borrow(f)
		if err != nil {
			return diplomat.Option[T]{}, err
		}
		return diplomat.CallOption(f, l.Symbol(typ, method), c, append([]uint64{p}, params...)...)
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := o.Get()
	return v, ok, nil
}

// writeString runs an infallible string-producing method of self.
func (l *Library) writeString(ctx context.Context, self *diplomat.Handle, typ, method string) (string, error) {
	return diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (string, error) {
		p, err := self.Borrow(f)
		if err != nil {
			return "", err
		}
		return diplomat.WriteString(f, l.Symbol(typ, method), p)
	})
}

// writeOption runs a string-producing method returning Option<()>.
func (l *Library) writeOption(ctx context.Context, typ, method string, args func(f *diplomat.Frame) ([]uint64, error)) (string, bool, error) {
	var sb strings.Builder
	ok, err := diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (bool, error) {
		params, err := args(f)
		if err != nil {
			return false, err
		}
		return diplomat.CallOptionWrite(f, &sb, l.Symbol(typ, method), params...)
	})
	if err != nil || !ok {
		return "", false, err
	}
	return sb.String(), true, nil
}

// call32 runs a plain method of self returning one 32-bit value.
func call32(ctx context.Context, l *Library, self *diplomat.Handle, typ, method string, params ...uint64) (uint32, error) {
	return diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (uint32, error) {
		p, err := self.Borrow(f)
		if err != nil {
			return 0, err
		}
		return diplomat.Call32(ctx, l.lib, l.Symbol(typ, method), append([]uint64{p}, params...)...)
	})
}

// callVoid runs a plain method of self returning nothing.
func callVoid(ctx context.Context, l *Library, self *diplomat.Handle, typ, method string, params ...uint64) error {
	_, err := diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (diplomat.Unit, error) {
		p, err := self.Borrow(f)
		if err != nil {
			return diplomat.Unit{}, err
		}
		return diplomat.Unit{}, diplomat.CallVoid(ctx, l.lib, l.Symbol(typ, method), append([]uint64{p}, params...)...)
	})
	return err
}

// borrow lends the pointers of handles to the calls of f.
func borrow(f *diplomat.Frame, handles ...*diplomat.Handle) ([]uint64, error) {
	params := make([]uint64, 0, len(handles))
	for _, h := range handles {
		p, err := h.Borrow(f)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// borrowed returns an args func passing handles, then params.
func borrowed(handles []*diplomat.Handle, params ...uint64) func(*diplomat.Frame) ([]uint64, error) {
	return func(f *diplomat.Frame) ([]uint64, error) {
		ps, err := borrow(f, handles...)
		if err != nil {
			return nil, err
		}
		return append(ps, params...), nil
	}
}

// withStr returns an args func passing self, then s as a span.
func withStr(self *diplomat.Handle, s string) func(*diplomat.Frame) ([]uint64, error) {
	return func(f *diplomat.Frame) ([]uint64, error) {
		p, err := self.Borrow(f)
		if err != nil {
			return nil, err
		}
		span, err := f.Str(s)
		if err != nil {
			return nil, err
		}
		return append([]uint64{p}, span.Params()...), nil
	}
}
