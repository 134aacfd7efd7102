package icu4x

import (
	"context"
	"errors"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// CodePointSetData is a set of code points sharing a binary property.
type CodePointSetData struct {
	lib *Library
	h   *diplomat.Handle
}

// LoadForECMA262 loads the property named as in ECMA-262 regular
// expressions, e.g. "Alphabetic" or "Lu". A name that is not well-formed
// UTF-8 yields a *diplomat.Utf8Error without calling the library; an
// unknown name yields a DataError.
func (l *Library) LoadForECMA262(ctx context.Context, p *DataProvider, name string) (*CodePointSetData, error) {
	var created *diplomat.Handle
	guarded, err := diplomat.GuardStr(name, func() (diplomat.Result[*diplomat.Handle, DataError], error) {
		r, err := diplomat.Do(ctx, l.lib, func(f *diplomat.Frame) (diplomat.Result[*diplomat.Handle, DataError], error) {
			params, err := withStr(p.h, name)(f)
			if err != nil {
				return diplomat.Result[*diplomat.Handle, DataError]{}, err
			}
			return diplomat.CallConstructor(f, l.Symbol("CodePointSetData", "load_for_ecma262"),
				l.Symbol("CodePointSetData", "destroy"), dataErrorCodec, params...)
		})
		created, _ = r.OkValue()
		return r, err
	})
	if err != nil {
		if created != nil {
			return nil, errors.Join(err, created.Close(ctx))
		}
		return nil, err
	}
	h, err := diplomat.Flatten(guarded)
	if err != nil {
		return nil, err
	}
	return &CodePointSetData{lib: l, h: h}, nil
}

// Contains reports whether r is in the set.
func (s *CodePointSetData) Contains(ctx context.Context, r rune) (bool, error) {
	v, err := call32(ctx, s.lib, s.h, "CodePointSetData", "contains", uint64(uint32(r)))
	return v != 0, err
}

// Close destroys the native set. It is safe to call more than once.
func (s *CodePointSetData) Close(ctx context.Context) error {
	return s.h.Close(ctx)
}
