package icu4x

import (
	"context"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// CaseMapper performs locale-sensitive case mapping.
type CaseMapper struct {
	lib *Library
	h   *diplomat.Handle
}

// NewCaseMapper loads case mapping data from p.
func (l *Library) NewCaseMapper(ctx context.Context, p *DataProvider) (*CaseMapper, error) {
	h, err := tryCreate(ctx, l, "CaseMapper", "create", dataErrorCodec, borrowed([]*diplomat.Handle{p.h}))
	if err != nil {
		return nil, err
	}
	return &CaseMapper{lib: l, h: h}, nil
}

// Lowercase returns the full lowercase mapping of s under loc. s must be
// well-formed UTF-8; otherwise a *diplomat.Utf8Error is returned and the
// library is not called.
func (m *CaseMapper) Lowercase(ctx context.Context, s string, loc *Locale) (string, error) {
	return m.mapString(ctx, "lowercase", s, loc)
}

// Uppercase is Lowercase for the uppercase mapping.
func (m *CaseMapper) Uppercase(ctx context.Context, s string, loc *Locale) (string, error) {
	return m.mapString(ctx, "uppercase", s, loc)
}

// SimpleLowercase maps a single code point.
func (m *CaseMapper) SimpleLowercase(ctx context.Context, r rune) (rune, error) {
	return m.mapRune(ctx, "simple_lowercase", r)
}

// SimpleUppercase maps a single code point.
func (m *CaseMapper) SimpleUppercase(ctx context.Context, r rune) (rune, error) {
	return m.mapRune(ctx, "simple_uppercase", r)
}

// Close destroys the native case mapper. It is safe to call more than once.
func (m *CaseMapper) Close(ctx context.Context) error {
	return m.h.Close(ctx)
}

func (m *CaseMapper) mapString(ctx context.Context, method, s string, loc *Locale) (string, error) {
	if err := diplomat.CheckStr(s); err != nil {
		return "", err
	}
	return diplomat.Do(ctx, m.lib.lib, func(f *diplomat.Frame) (string, error) {
		params, err := withStr(m.h, s)(f)
		if err != nil {
			return "", err
		}
		locp, err := loc.h.Borrow(f)
		if err != nil {
			return "", err
		}
		return diplomat.WriteString(f, m.lib.Symbol("CaseMapper", method), append(params, locp)...)
	})
}

func (m *CaseMapper) mapRune(ctx context.Context, method string, r rune) (rune, error) {
	v, err := call32(ctx, m.lib, m.h, "CaseMapper", method, uint64(uint32(r)))
	return rune(v), err
}
