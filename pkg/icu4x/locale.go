package icu4x

import (
	"context"
	"io"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// Locale is a parsed Unicode locale identifier.
type Locale struct {
	lib *Library
	h   *diplomat.Handle
}

// ParseLocale parses a BCP-47 locale identifier.
func (l *Library) ParseLocale(ctx context.Context, s string) (*Locale, error) {
	h, err := tryCreate(ctx, l, "Locale", "from_string", localeParseErrorCodec, strArgs(s))
	if err != nil {
		return nil, err
	}
	return &Locale{lib: l, h: h}, nil
}

// UndLocale returns the root locale "und".
func (l *Library) UndLocale(ctx context.Context) (*Locale, error) {
	h, err := l.create(ctx, "Locale", "und")
	if err != nil {
		return nil, err
	}
	return &Locale{lib: l, h: h}, nil
}

// Clone returns an independently owned copy.
func (loc *Locale) Clone(ctx context.Context) (*Locale, error) {
	h, err := loc.lib.derive(ctx, loc.h, "Locale", "clone", "Locale")
	if err != nil {
		return nil, err
	}
	return &Locale{lib: loc.lib, h: h}, nil
}

// Basename returns the language, script, region and variants without
// extensions.
func (loc *Locale) Basename(ctx context.Context) (string, error) {
	return loc.lib.writeString(ctx, loc.h, "Locale", "basename")
}

// Language returns the language subtag.
func (loc *Locale) Language(ctx context.Context) (string, error) {
	return loc.lib.writeString(ctx, loc.h, "Locale", "language")
}

// Region returns the region subtag, if one was given.
func (loc *Locale) Region(ctx context.Context) (string, bool, error) {
	return loc.lib.writeOption(ctx, "Locale", "region", borrowed([]*diplomat.Handle{loc.h}))
}

// UnicodeExtension returns the value of the -u- keyword key.
func (loc *Locale) UnicodeExtension(ctx context.Context, key string) (string, bool, error) {
	return loc.lib.writeOption(ctx, "Locale", "get_unicode_extension", withStr(loc.h, key))
}

// SetLanguage replaces the language subtag in place.
func (loc *Locale) SetLanguage(ctx context.Context, language string) error {
	return tryCall(ctx, loc.lib, "Locale", "set_language", localeParseErrorCodec, withStr(loc.h, language))
}

// ToString returns the canonical identifier.
func (loc *Locale) ToString(ctx context.Context) (string, error) {
	return loc.lib.writeString(ctx, loc.h, "Locale", "to_string")
}

// WriteTo writes the canonical identifier to w.
func (loc *Locale) WriteTo(ctx context.Context, w io.Writer) error {
	_, err := diplomat.Do(ctx, loc.lib.lib, func(f *diplomat.Frame) (diplomat.Unit, error) {
		self, err := loc.h.Borrow(f)
		if err != nil {
			return diplomat.Unit{}, err
		}
		return diplomat.Unit{}, diplomat.CallWrite(f, w, loc.lib.Symbol("Locale", "to_string"), self)
	})
	return err
}

// NormalizingEq reports whether s parses to the same identifier. Strings
// that do not parse compare unequal.
func (loc *Locale) NormalizingEq(ctx context.Context, s string) (bool, error) {
	return diplomat.Do(ctx, loc.lib.lib, func(f *diplomat.Frame) (bool, error) {
		params, err := withStr(loc.h, s)(f)
		if err != nil {
			return false, err
		}
		v, err := diplomat.Call32(ctx, loc.lib.lib, loc.lib.Symbol("Locale", "normalizing_eq"), params...)
		return v != 0, err
	})
}

// Close destroys the native locale. It is safe to call more than once.
func (loc *Locale) Close(ctx context.Context) error {
	return loc.h.Close(ctx)
}

// strArgs passes s as the only parameter after the receive buffer.
func strArgs(s string) func(f *diplomat.Frame) ([]uint64, error) {
	return func(f *diplomat.Frame) ([]uint64, error) {
		span, err := f.Str(s)
		if err != nil {
			return nil, err
		}
		return span.Params(), nil
	}
}
