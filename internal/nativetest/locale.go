package nativetest

import (
	"strings"

	"github.com/tetratelabs/wazero/api"
	"golang.org/x/text/language"
)

// Raw LocaleParseError codes.
const (
	localeParseErrorUnknown  uint32 = 0
	localeParseErrorLanguage uint32 = 1
	localeParseErrorSubtag   uint32 = 2
)

type locale struct {
	tag language.Tag
}

func parseLocale(s string) (language.Tag, uint32, bool) {
	tag, err := language.Parse(s)
	if err == nil {
		return tag, 0, true
	}
	first, _, _ := strings.Cut(strings.ReplaceAll(s, "_", "-"), "-")
	if _, berr := language.ParseBase(first); berr == nil {
		return language.Tag{}, localeParseErrorSubtag, false
	}
	return language.Tag{}, localeParseErrorLanguage, false
}

func basename(tag language.Tag) string {
	s := tag.String()
	for _, sep := range []string{"-u-", "-t-", "-x-"} {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	return s
}

func (n *Native) defineLocale() {
	n.method("Locale", "from_string", params(3), nil, func(mod api.Module, stack []uint64) {
		tag, code, ok := parseLocale(readStr(mod, stack[1], stack[2]))
		if !ok {
			putErr(mod, stack[0], ptrOrEnum, le32(code))
			return
		}
		putOk(mod, stack[0], ptrOrEnum, le32(n.newObject(mod, &locale{tag: tag})))
	})

	n.method("Locale", "und", nil, one, func(mod api.Module, stack []uint64) {
		stack[0] = uint64(n.newObject(mod, &locale{tag: language.Und}))
	})

	n.method("Locale", "clone", one, one, func(mod api.Module, stack []uint64) {
		l := object[*locale](n, stack[0])
		stack[0] = uint64(n.newObject(mod, &locale{tag: l.tag}))
	})

	n.method("Locale", "basename", params(2), nil, func(_ api.Module, stack []uint64) {
		n.appendWrite(stack[1], basename(object[*locale](n, stack[0]).tag))
	})

	n.method("Locale", "language", params(2), nil, func(_ api.Module, stack []uint64) {
		base, _ := object[*locale](n, stack[0]).tag.Base()
		n.appendWrite(stack[1], base.String())
	})

	n.method("Locale", "region", params(3), nil, func(mod api.Module, stack []uint64) {
		region, conf := object[*locale](n, stack[1]).tag.Region()
		if conf != language.Exact {
			putErr(mod, stack[0], unitOrUnit, nil)
			return
		}
		n.appendWrite(stack[2], region.String())
		putOk(mod, stack[0], unitOrUnit, nil)
	})

	n.method("Locale", "get_unicode_extension", params(5), nil, func(mod api.Module, stack []uint64) {
		l := object[*locale](n, stack[1])
		value := l.tag.TypeForKey(readStr(mod, stack[2], stack[3]))
		if value == "" {
			putErr(mod, stack[0], unitOrUnit, nil)
			return
		}
		n.appendWrite(stack[4], value)
		putOk(mod, stack[0], unitOrUnit, nil)
	})

	n.method("Locale", "set_language", params(4), nil, func(mod api.Module, stack []uint64) {
		l := object[*locale](n, stack[1])
		base, err := language.ParseBase(readStr(mod, stack[2], stack[3]))
		if err != nil {
			putErr(mod, stack[0], unitOrEnum, le32(localeParseErrorLanguage))
			return
		}
		tag, err := language.Compose(l.tag, base)
		if err != nil {
			putErr(mod, stack[0], unitOrEnum, le32(localeParseErrorUnknown))
			return
		}
		l.tag = tag
		putOk(mod, stack[0], unitOrEnum, nil)
	})

	n.method("Locale", "to_string", params(2), nil, func(_ api.Module, stack []uint64) {
		n.appendWrite(stack[1], object[*locale](n, stack[0]).tag.String())
	})

	n.method("Locale", "normalizing_eq", params(3), one, func(mod api.Module, stack []uint64) {
		l := object[*locale](n, stack[0])
		other, _, ok := parseLocale(readStr(mod, stack[1], stack[2]))
		stack[0] = boolResult(ok && other.String() == l.tag.String())
	})

	n.destructor("Locale")
}
