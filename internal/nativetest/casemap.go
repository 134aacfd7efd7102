package nativetest

import (
	"unicode"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"
	"golang.org/x/text/cases"
)

type caseMapper struct{}

// validatedStr reads a &str parameter. The caller promised well-formed
// UTF-8, so anything else is a contract violation.
func validatedStr(mod api.Module, ptr, length uint64) string {
	s := readStr(mod, ptr, length)
	if !utf8.ValidString(s) {
		panic("&str parameter is not valid UTF-8")
	}
	return s
}

func (n *Native) defineCaseMapper() {
	n.method("CaseMapper", "create", params(2), nil, func(mod api.Module, stack []uint64) {
		if !object[*provider](n, stack[1]).compiled {
			putErr(mod, stack[0], ptrOrEnum, le32(dataErrorMissingDataMarker))
			return
		}
		putOk(mod, stack[0], ptrOrEnum, le32(n.newObject(mod, &caseMapper{})))
	})

	// (self, s, s_len, locale, write)
	n.method("CaseMapper", "lowercase", params(5), nil, func(mod api.Module, stack []uint64) {
		object[*caseMapper](n, stack[0])
		s := validatedStr(mod, stack[1], stack[2])
		tag := object[*locale](n, stack[3]).tag
		n.appendWrite(stack[4], cases.Lower(tag).String(s))
	})

	n.method("CaseMapper", "uppercase", params(5), nil, func(mod api.Module, stack []uint64) {
		object[*caseMapper](n, stack[0])
		s := validatedStr(mod, stack[1], stack[2])
		tag := object[*locale](n, stack[3]).tag
		n.appendWrite(stack[4], cases.Upper(tag).String(s))
	})

	n.method("CaseMapper", "simple_lowercase", params(2), one, func(_ api.Module, stack []uint64) {
		object[*caseMapper](n, stack[0])
		stack[0] = uint64(unicode.ToLower(rune(stack[1])))
	})

	n.method("CaseMapper", "simple_uppercase", params(2), one, func(_ api.Module, stack []uint64) {
		object[*caseMapper](n, stack[0])
		stack[0] = uint64(unicode.ToUpper(rune(stack[1])))
	})

	n.destructor("CaseMapper")
}
