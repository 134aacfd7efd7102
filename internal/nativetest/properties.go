package nativetest

import (
	"unicode"

	"github.com/tetratelabs/wazero/api"
)

type codePointSet struct {
	table *unicode.RangeTable
}

func lookupProperty(name string) (*unicode.RangeTable, bool) {
	for _, tables := range []map[string]*unicode.RangeTable{
		unicode.Properties,
		unicode.Categories,
		unicode.Scripts,
	} {
		if t, ok := tables[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (n *Native) defineProperties() {
	n.method("CodePointSetData", "load_for_ecma262", params(4), nil, func(mod api.Module, stack []uint64) {
		p := object[*provider](n, stack[1])
		name := validatedStr(mod, stack[2], stack[3])
		if !p.compiled {
			putErr(mod, stack[0], ptrOrEnum, le32(dataErrorMissingDataMarker))
			return
		}
		table, ok := lookupProperty(name)
		if !ok {
			putErr(mod, stack[0], ptrOrEnum, le32(dataErrorCustom))
			return
		}
		putOk(mod, stack[0], ptrOrEnum, le32(n.newObject(mod, &codePointSet{table: table})))
	})

	n.method("CodePointSetData", "contains", params(2), one, func(_ api.Module, stack []uint64) {
		set := object[*codePointSet](n, stack[0])
		stack[0] = boolResult(unicode.Is(set.table, rune(stack[1])))
	})

	n.destructor("CodePointSetData")
}
