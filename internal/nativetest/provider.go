package nativetest

import (
	"github.com/tetratelabs/wazero/api"
)

// Raw DataError codes.
const (
	dataErrorMissingDataMarker uint32 = 0x01
	dataErrorCustom            uint32 = 0x07
)

type provider struct {
	compiled bool
}

func (n *Native) defineProvider() {
	n.method("DataProvider", "compiled", nil, one, func(mod api.Module, stack []uint64) {
		stack[0] = uint64(n.newObject(mod, &provider{compiled: true}))
	})
	n.method("DataProvider", "empty", nil, one, func(mod api.Module, stack []uint64) {
		stack[0] = uint64(n.newObject(mod, &provider{}))
	})
	n.destructor("DataProvider")
}
