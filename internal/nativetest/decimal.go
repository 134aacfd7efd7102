package nativetest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero/api"
)

// Raw FixedDecimalParseError codes.
const (
	decimalParseErrorLimit  uint32 = 1
	decimalParseErrorSyntax uint32 = 2
)

const maxDecimalDigits = 64

var decimalSyntax = regexp.MustCompile(`^([+-])?(\d+)(?:\.(\d+))?$`)

// decimal is digits × 10^exp, keeping trailing zeros as written.
type decimal struct {
	neg    bool
	digits []byte
	exp    int
}

func newDecimal(neg bool, digits string, exp int) *decimal {
	d := &decimal{neg: neg, digits: []byte(digits), exp: exp}
	d.trim()
	return d
}

func decimalFromInt(v int64) *decimal {
	neg := v < 0
	abs := uint64(v)
	if neg {
		abs = -abs
	}
	return newDecimal(neg, strconv.FormatUint(abs, 10), 0)
}

func parseDecimal(s string) (*decimal, uint32, bool) {
	m := decimalSyntax.FindStringSubmatch(s)
	if m == nil {
		return nil, decimalParseErrorSyntax, false
	}
	if len(m[2])+len(m[3]) > maxDecimalDigits {
		return nil, decimalParseErrorLimit, false
	}
	return newDecimal(m[1] == "-", m[2]+m[3], -len(m[3])), 0, true
}

// trim drops leading zeros of the integer part, keeping one.
func (d *decimal) trim() {
	for len(d.digits) > 1 && d.digits[0] == '0' && len(d.digits)+min(d.exp, 0) > 1 {
		d.digits = d.digits[1:]
	}
}

func (d *decimal) String() string {
	digits := string(d.digits)
	var s string
	if d.exp >= 0 {
		s = digits + strings.Repeat("0", d.exp)
	} else {
		frac := -d.exp
		if len(digits) <= frac {
			digits = strings.Repeat("0", frac-len(digits)+1) + digits
		}
		s = digits[:len(digits)-frac] + "." + digits[len(digits)-frac:]
	}
	if d.neg {
		return "-" + s
	}
	return s
}

func (d *decimal) digitAt(magnitude int) uint8 {
	idx := len(d.digits) - 1 - (magnitude - d.exp)
	if idx < 0 || idx >= len(d.digits) {
		return 0
	}
	return d.digits[idx] - '0'
}

func (d *decimal) isZero() bool {
	for _, c := range d.digits {
		if c != '0' {
			return false
		}
	}
	return true
}

func (n *Native) defineDecimal() {
	n.method("FixedDecimal", "from_int32", one, one, func(mod api.Module, stack []uint64) {
		stack[0] = uint64(n.newObject(mod, decimalFromInt(int64(int32(stack[0])))))
	})

	n.method("FixedDecimal", "from_int64", []api.ValueType{i64}, one, func(mod api.Module, stack []uint64) {
		stack[0] = uint64(n.newObject(mod, decimalFromInt(int64(stack[0]))))
	})

	n.method("FixedDecimal", "from_string", params(3), nil, func(mod api.Module, stack []uint64) {
		d, code, ok := parseDecimal(readStr(mod, stack[1], stack[2]))
		if !ok {
			putErr(mod, stack[0], ptrOrEnum, le32(code))
			return
		}
		putOk(mod, stack[0], ptrOrEnum, le32(n.newObject(mod, d)))
	})

	n.method("FixedDecimal", "multiply_pow10", params(2), nil, func(_ api.Module, stack []uint64) {
		d := object[*decimal](n, stack[0])
		d.exp += int(int16(int32(stack[1])))
		d.trim()
	})

	n.method("FixedDecimal", "digit_at", params(2), one, func(_ api.Module, stack []uint64) {
		d := object[*decimal](n, stack[0])
		stack[0] = uint64(d.digitAt(int(int16(int32(stack[1])))))
	})

	n.method("FixedDecimal", "is_zero", one, one, func(_ api.Module, stack []uint64) {
		stack[0] = boolResult(object[*decimal](n, stack[0]).isZero())
	})

	n.method("FixedDecimal", "to_string", params(2), nil, func(_ api.Module, stack []uint64) {
		n.appendWrite(stack[1], object[*decimal](n, stack[0]).String())
	})

	n.destructor("FixedDecimal")
}
