package nativetest

import (
	"regexp"
	"strconv"

	"github.com/tetratelabs/wazero/api"
)

const maxOffsetSeconds = 18 * 60 * 60

var offsetSyntax = regexp.MustCompile(`^([+-])(\d{2})(?::?(\d{2}))?$`)

// knownZones is the subset of BCP-47 time zone ids the fixture accepts.
var knownZones = map[string]bool{
	"utc":   true,
	"gblon": true,
	"usnyc": true,
	"uslax": true,
	"jptyo": true,
	"deber": true,
	"frpar": true,
	"aumel": true,
	"inccu": true,
}

type timeZone struct {
	offset    int32
	hasOffset bool
	id        string
}

func parseOffset(s string) (int32, bool) {
	if s == "Z" {
		return 0, true
	}
	m := offsetSyntax.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if minutes >= 60 {
		return 0, false
	}
	secs := hours*3600 + minutes*60
	if secs > maxOffsetSeconds {
		return 0, false
	}
	if m[1] == "-" {
		secs = -secs
	}
	return int32(secs), true
}

func (n *Native) defineTimeZone() {
	n.method("CustomTimeZone", "from_string", params(3), nil, func(mod api.Module, stack []uint64) {
		offset, ok := parseOffset(readStr(mod, stack[1], stack[2]))
		if !ok {
			putErr(mod, stack[0], ptrOrUnit, nil)
			return
		}
		putOk(mod, stack[0], ptrOrUnit, le32(n.newObject(mod, &timeZone{offset: offset, hasOffset: true})))
	})

	n.method("CustomTimeZone", "utc", nil, one, func(mod api.Module, stack []uint64) {
		stack[0] = uint64(n.newObject(mod, &timeZone{hasOffset: true, id: "utc"}))
	})

	n.method("CustomTimeZone", "empty", nil, one, func(mod api.Module, stack []uint64) {
		stack[0] = uint64(n.newObject(mod, &timeZone{}))
	})

	n.method("CustomTimeZone", "try_set_gmt_offset_seconds", params(3), nil, func(mod api.Module, stack []uint64) {
		tz := object[*timeZone](n, stack[1])
		secs := int32(stack[2])
		if secs > maxOffsetSeconds || secs < -maxOffsetSeconds {
			putErr(mod, stack[0], unitOrUnit, nil)
			return
		}
		tz.offset, tz.hasOffset = secs, true
		putOk(mod, stack[0], unitOrUnit, nil)
	})

	n.method("CustomTimeZone", "clear_gmt_offset", one, nil, func(_ api.Module, stack []uint64) {
		tz := object[*timeZone](n, stack[0])
		tz.offset, tz.hasOffset = 0, false
	})

	n.method("CustomTimeZone", "gmt_offset_seconds", params(2), nil, func(mod api.Module, stack []uint64) {
		tz := object[*timeZone](n, stack[1])
		if !tz.hasOffset {
			putErr(mod, stack[0], i32OrUnit, nil)
			return
		}
		putOk(mod, stack[0], i32OrUnit, le32(uint32(tz.offset)))
	})

	n.method("CustomTimeZone", "is_gmt_offset_positive", params(2), nil, func(mod api.Module, stack []uint64) {
		tz := object[*timeZone](n, stack[1])
		if !tz.hasOffset {
			putErr(mod, stack[0], boolOrUnit, nil)
			return
		}
		putOk(mod, stack[0], boolOrUnit, []byte{byte(boolResult(tz.offset >= 0))})
	})

	n.method("CustomTimeZone", "try_set_time_zone_id", params(4), nil, func(mod api.Module, stack []uint64) {
		tz := object[*timeZone](n, stack[1])
		id := readStr(mod, stack[2], stack[3])
		if !knownZones[id] {
			putErr(mod, stack[0], unitOrUnit, nil)
			return
		}
		tz.id = id
		putOk(mod, stack[0], unitOrUnit, nil)
	})

	n.method("CustomTimeZone", "time_zone_id", params(3), nil, func(mod api.Module, stack []uint64) {
		tz := object[*timeZone](n, stack[1])
		if tz.id == "" {
			putErr(mod, stack[0], unitOrUnit, nil)
			return
		}
		n.appendWrite(stack[2], tz.id)
		putOk(mod, stack[0], unitOrUnit, nil)
	})

	n.destructor("CustomTimeZone")
}
