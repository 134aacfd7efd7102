package nativetest

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/tetratelabs/wazero/api"
)

// Raw AnyCalendarKind values of the calendars the fixture implements.
const (
	kindIso       uint32 = 0
	kindGregorian uint32 = 1
	kindBuddhist  uint32 = 2
)

// Raw CalendarError codes.
const (
	calendarErrorOutOfRange       uint32 = 1
	calendarErrorUnknownEra       uint32 = 2
	calendarErrorUnknownMonthCode uint32 = 3
)

// Raw CalendarParseError codes.
const (
	calendarParseErrorInvalidSyntax   uint32 = 1
	calendarParseErrorOutOfRange      uint32 = 2
	calendarParseErrorMissingFields   uint32 = 3
	calendarParseErrorUnknownCalendar uint32 = 4
)

const buddhistOffset = 543

var (
	isoDateSyntax  = regexp.MustCompile(`^([+-]?\d{4,6})-(\d{2})-(\d{2})(?:\[u-ca=([a-z0-9-]+)\])?$`)
	yearMonthOnly  = regexp.MustCompile(`^[+-]?\d{4,6}-\d{2}$`)
	monthCodeRegex = regexp.MustCompile(`^M(\d{2})$`)
)

var calendarKeywords = map[string]uint32{
	"":         kindGregorian,
	"gregory":  kindGregorian,
	"iso8601":  kindIso,
	"buddhist": kindBuddhist,
}

type calendar struct {
	kind uint32
}

type date struct {
	year  int
	month int
	day   int
	kind  uint32
}

func validISO(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// isoYear converts an era year to an ISO year.
func isoYear(kind uint32, era string, year int) (int, bool) {
	switch kind {
	case kindGregorian:
		switch era {
		case "ce", "gregory":
			return year, true
		case "bce", "gregory-inverse":
			return 1 - year, true
		}
	case kindIso:
		if era == "default" {
			return year, true
		}
	case kindBuddhist:
		if era == "be" {
			return year - buddhistOffset, true
		}
	}
	return 0, false
}

func (d *date) era() string {
	switch d.kind {
	case kindGregorian:
		if d.year > 0 {
			return "ce"
		}
		return "bce"
	case kindBuddhist:
		return "be"
	default:
		return "default"
	}
}

func (d *date) eraYear() int {
	switch d.kind {
	case kindGregorian:
		if d.year > 0 {
			return d.year
		}
		return 1 - d.year
	case kindBuddhist:
		return d.year + buddhistOffset
	default:
		return d.year
	}
}

func (n *Native) loadCalendar(mod api.Module, sret, providerPtr uint64, kind uint32, ok bool) {
	p := object[*provider](n, providerPtr)
	if !p.compiled || !ok {
		putErr(mod, sret, ptrOrEnum, le32(dataErrorMissingDataMarker))
		return
	}
	putOk(mod, sret, ptrOrEnum, le32(n.newObject(mod, &calendar{kind: kind})))
}

func (n *Native) defineCalendar() {
	n.method("Calendar", "create_for_locale", params(3), nil, func(mod api.Module, stack []uint64) {
		l := object[*locale](n, stack[2])
		kind, ok := calendarKeywords[l.tag.TypeForKey("ca")]
		n.loadCalendar(mod, stack[0], stack[1], kind, ok)
	})

	n.method("Calendar", "create_for_kind", params(3), nil, func(mod api.Module, stack []uint64) {
		kind := uint32(stack[2])
		n.loadCalendar(mod, stack[0], stack[1], kind, kind <= kindBuddhist)
	})

	n.method("Calendar", "kind", one, one, func(_ api.Module, stack []uint64) {
		stack[0] = uint64(object[*calendar](n, stack[0]).kind)
	})

	n.destructor("Calendar")

	n.method("Date", "from_iso_in_calendar", params(5), nil, func(mod api.Module, stack []uint64) {
		year, month, day := int(int32(stack[1])), int(uint8(stack[2])), int(uint8(stack[3]))
		cal := object[*calendar](n, stack[4])
		if !validISO(year, month, day) {
			putErr(mod, stack[0], ptrOrEnum, le32(calendarErrorOutOfRange))
			return
		}
		d := &date{year: year, month: month, day: day, kind: cal.kind}
		putOk(mod, stack[0], ptrOrEnum, le32(n.newObject(mod, d)))
	})

	n.method("Date", "from_codes_in_calendar", params(8), nil, func(mod api.Module, stack []uint64) {
		era := readStr(mod, stack[1], stack[2])
		eraYear := int(int32(stack[3]))
		monthCode := readStr(mod, stack[4], stack[5])
		day := int(uint8(stack[6]))
		cal := object[*calendar](n, stack[7])

		year, ok := isoYear(cal.kind, era, eraYear)
		if !ok {
			putErr(mod, stack[0], ptrOrEnum, le32(calendarErrorUnknownEra))
			return
		}
		m := monthCodeRegex.FindStringSubmatch(monthCode)
		if m == nil {
			putErr(mod, stack[0], ptrOrEnum, le32(calendarErrorUnknownMonthCode))
			return
		}
		month, _ := strconv.Atoi(m[1])
		if month < 1 || month > 12 {
			putErr(mod, stack[0], ptrOrEnum, le32(calendarErrorUnknownMonthCode))
			return
		}
		if !validISO(year, month, day) {
			putErr(mod, stack[0], ptrOrEnum, le32(calendarErrorOutOfRange))
			return
		}
		d := &date{year: year, month: month, day: day, kind: cal.kind}
		putOk(mod, stack[0], ptrOrEnum, le32(n.newObject(mod, d)))
	})

	n.method("Date", "from_string", params(4), nil, func(mod api.Module, stack []uint64) {
		s := readStr(mod, stack[1], stack[2])
		cal := object[*calendar](n, stack[3])

		m := isoDateSyntax.FindStringSubmatch(s)
		if m == nil {
			code := calendarParseErrorInvalidSyntax
			if yearMonthOnly.MatchString(s) {
				code = calendarParseErrorMissingFields
			}
			putErr(mod, stack[0], ptrOrEnum, le32(code))
			return
		}
		if _, ok := calendarKeywords[m[4]]; !ok {
			putErr(mod, stack[0], ptrOrEnum, le32(calendarParseErrorUnknownCalendar))
			return
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if !validISO(year, month, day) {
			putErr(mod, stack[0], ptrOrEnum, le32(calendarParseErrorOutOfRange))
			return
		}
		d := &date{year: year, month: month, day: day, kind: cal.kind}
		putOk(mod, stack[0], ptrOrEnum, le32(n.newObject(mod, d)))
	})

	n.method("Date", "day_of_month", one, one, func(_ api.Module, stack []uint64) {
		stack[0] = uint64(object[*date](n, stack[0]).day)
	})

	n.method("Date", "month_code", params(2), nil, func(_ api.Module, stack []uint64) {
		n.appendWrite(stack[1], fmt.Sprintf("M%02d", object[*date](n, stack[0]).month))
	})

	n.method("Date", "era", params(2), nil, func(_ api.Module, stack []uint64) {
		n.appendWrite(stack[1], object[*date](n, stack[0]).era())
	})

	n.method("Date", "year", one, one, func(_ api.Module, stack []uint64) {
		stack[0] = uint64(uint32(int32(object[*date](n, stack[0]).eraYear())))
	})

	n.method("Date", "calendar", one, one, func(mod api.Module, stack []uint64) {
		d := object[*date](n, stack[0])
		stack[0] = uint64(n.newObject(mod, &calendar{kind: d.kind}))
	})

	n.destructor("Date")
}
