package icu4x

import (
	"context"
	"fmt"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// AnyCalendarKind identifies a calendar system.
type AnyCalendarKind int32

const (
	AnyCalendarKindIso                  AnyCalendarKind = 0
	AnyCalendarKindGregorian            AnyCalendarKind = 1
	AnyCalendarKindBuddhist             AnyCalendarKind = 2
	AnyCalendarKindJapanese             AnyCalendarKind = 3
	AnyCalendarKindJapaneseExtended     AnyCalendarKind = 4
	AnyCalendarKindEthiopian            AnyCalendarKind = 5
	AnyCalendarKindEthiopianAmeteAlem   AnyCalendarKind = 6
	AnyCalendarKindIndian               AnyCalendarKind = 7
	AnyCalendarKindCoptic               AnyCalendarKind = 8
	AnyCalendarKindDangi                AnyCalendarKind = 9
	AnyCalendarKindChinese              AnyCalendarKind = 10
	AnyCalendarKindHebrew               AnyCalendarKind = 11
	AnyCalendarKindIslamicCivil         AnyCalendarKind = 12
	AnyCalendarKindIslamicObservational AnyCalendarKind = 13
	AnyCalendarKindIslamicTabular       AnyCalendarKind = 14
	AnyCalendarKindIslamicUmmAlQura     AnyCalendarKind = 15
	AnyCalendarKindPersian              AnyCalendarKind = 16
	AnyCalendarKindRoc                  AnyCalendarKind = 17
)

var calendarKindNames = [...]string{
	"Iso", "Gregorian", "Buddhist", "Japanese", "JapaneseExtended",
	"Ethiopian", "EthiopianAmeteAlem", "Indian", "Coptic", "Dangi",
	"Chinese", "Hebrew", "IslamicCivil", "IslamicObservational",
	"IslamicTabular", "IslamicUmmAlQura", "Persian", "Roc",
}

func (k AnyCalendarKind) String() string {
	if k >= 0 && int(k) < len(calendarKindNames) {
		return calendarKindNames[k]
	}
	return fmt.Sprintf("AnyCalendarKind(%d)", int32(k))
}

// Calendar is a loaded calendar system.
type Calendar struct {
	lib *Library
	h   *diplomat.Handle
}

// CalendarForLocale loads the calendar selected by the locale's -u-ca
// keyword, or its default.
func (l *Library) CalendarForLocale(ctx context.Context, p *DataProvider, loc *Locale) (*Calendar, error) {
	h, err := tryCreate(ctx, l, "Calendar", "create_for_locale", dataErrorCodec, borrowed([]*diplomat.Handle{p.h, loc.h}))
	if err != nil {
		return nil, err
	}
	return &Calendar{lib: l, h: h}, nil
}

// CalendarForKind loads the calendar of the given kind.
func (l *Library) CalendarForKind(ctx context.Context, p *DataProvider, kind AnyCalendarKind) (*Calendar, error) {
	h, err := tryCreate(ctx, l, "Calendar", "create_for_kind", dataErrorCodec, borrowed([]*diplomat.Handle{p.h}, diplomat.I32(int32(kind))))
	if err != nil {
		return nil, err
	}
	return &Calendar{lib: l, h: h}, nil
}

// Kind returns the calendar system.
func (c *Calendar) Kind(ctx context.Context) (AnyCalendarKind, error) {
	v, err := call32(ctx, c.lib, c.h, "Calendar", "kind")
	return AnyCalendarKind(int32(v)), err
}

// Close destroys the native calendar. It is safe to call more than once.
func (c *Calendar) Close(ctx context.Context) error {
	return c.h.Close(ctx)
}

// Date is a date in a specific calendar. It keeps no reference to the
// calendar it was created from.
type Date struct {
	lib *Library
	h   *diplomat.Handle
}

// DateFromISO creates a date from ISO fields, viewed in cal.
func (l *Library) DateFromISO(ctx context.Context, year int32, month, day uint8, cal *Calendar) (*Date, error) {
	h, err := tryCreate(ctx, l, "Date", "from_iso_in_calendar", calendarErrorCodec, func(f *diplomat.Frame) ([]uint64, error) {
		calp, err := cal.h.Borrow(f)
		if err != nil {
			return nil, err
		}
		return []uint64{diplomat.I32(year), uint64(month), uint64(day), calp}, nil
	})
	if err != nil {
		return nil, err
	}
	return &Date{lib: l, h: h}, nil
}

// DateFromCodes creates a date from calendar-specific fields: an era code,
// the year within that era, a month code like "M03", and the day.
func (l *Library) DateFromCodes(ctx context.Context, era string, year int32, monthCode string, day uint8, cal *Calendar) (*Date, error) {
	h, err := tryCreate(ctx, l, "Date", "from_codes_in_calendar", calendarErrorCodec, func(f *diplomat.Frame) ([]uint64, error) {
		calp, err := cal.h.Borrow(f)
		if err != nil {
			return nil, err
		}
		eraSpan, err := f.Str(era)
		if err != nil {
			return nil, err
		}
		monthSpan, err := f.Str(monthCode)
		if err != nil {
			return nil, err
		}
		params := eraSpan.Params()
		params = append(params, diplomat.I32(year))
		params = append(params, monthSpan.Params()...)
		return append(params, uint64(day), calp), nil
	})
	if err != nil {
		return nil, err
	}
	return &Date{lib: l, h: h}, nil
}

// ParseDate parses an IXDTF date such as "2024-03-01[u-ca=buddhist]" and
// views it in cal.
func (l *Library) ParseDate(ctx context.Context, s string, cal *Calendar) (*Date, error) {
	h, err := tryCreate(ctx, l, "Date", "from_string", calendarParseErrorCodec, func(f *diplomat.Frame) ([]uint64, error) {
		calp, err := cal.h.Borrow(f)
		if err != nil {
			return nil, err
		}
		span, err := f.Str(s)
		if err != nil {
			return nil, err
		}
		return append(span.Params(), calp), nil
	})
	if err != nil {
		return nil, err
	}
	return &Date{lib: l, h: h}, nil
}

// DayOfMonth returns the 1-based day.
func (d *Date) DayOfMonth(ctx context.Context) (uint8, error) {
	v, err := call32(ctx, d.lib, d.h, "Date", "day_of_month")
	return uint8(v), err
}

// MonthCode returns the month code, e.g. "M01".
func (d *Date) MonthCode(ctx context.Context) (string, error) {
	return d.lib.writeString(ctx, d.h, "Date", "month_code")
}

// Era returns the era code.
func (d *Date) Era(ctx context.Context) (string, error) {
	return d.lib.writeString(ctx, d.h, "Date", "era")
}

// Year returns the year within the era.
func (d *Date) Year(ctx context.Context) (int32, error) {
	v, err := call32(ctx, d.lib, d.h, "Date", "year")
	return int32(v), err
}

// Calendar returns a new, separately owned calendar of the date's kind.
func (d *Date) Calendar(ctx context.Context) (*Calendar, error) {
	h, err := d.lib.derive(ctx, d.h, "Date", "calendar", "Calendar")
	if err != nil {
		return nil, err
	}
	return &Calendar{lib: d.lib, h: h}, nil
}

// Close destroys the native date. It is safe to call more than once.
func (d *Date) Close(ctx context.Context) error {
	return d.h.Close(ctx)
}
