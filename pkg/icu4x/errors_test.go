package icu4x

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorValues(t *testing.T) {
	assert.Equal(t, int32(0x0A), int32(DataErrorInconsistentData))
	assert.Equal(t, int32(3), int32(LocaleParseErrorExtension))
	assert.Equal(t, int32(3), int32(CalendarErrorUnknownMonthCode))
	assert.Equal(t, int32(4), int32(CalendarParseErrorUnknownCalendar))
	assert.Equal(t, int32(2), int32(FixedDecimalParseErrorSyntax))
	assert.Equal(t, int32(17), int32(AnyCalendarKindRoc))
}

func TestErrorStrings(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{DataErrorIo, "icu4x: data error: Io"},
		{DataError(0x42), "icu4x: data error: DataError(66)"},
		{LocaleParseErrorSubtag, "icu4x: locale parse error: Subtag"},
		{CalendarErrorUnknownEra, "icu4x: calendar error: UnknownEra"},
		{CalendarParseErrorMissingFields, "icu4x: calendar parse error: MissingFields"},
		{FixedDecimalParseErrorLimit, "icu4x: decimal parse error: Limit"},
		{TimeZoneInvalidOffsetError{}, "icu4x: invalid time zone offset"},
		{TimeZoneInvalidIdError{}, "icu4x: invalid time zone id"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestAnyCalendarKind_String(t *testing.T) {
	assert.Equal(t, "Buddhist", AnyCalendarKindBuddhist.String())
	assert.Equal(t, "IslamicUmmAlQura", AnyCalendarKindIslamicUmmAlQura.String())
	assert.Equal(t, "AnyCalendarKind(99)", AnyCalendarKind(99).String())
}

func TestErrors_Comparable(t *testing.T) {
	var err error = DataErrorMissingLocale
	assert.True(t, errors.Is(err, DataErrorMissingLocale))
	assert.False(t, errors.Is(err, DataErrorMissingDataMarker))

	var target TimeZoneInvalidOffsetError
	assert.True(t, errors.As(error(TimeZoneInvalidOffsetError{}), &target))
}
