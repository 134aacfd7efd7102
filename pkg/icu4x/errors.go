package icu4x

import (
	"fmt"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// Native error enumerations. Values match the C ABI exactly; each type is
// comparable, so errors.Is(err, DataErrorIo) works.

// DataError is a failure to load locale data from a provider.
type DataError int32

const (
	DataErrorUnknown                 DataError = 0x00
	DataErrorMissingDataMarker       DataError = 0x01
	DataErrorMissingLocale           DataError = 0x02
	DataErrorNeedsLocale             DataError = 0x03
	DataErrorExtraneousLocale        DataError = 0x04
	DataErrorFilteredResource        DataError = 0x05
	DataErrorMismatchedType          DataError = 0x06
	DataErrorCustom                  DataError = 0x07
	DataErrorIo                      DataError = 0x08
	DataErrorUnavailableBufferFormat DataError = 0x09
	DataErrorInconsistentData        DataError = 0x0A
)

var dataErrorNames = map[DataError]string{
	DataErrorUnknown:                 "Unknown",
	DataErrorMissingDataMarker:       "MissingDataMarker",
	DataErrorMissingLocale:           "MissingLocale",
	DataErrorNeedsLocale:             "NeedsLocale",
	DataErrorExtraneousLocale:        "ExtraneousLocale",
	DataErrorFilteredResource:        "FilteredResource",
	DataErrorMismatchedType:          "MismatchedType",
	DataErrorCustom:                  "Custom",
	DataErrorIo:                      "Io",
	DataErrorUnavailableBufferFormat: "UnavailableBufferFormat",
	DataErrorInconsistentData:        "InconsistentData",
}

func (e DataError) String() string { return enumName("DataError", dataErrorNames, e) }
func (e DataError) Error() string  { return "icu4x: data error: " + e.String() }

// LocaleParseError is a failure to parse a locale identifier.
type LocaleParseError int32

const (
	LocaleParseErrorUnknown   LocaleParseError = 0
	LocaleParseErrorLanguage  LocaleParseError = 1
	LocaleParseErrorSubtag    LocaleParseError = 2
	LocaleParseErrorExtension LocaleParseError = 3
)

var localeParseErrorNames = map[LocaleParseError]string{
	LocaleParseErrorUnknown:   "Unknown",
	LocaleParseErrorLanguage:  "Language",
	LocaleParseErrorSubtag:    "Subtag",
	LocaleParseErrorExtension: "Extension",
}

func (e LocaleParseError) String() string {
	return enumName("LocaleParseError", localeParseErrorNames, e)
}
func (e LocaleParseError) Error() string { return "icu4x: locale parse error: " + e.String() }

// CalendarError is a calendrical failure when building a date.
type CalendarError int32

const (
	CalendarErrorUnknown          CalendarError = 0
	CalendarErrorOutOfRange       CalendarError = 1
	CalendarErrorUnknownEra       CalendarError = 2
	CalendarErrorUnknownMonthCode CalendarError = 3
)

var calendarErrorNames = map[CalendarError]string{
	CalendarErrorUnknown:          "Unknown",
	CalendarErrorOutOfRange:       "OutOfRange",
	CalendarErrorUnknownEra:       "UnknownEra",
	CalendarErrorUnknownMonthCode: "UnknownMonthCode",
}

func (e CalendarError) String() string { return enumName("CalendarError", calendarErrorNames, e) }
func (e CalendarError) Error() string  { return "icu4x: calendar error: " + e.String() }

// CalendarParseError is a failure to parse a date string.
type CalendarParseError int32

const (
	CalendarParseErrorUnknown         CalendarParseError = 0
	CalendarParseErrorInvalidSyntax   CalendarParseError = 1
	CalendarParseErrorOutOfRange      CalendarParseError = 2
	CalendarParseErrorMissingFields   CalendarParseError = 3
	CalendarParseErrorUnknownCalendar CalendarParseError = 4
)

var calendarParseErrorNames = map[CalendarParseError]string{
	CalendarParseErrorUnknown:         "Unknown",
	CalendarParseErrorInvalidSyntax:   "InvalidSyntax",
	CalendarParseErrorOutOfRange:      "OutOfRange",
	CalendarParseErrorMissingFields:   "MissingFields",
	CalendarParseErrorUnknownCalendar: "UnknownCalendar",
}

func (e CalendarParseError) String() string {
	return enumName("CalendarParseError", calendarParseErrorNames, e)
}
func (e CalendarParseError) Error() string { return "icu4x: calendar parse error: " + e.String() }

// FixedDecimalParseError is a failure to parse a decimal string.
type FixedDecimalParseError int32

const (
	FixedDecimalParseErrorUnknown FixedDecimalParseError = 0
	FixedDecimalParseErrorLimit   FixedDecimalParseError = 1
	FixedDecimalParseErrorSyntax  FixedDecimalParseError = 2
)

var fixedDecimalParseErrorNames = map[FixedDecimalParseError]string{
	FixedDecimalParseErrorUnknown: "Unknown",
	FixedDecimalParseErrorLimit:   "Limit",
	FixedDecimalParseErrorSyntax:  "Syntax",
}

func (e FixedDecimalParseError) String() string {
	return enumName("FixedDecimalParseError", fixedDecimalParseErrorNames, e)
}
func (e FixedDecimalParseError) Error() string { return "icu4x: decimal parse error: " + e.String() }

// TimeZoneInvalidOffsetError reports an offset outside ±18 hours or an
// unparsable offset string. It carries no payload.
type TimeZoneInvalidOffsetError struct{}

func (TimeZoneInvalidOffsetError) Error() string { return "icu4x: invalid time zone offset" }

// TimeZoneInvalidIdError reports an unknown BCP-47 time zone id. It
// carries no payload.
type TimeZoneInvalidIdError struct{}

func (TimeZoneInvalidIdError) Error() string { return "icu4x: invalid time zone id" }

var (
	dataErrorCodec              = diplomat.EnumCodec[DataError]()
	localeParseErrorCodec       = diplomat.EnumCodec[LocaleParseError]()
	calendarErrorCodec          = diplomat.EnumCodec[CalendarError]()
	calendarParseErrorCodec     = diplomat.EnumCodec[CalendarParseError]()
	fixedDecimalParseErrorCodec = diplomat.EnumCodec[FixedDecimalParseError]()
	invalidOffsetCodec          = diplomat.ZeroSized[TimeZoneInvalidOffsetError]()
	invalidIDCodec              = diplomat.ZeroSized[TimeZoneInvalidIdError]()
)

func enumName[E ~int32](typ string, names map[E]string, e E) string {
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("%s(%d)", typ, int32(e))
}
