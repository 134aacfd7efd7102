package icu4x

import (
	"context"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// CustomTimeZone is a time zone described by an optional GMT offset and
// an optional BCP-47 id.
type CustomTimeZone struct {
	lib *Library
	h   *diplomat.Handle
}

// ParseTimeZone parses a GMT offset such as "Z", "+05", or "-08:00".
func (l *Library) ParseTimeZone(ctx context.Context, s string) (*CustomTimeZone, error) {
	h, err := tryCreate(ctx, l, "CustomTimeZone", "from_string", invalidOffsetCodec, strArgs(s))
	if err != nil {
		return nil, err
	}
	return &CustomTimeZone{lib: l, h: h}, nil
}

// UTCTimeZone returns UTC with a zero offset.
func (l *Library) UTCTimeZone(ctx context.Context) (*CustomTimeZone, error) {
	h, err := l.create(ctx, "CustomTimeZone", "utc")
	if err != nil {
		return nil, err
	}
	return &CustomTimeZone{lib: l, h: h}, nil
}

// EmptyTimeZone returns a zone with no fields set.
func (l *Library) EmptyTimeZone(ctx context.Context) (*CustomTimeZone, error) {
	h, err := l.create(ctx, "CustomTimeZone", "empty")
	if err != nil {
		return nil, err
	}
	return &CustomTimeZone{lib: l, h: h}, nil
}

// TrySetGmtOffsetSeconds sets the offset. Offsets beyond ±18 hours fail
// with TimeZoneInvalidOffsetError.
func (tz *CustomTimeZone) TrySetGmtOffsetSeconds(ctx context.Context, seconds int32) error {
	return tryCall(ctx, tz.lib, "CustomTimeZone", "try_set_gmt_offset_seconds", invalidOffsetCodec,
		borrowed([]*diplomat.Handle{tz.h}, diplomat.I32(seconds)))
}

// ClearGmtOffset unsets the offset.
func (tz *CustomTimeZone) ClearGmtOffset(ctx context.Context) error {
	return callVoid(ctx, tz.lib, tz.h, "CustomTimeZone", "clear_gmt_offset")
}

// GmtOffsetSeconds returns the offset, if set.
func (tz *CustomTimeZone) GmtOffsetSeconds(ctx context.Context) (int32, bool, error) {
	return optional(ctx, tz.lib, tz.h, "CustomTimeZone", "gmt_offset_seconds", diplomat.I32Codec)
}

// IsGmtOffsetPositive reports whether the offset is zero or east of
// Greenwich. ok is false when no offset is set.
func (tz *CustomTimeZone) IsGmtOffsetPositive(ctx context.Context) (positive, ok bool, err error) {
	return optional(ctx, tz.lib, tz.h, "CustomTimeZone", "is_gmt_offset_positive", diplomat.BoolCodec)
}

// TrySetTimeZoneID sets the BCP-47 id. Unknown ids fail with
// TimeZoneInvalidIdError.
func (tz *CustomTimeZone) TrySetTimeZoneID(ctx context.Context, id string) error {
	return tryCall(ctx, tz.lib, "CustomTimeZone", "try_set_time_zone_id", invalidIDCodec, withStr(tz.h, id))
}

// TimeZoneID returns the BCP-47 id, if set.
func (tz *CustomTimeZone) TimeZoneID(ctx context.Context) (string, bool, error) {
	return tz.lib.writeOption(ctx, "CustomTimeZone", "time_zone_id", borrowed([]*diplomat.Handle{tz.h}))
}

// Close destroys the native time zone. It is safe to call more than once.
func (tz *CustomTimeZone) Close(ctx context.Context) error {
	return tz.h.Close(ctx)
}
