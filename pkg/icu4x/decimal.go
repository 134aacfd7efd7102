package icu4x

import (
	"context"

	"github.com/woxQAQ/icu4x-go/pkg/diplomat"
)

// FixedDecimal is an arbitrary-precision decimal number.
type FixedDecimal struct {
	lib *Library
	h   *diplomat.Handle
}

// DecimalFromInt32 creates a decimal from v.
func (l *Library) DecimalFromInt32(ctx context.Context, v int32) (*FixedDecimal, error) {
	h, err := l.create(ctx, "FixedDecimal", "from_int32", diplomat.I32(v))
	if err != nil {
		return nil, err
	}
	return &FixedDecimal{lib: l, h: h}, nil
}

// DecimalFromInt64 creates a decimal from v.
func (l *Library) DecimalFromInt64(ctx context.Context, v int64) (*FixedDecimal, error) {
	h, err := l.create(ctx, "FixedDecimal", "from_int64", diplomat.I64(v))
	if err != nil {
		return nil, err
	}
	return &FixedDecimal{lib: l, h: h}, nil
}

// ParseDecimal parses a plain decimal string such as "-12.50".
func (l *Library) ParseDecimal(ctx context.Context, s string) (*FixedDecimal, error) {
	h, err := tryCreate(ctx, l, "FixedDecimal", "from_string", fixedDecimalParseErrorCodec, strArgs(s))
	if err != nil {
		return nil, err
	}
	return &FixedDecimal{lib: l, h: h}, nil
}

// MultiplyPow10 shifts the decimal point by power places.
func (d *FixedDecimal) MultiplyPow10(ctx context.Context, power int16) error {
	return callVoid(ctx, d.lib, d.h, "FixedDecimal", "multiply_pow10", diplomat.I32(int32(power)))
}

// DigitAt returns the digit at magnitude, 0 being the ones place.
func (d *FixedDecimal) DigitAt(ctx context.Context, magnitude int16) (uint8, error) {
	v, err := call32(ctx, d.lib, d.h, "FixedDecimal", "digit_at", diplomat.I32(int32(magnitude)))
	return uint8(v), err
}

// IsZero reports whether every digit is zero.
func (d *FixedDecimal) IsZero(ctx context.Context) (bool, error) {
	v, err := call32(ctx, d.lib, d.h, "FixedDecimal", "is_zero")
	return v != 0, err
}

// ToString formats the decimal without grouping.
func (d *FixedDecimal) ToString(ctx context.Context) (string, error) {
	return d.lib.writeString(ctx, d.h, "FixedDecimal", "to_string")
}

// Close destroys the native decimal. It is safe to call more than once.
func (d *FixedDecimal) Close(ctx context.Context) error {
	return d.h.Close(ctx)
}
