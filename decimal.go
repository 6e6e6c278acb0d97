package gobigquery

import (
	"github.com/cockroachdb/apd/v3"
)

const (
	// NumericScale is the number of fractional digits NUMERIC keeps. Values with more are rounded.
	NumericScale = 9
	// NumericIntegerDigits is the number of integer digits NUMERIC can hold.
	NumericIntegerDigits = 29
	// BigNumericScale is the number of fractional digits BIGNUMERIC keeps.
	BigNumericScale = 38
	// BigNumericIntegerDigits is the number of integer digits BIGNUMERIC can hold.
	BigNumericIntegerDigits = 39
)

// decimalContext is wide enough to hold any BIGNUMERIC value without losing digits.
var decimalContext = func() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(100)
	ctx.Rounding = apd.RoundHalfUp
	return ctx
}()

// formatDecimal renders d in plain notation for a NUMERIC or BIGNUMERIC parameter. Fractional
// digits beyond the type's scale are rounded half up; trailing fractional zeros are dropped.
func formatDecimal(d *apd.Decimal, t WireType) (string, error) {
	if d.Form != apd.Finite {
		return "", errInvalidScalar(t, d.String(), nil)
	}
	scale, intDigits := int32(NumericScale), int64(NumericIntegerDigits)
	if t == DataTypeBigNumeric {
		scale, intDigits = BigNumericScale, BigNumericIntegerDigits
	}
	r := new(apd.Decimal).Set(d)
	if -r.Exponent > scale {
		if _, err := decimalContext.Quantize(r, r, -scale); err != nil {
			return "", errInvalidScalar(t, d.String(), err)
		}
		if t == DataTypeNumeric {
			logger.Warnf("NUMERIC value %v rounded to %d fractional digits", d, NumericScale)
		}
	}
	if _, _, err := decimalContext.Reduce(r, r); err != nil {
		return "", errInvalidScalar(t, d.String(), err)
	}
	if r.IsZero() {
		r.Negative = false
	}
	if integerDigits(r) > intDigits {
		return "", &ConversionError{
			Number:      ErrCodeDecimalOutOfRange,
			Message:     errMsgDecimalOutOfRange,
			MessageArgs: []interface{}{d, t},
		}
	}
	return r.Text('f'), nil
}

// integerDigits counts the digits left of the decimal point.
func integerDigits(d *apd.Decimal) int64 {
	n := d.NumDigits() + int64(d.Exponent)
	if n < 0 {
		return 0
	}
	return n
}

// parseDecimal parses a decimal wire string exactly.
func parseDecimal(s string, t WireType) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, errInvalidScalar(t, s, err)
	}
	if d.Form != apd.Finite {
		return nil, errInvalidScalar(t, s, nil)
	}
	return d, nil
}

// decimalOf converts the numeric native values to a decimal. ok is false for anything else.
func decimalOf(v any) (d *apd.Decimal, ok bool, err error) {
	switch v := v.(type) {
	case *apd.Decimal:
		if v == nil {
			return nil, false, nil
		}
		return v, true, nil
	case apd.Decimal:
		return &v, true, nil
	case float32:
		d, err = new(apd.Decimal).SetFloat64(float64(v))
		return d, true, err
	case float64:
		d, err = new(apd.Decimal).SetFloat64(v)
		return d, true, err
	}
	if i, ok := int64Of(v); ok {
		return apd.New(i, 0), true, nil
	}
	return nil, false, nil
}
