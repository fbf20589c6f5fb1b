package evalexpr

import (
	"strconv"

	derrors "github.com/dashql/dashql/internal/domain/errors"
)

// Cast implements the small set of widenings the analyzer actually needs:
// Int64|Float64|Bool|Varchar|Null -> Varchar, and Int64 or a parseable
// Varchar -> Float64 (used for card-position arithmetic, where DSON
// settings are evaluated then truncated to an integer cell coordinate).
// Anything else fails with CastNotImplemented.
func Cast(v Value, target Kind) (Value, error) {
	if v.Kind == target {
		return v, nil
	}

	switch target {
	case KindVarchar:
		switch v.Kind {
		case KindInt64, KindFloat64, KindBool, KindVarchar, KindNull:
			return VarcharValue(v.String()), nil
		}
	case KindFloat64:
		switch v.Kind {
		case KindInt64:
			return Float64Value(float64(v.Int64)), nil
		case KindVarchar:
			f, err := strconv.ParseFloat(v.Varchar, 64)
			if err != nil {
				return Null, derrors.Wrap(derrors.KindCastFailed, "cannot cast varchar to float64", err)
			}
			return Float64Value(f), nil
		}
	}

	return Null, derrors.New(derrors.KindCastNotImplemented, "cast not implemented")
}

// TruncateToInt truncates a Float64 value to an int, as the card-position
// evaluator does after evaluating a `position.row|column|width|height`
// setting.
func TruncateToInt(v Value) (int, error) {
	f, err := Cast(v, KindFloat64)
	if err != nil {
		return 0, err
	}
	return int(f.Float64), nil
}
