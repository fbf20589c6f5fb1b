// Package evalexpr implements the constant-expression evaluator used by the
// analyzer for card-position arithmetic and `format(...)` template
// formatting. It only understands a small, pure subset of the statement
// grammar's expressions — the parser's full AST is out of scope.
package evalexpr

import (
	"strconv"
	"time"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindFloat64
	KindDate
	KindTime
	KindTimestamp
	KindVarchar
	KindStruct
	KindList
)

// Value is the tagged union produced by evaluating an Expression.
type Value struct {
	Kind      Kind
	Bool      bool
	Int64     int64
	Float64   float64
	Date      time.Time
	Time      time.Time
	Timestamp time.Time
	Varchar   string
	Struct    map[string]Value
	List      []Value
}

// Null is the canonical null value.
var Null = Value{Kind: KindNull}

func BoolValue(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func Int64Value(i int64) Value  { return Value{Kind: KindInt64, Int64: i} }
func Float64Value(f float64) Value {
	return Value{Kind: KindFloat64, Float64: f}
}
func VarcharValue(s string) Value { return Value{Kind: KindVarchar, Varchar: s} }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders v the way `format`'s argument coercion does: missing
// (null) arguments become the empty string, struct and list values also
// render as the empty string, everything else uses its natural textual form.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt64:
		return strconv.FormatInt(v.Int64, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.Float64, 'g', -1, 64)
	case KindVarchar:
		return v.Varchar
	case KindDate:
		return v.Date.String()
	case KindTime:
		return v.Time.String()
	case KindTimestamp:
		return v.Timestamp.String()
	default:
		return ""
	}
}
