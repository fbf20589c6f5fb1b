package evalexpr

import (
	"strings"

	derrors "github.com/dashql/dashql/internal/domain/errors"
)

const stringRefTrim = "\"' "

// Evaluate evaluates e under ctx, memoizing by expression identity so a
// diamond-shaped reference to the same *Expression only walks its
// sub-expressions once.
func Evaluate(ctx *Context, e *Expression) (Value, error) {
	if cached, ok := ctx.cached(e); ok {
		if cached == nil {
			return Null, nil
		}
		return *cached, nil
	}

	v, err := evaluateUncached(ctx, e)
	if err != nil {
		return Null, err
	}
	if v.IsNull() {
		ctx.memoize(e, nil)
	} else {
		vv := v
		ctx.memoize(e, &vv)
	}
	return v, nil
}

func evaluateUncached(ctx *Context, e *Expression) (Value, error) {
	switch e.Kind {
	case ExprNull:
		return Null, nil
	case ExprBoolean:
		return BoolValue(e.Boolean), nil
	case ExprUint32:
		return Int64Value(int64(e.Uint32)), nil
	case ExprStringRef:
		return VarcharValue(strings.Trim(e.StringRef, stringRefTrim)), nil
	case ExprColumnRef:
		if v, ok := ctx.Lookup(e.ColumnRef); ok {
			return v, nil
		}
		return Null, nil
	case ExprFunctionCall:
		return evaluateFunctionCall(ctx, e)
	default:
		return Null, derrors.New(derrors.KindExpressionTypeNotImplemented, "expression kind not implemented")
	}
}

func evaluateFunctionCall(ctx *Context, e *Expression) (Value, error) {
	if e.FunctionName != "format" {
		return Null, derrors.New(derrors.KindFunctionNotImplemented, "function not implemented: "+e.FunctionName)
	}
	return evaluateFormat(ctx, e.Args)
}

// IsConstantExpression checks constness (spec.md §4.1) with a recursive
// depth-first walk that calls itself once per `format` argument: an
// expression is constant if it contains no subqueries, unknown column refs,
// parameter refs, known (built-in) functions, casts, case/conjunction/
// disjunction, n-ary operators, EXISTS, type tests, indirections or SELECTs.
// Column refs are constant iff they resolve in named. `format` is constant
// iff every argument is.
func IsConstantExpression(e *Expression, named map[string]struct{}) bool {
	if e == nil {
		return true
	}
	switch e.Kind {
	case ExprNull, ExprBoolean, ExprUint32, ExprStringRef:
		return true
	case ExprColumnRef:
		_, ok := named[e.ColumnRef.Key()]
		return ok
	case ExprFunctionCall:
		if e.FunctionName != "format" {
			return false
		}
		for _, arg := range e.Args {
			if !IsConstantExpression(arg.Value, named) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
