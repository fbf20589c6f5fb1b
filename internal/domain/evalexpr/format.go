package evalexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	derrors "github.com/dashql/dashql/internal/domain/errors"
)

// placeholderPattern matches a dynfmt placeholder: `{}`, `{2}`, `{name}`,
// or a small expression like `{name+1}`. The same "find the braces, hand
// the interior to expr-lang" split the teacher's TemplateProcessor uses for
// `${...}` substitution in internal/application/executor/template.go.
var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// evaluateFormat implements the only known (non-built-in) function the
// evaluator supports: format(template, args...). The first argument is the
// template; remaining arguments are evaluated and coerced to string (a null
// argument coerces to the empty string), split into positional (unnamed)
// and named (named via `name: value` call syntax) before being handed to
// dynfmt.
func evaluateFormat(ctx *Context, args []FunctionArg) (Value, error) {
	if len(args) == 0 {
		return Null, derrors.New(derrors.KindInsufficientArguments, "format requires a template argument")
	}

	templateVal, err := Evaluate(ctx, args[0].Value)
	if err != nil {
		return Null, err
	}
	template := templateVal.String()

	positional := make([]string, 0, len(args)-1)
	named := make(map[string]string, len(args)-1)

	for _, arg := range args[1:] {
		v, err := Evaluate(ctx, arg.Value)
		if err != nil {
			return Null, err
		}
		s := "" // missing/null coerces to empty string
		if !v.IsNull() {
			s = v.String()
		}
		if arg.Name != "" {
			named[arg.Name] = s
		} else {
			positional = append(positional, s)
		}
	}

	result, err := dynfmt(template, positional, named)
	if err != nil {
		return Null, derrors.Wrap(derrors.KindFunctionEvaluationFailed, "format evaluation failed", err)
	}
	return VarcharValue(result), nil
}

// dynfmt substitutes `{...}` placeholders in template. An empty placeholder
// `{}` consumes the next unused positional argument; a placeholder holding
// an integer indexes positional directly; anything else is compiled and
// run as an expr-lang expression against an environment exposing the
// named arguments by name, so `{name}` resolves directly.
func dynfmt(template string, positional []string, named map[string]string) (string, error) {
	env := make(map[string]interface{}, len(positional)+len(named))
	for i, p := range positional {
		env[strconv.Itoa(i)] = p
	}
	for k, v := range named {
		env[k] = v
	}

	nextPositional := 0
	var evalErr error
	result := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		if evalErr != nil {
			return match
		}
		inner := strings.TrimSpace(match[1 : len(match)-1])

		if inner == "" {
			if nextPositional >= len(positional) {
				evalErr = fmt.Errorf("no positional argument for placeholder %d", nextPositional)
				return match
			}
			v := positional[nextPositional]
			nextPositional++
			return v
		}
		if idx, err := strconv.Atoi(inner); err == nil {
			if idx < 0 || idx >= len(positional) {
				evalErr = fmt.Errorf("no positional argument for placeholder %d", idx)
				return match
			}
			return positional[idx]
		}

		program, err := expr.Compile(inner, expr.Env(env), expr.AsAny())
		if err != nil {
			evalErr = fmt.Errorf("invalid format placeholder %q: %w", inner, err)
			return match
		}
		out, err := expr.Run(program, env)
		if err != nil {
			evalErr = fmt.Errorf("failed to evaluate format placeholder %q: %w", inner, err)
			return match
		}
		return fmt.Sprint(out)
	})

	if evalErr != nil {
		return "", evalErr
	}
	return result, nil
}
