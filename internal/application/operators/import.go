package operators

import (
	"context"
	"strings"

	"github.com/dashql/dashql/internal/domain"
	derrors "github.com/dashql/dashql/internal/domain/errors"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

// ImportOperator resolves an Import statement's constant FromURI
// expression and infers the fetch method from its scheme, per spec.md
// §4.5: `file://` and bare paths use ImportMethodFile, `http(s)://` uses
// ImportMethodHTTP, and `test://` (supplemented from original_source/'s
// test-fixture import method; see SPEC_FULL.md §5) resolves against the
// DASHQL_TEST_DATA environment variable through Runtime.
type ImportOperator struct{}

func (ImportOperator) Type() domain.TaskType { return domain.TaskImport }

func (ImportOperator) Prepare(ctx context.Context, ec *ExecutionContext, task *domain.Task) error {
	stmt, ok := statementFor(ec, task)
	if !ok {
		return derrors.New(derrors.KindInvalidStatementType, "import task has no backing statement")
	}
	if stmt.FromURI == nil {
		return derrors.New(derrors.KindSourceNotKnown, "import statement has no source expression")
	}
	if !evalexpr.IsConstantExpression(stmt.FromURI, nil) {
		return derrors.New(derrors.KindInvalidStatementType, "import source must be a constant expression")
	}
	return nil
}

func (ImportOperator) Execute(ctx context.Context, ec *ExecutionContext, task *domain.Task) (Result, error) {
	stmt, _ := statementFor(ec, task)

	v, err := evalexpr.Evaluate(evalexpr.NewContext(nil), stmt.FromURI)
	if err != nil {
		return Result{}, derrors.Wrap(derrors.KindSourceNotKnown, "failed to evaluate import source", err)
	}
	uri := v.String()
	method := inferImportMethod(uri)

	rc, err := ec.Runtime.Fetch(ctx, method, uri)
	if err != nil {
		return Result{}, derrors.Wrap(derrors.KindImportURIUnsupported, "failed to fetch import source", err)
	}
	defer rc.Close()

	// The import task itself only establishes the byte stream and its
	// method; the Load task that depends on it is what actually parses
	// rows into a table, so there is no table metadata to report here.
	return Result{}, nil
}

func inferImportMethod(uri string) domain.ImportMethod {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return domain.ImportMethodHTTP
	case strings.HasPrefix(uri, "test://"):
		return domain.ImportMethodTest
	default:
		return domain.ImportMethodFile
	}
}

func statementFor(ec *ExecutionContext, task *domain.Task) (domain.Statement, bool) {
	if ec.Program == nil {
		return domain.Statement{}, false
	}
	id := task.Data.StatementID
	if int(id) < 0 || int(id) >= len(ec.Program.Program.Statements) {
		return domain.Statement{}, false
	}
	return ec.Program.Program.Statement(id), true
}
