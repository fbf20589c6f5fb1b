package operators

import (
	"context"

	"github.com/dashql/dashql/internal/domain"
	derrors "github.com/dashql/dashql/internal/domain/errors"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

// DeclareOperator evaluates a session input's default-value expression (or
// the value already pinned in ec.Inputs, when UpdateInputValue has set
// one) and publishes it so downstream statements' ColumnRefs can resolve
// it. Declare never touches the database.
type DeclareOperator struct{}

func (DeclareOperator) Type() domain.TaskType { return domain.TaskDeclare }

func (DeclareOperator) Prepare(ctx context.Context, ec *ExecutionContext, task *domain.Task) error {
	if len(task.Data.Name) == 0 {
		return derrors.New(derrors.KindInvalidStatementType, "declare task has no name")
	}
	return nil
}

func (DeclareOperator) Execute(ctx context.Context, ec *ExecutionContext, task *domain.Task) (Result, error) {
	key := joinName(task.Data.Name)
	if v, ok := ec.Inputs[key]; ok {
		_ = v // already resolved via UpdateInputValue; nothing further to do
		return Result{}, nil
	}

	stmt, ok := statementFor(ec, task)
	if !ok {
		return Result{}, derrors.New(derrors.KindInvalidStatementType, "declare task has no backing statement")
	}
	defaultExpr, hasDefault := stmt.Extra["default"]
	if !hasDefault || defaultExpr == nil {
		ec.Inputs[key] = evalexpr.Null
		return Result{}, nil
	}

	v, err := evalexpr.Evaluate(evalexpr.NewContext(ec.Inputs), defaultExpr)
	if err != nil {
		return Result{}, err
	}
	ec.Inputs[key] = v
	return Result{}, nil
}
