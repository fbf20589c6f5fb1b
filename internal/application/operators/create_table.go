package operators

import (
	"context"

	derrors "github.com/dashql/dashql/internal/domain/errors"

	"github.com/dashql/dashql/internal/domain"
)

// CreateTableOperator runs a Create/CreateAs/CreateView/materialized
// Select statement's literal SQL text against the shared connection, then
// resolves the resulting table's shape with Describe.
type CreateTableOperator struct{}

func (CreateTableOperator) Type() domain.TaskType { return domain.TaskCreateTable }

func (CreateTableOperator) Prepare(ctx context.Context, ec *ExecutionContext, task *domain.Task) error {
	if task.Data.SQLText == "" {
		return derrors.New(derrors.KindInvalidStatementType, "create table task has no SQL text")
	}
	return nil
}

func (CreateTableOperator) Execute(ctx context.Context, ec *ExecutionContext, task *domain.Task) (Result, error) {
	if err := ec.Conn.Execute(ctx, task.Data.SQLText); err != nil {
		return Result{}, derrors.Wrap(derrors.KindInternalError, "create table failed", err)
	}

	meta, err := ec.Conn.Describe(ctx, task.Data.Name)
	if err != nil {
		return Result{}, derrors.Wrap(derrors.KindInvalidTableRef, "failed to resolve created table metadata", err)
	}
	meta.IsView = task.Data.IsView
	return Result{Metadata: &meta}, nil
}
