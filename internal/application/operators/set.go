package operators

import (
	"context"

	"github.com/dashql/dashql/internal/domain"
)

// SetOperator handles Set statements. spec.md's Design Notes leave session
// variable scoping as an open question; this project resolves it by
// treating Set as a pass-through the scheduler always completes
// immediately without touching the database. It records nothing: a Set's
// value is not stored in ExecutionContext.Inputs or anywhere else.
type SetOperator struct{}

func (SetOperator) Type() domain.TaskType { return domain.TaskSet }

func (SetOperator) Prepare(ctx context.Context, ec *ExecutionContext, task *domain.Task) error {
	return nil
}

func (SetOperator) Execute(ctx context.Context, ec *ExecutionContext, task *domain.Task) (Result, error) {
	return Result{}, nil
}
