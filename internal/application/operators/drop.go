package operators

import (
	"context"
	"fmt"

	"github.com/dashql/dashql/internal/domain"
	derrors "github.com/dashql/dashql/internal/domain/errors"
)

// DropOperator implements all four drop task types (spec.md §4.4, plus
// the supplemented DropImport variant — SPEC_FULL.md §5). Only DropTable
// touches the database; DropViz, DropInput and DropImport run no statement
// here, since viz cards, declared inputs and fetched imports never created
// a database object in the first place.
type DropOperator struct {
	taskType domain.TaskType
}

func NewDropTableOperator() DropOperator  { return DropOperator{domain.TaskDropTable} }
func NewDropVizOperator() DropOperator    { return DropOperator{domain.TaskDropViz} }
func NewDropInputOperator() DropOperator  { return DropOperator{domain.TaskDropInput} }
func NewDropImportOperator() DropOperator { return DropOperator{domain.TaskDropImport} }

func (d DropOperator) Type() domain.TaskType { return d.taskType }

func (d DropOperator) Prepare(ctx context.Context, ec *ExecutionContext, task *domain.Task) error {
	if len(task.Data.Name) == 0 {
		return derrors.New(derrors.KindInvalidTableRef, "drop task has no name")
	}
	return nil
}

func (d DropOperator) Execute(ctx context.Context, ec *ExecutionContext, task *domain.Task) (Result, error) {
	key := joinName(task.Data.Name)

	switch d.taskType {
	case domain.TaskDropTable:
		if err := ec.Conn.Execute(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", key)); err != nil {
			return Result{}, derrors.Wrap(derrors.KindInternalError, "drop table failed", err)
		}
	case domain.TaskDropViz:
		// No database object to drop; the scheduler's DeleteTaskData call
		// is what removes the card from the frontend.
	case domain.TaskDropInput:
		delete(ec.Inputs, key)
	case domain.TaskDropImport:
		// Nothing persisted for a bare import beyond the Inputs entry its
		// dependents may have cached.
		delete(ec.Inputs, key)
	}
	return Result{}, nil
}
