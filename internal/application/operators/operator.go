// Package operators implements the per-TaskType prepare/execute logic the
// scheduler drives (spec.md §5). Each Operator mirrors the teacher's
// NodeExecutor shape (internal/application/executor/node_executors.go):
// one small Execute method per task family, resolved by Type().
package operators

import (
	"context"

	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

// ExecutionContext carries everything an operator needs to prepare or
// execute a task: the shared Database/Runtime collaborators, the live
// ProgramInstance (for statement lookups), and the session's declared
// input values (for ColumnRef resolution during evaluation).
type ExecutionContext struct {
	Database domain.Database
	Runtime  domain.Runtime
	Program  *domain.ProgramInstance

	// Conn is the single Connection every task in a schedule run shares;
	// workflow.API opens it at the start of each scheduler run and closes
	// it when that run ends.
	Conn domain.Connection

	// Inputs holds evaluated Declare outputs by dot-joined name, so a task
	// referencing a declared input's value can resolve it without
	// re-running the Declare task's operator.
	Inputs map[string]evalexpr.Value
}

// Result is what Execute hands back to the scheduler: updated metadata (if
// the task produced a table/view) and/or a card (if it produced a
// visualization), either of which may be zero depending on Type.
type Result struct {
	Metadata *domain.TableMetadata
	Card     *domain.Card
}

// Operator implements one TaskType's prepare/execute behavior. Prepare
// performs read-only validation (resolving names, checking a constant
// expression) and may fail fast without touching the database; Execute
// performs the task's actual side effect. The scheduler always calls
// Prepare before Execute and treats a Prepare failure as TaskFailed
// without ever calling Execute.
type Operator interface {
	Type() domain.TaskType
	Prepare(ctx context.Context, ec *ExecutionContext, task *domain.Task) error
	Execute(ctx context.Context, ec *ExecutionContext, task *domain.Task) (Result, error)
}

// Registry resolves the Operator for a task's Type.
type Registry struct {
	byType map[domain.TaskType]Operator
}

// NewRegistry builds a Registry from the given operators, indexed by their
// own Type().
func NewRegistry(ops ...Operator) *Registry {
	r := &Registry{byType: make(map[domain.TaskType]Operator, len(ops))}
	for _, op := range ops {
		r.byType[op.Type()] = op
	}
	return r
}

// For returns the operator registered for t, or nil if none is.
func (r *Registry) For(t domain.TaskType) Operator {
	return r.byType[t]
}
