package operators

import (
	"context"

	"github.com/dashql/dashql/internal/domain"
	derrors "github.com/dashql/dashql/internal/domain/errors"
)

// InsightGenerator produces an optional natural-language summary of a
// visualization's backing table, used by VizOperator when one is wired in
// (internal/infrastructure/insight, backed by go-openai). It is never
// required for a Viz task to complete — spec.md §4.7 treats the chart
// itself as the task's product, insight text as an enrichment.
type InsightGenerator interface {
	Summarize(ctx context.Context, meta domain.TableMetadata) (string, error)
}

// VizOperator resolves the table or view its Target names and hands back
// a Card recording the viz's board position. When an InsightGenerator is
// wired in, Execute also requests a summary of the table, but the summary
// is discarded: it is not part of the returned Result.
type VizOperator struct {
	Insight InsightGenerator // nil disables the optional insight summary
}

func (VizOperator) Type() domain.TaskType { return domain.TaskCreateViz }

func (VizOperator) Prepare(ctx context.Context, ec *ExecutionContext, task *domain.Task) error {
	if len(task.Data.Target) == 0 {
		return derrors.New(derrors.KindInvalidTableRef, "viz task has no target table")
	}
	return nil
}

func (op VizOperator) Execute(ctx context.Context, ec *ExecutionContext, task *domain.Task) (Result, error) {
	meta, err := ec.Conn.Describe(ctx, task.Data.Target)
	if err != nil {
		return Result{}, derrors.Wrap(derrors.KindInvalidTableRef, "viz target table not found", err)
	}

	card, ok := ec.Program.Cards[task.Data.StatementID]
	if !ok {
		return Result{}, derrors.New(derrors.KindInternalError, "viz task has no allocated card")
	}

	if op.Insight != nil {
		// Best-effort: a failed insight summary never fails the task, since
		// the chart itself already satisfies the task's contract.
		_, _ = op.Insight.Summarize(ctx, meta)
	}

	return Result{Metadata: &meta, Card: &card}, nil
}
