// Package scheduler drives a domain.TaskGraph through the Pending ->
// Preparing -> Prepared -> Executing -> Completed state machine spec.md §6
// describes, publishing every transition to a domain.Frontend inside a
// begin/end batch bracket. Ready tasks within a round run concurrently,
// mirroring the teacher's wave-based WorkflowEngine.executeWave
// (internal/application/executor/engine.go).
package scheduler

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dashql/dashql/internal/application/operators"
	"github.com/dashql/dashql/internal/domain"
)

// Scheduler runs one TaskGraphExecutionState to completion (or to the
// first point every remaining task is Blocked/Failed). A Scheduler is
// single-use: build a new one per graph run.
type Scheduler struct {
	state    *domain.TaskGraphExecutionState
	ops      *operators.Registry
	ec       *operators.ExecutionContext
	frontend domain.Frontend
	session  string
	log      zerolog.Logger

	// maxParallel bounds concurrent task preparation/execution within a
	// round, the way executeWave bounds node concurrency with a semaphore.
	maxParallel int

	mu sync.Mutex // guards state.Graph task status transitions
}

// New builds a Scheduler for graph, to be driven by ops against ec and
// published to frontend under sessionID. maxParallel bounds concurrent
// task preparation/execution per round (see SPEC_FULL.md §2.3's
// DASHQL_MAX_PARALLEL_TASKS); values <= 0 fall back to 8.
func New(graph *domain.TaskGraph, ops *operators.Registry, ec *operators.ExecutionContext, frontend domain.Frontend, sessionID string, logger zerolog.Logger, maxParallel int) *Scheduler {
	if frontend == nil {
		frontend = domain.NoopFrontend{}
	}
	if maxParallel <= 0 {
		maxParallel = 8
	}
	return &Scheduler{
		state:       domain.NewTaskGraphExecutionState(graph),
		ops:         ops,
		ec:          ec,
		frontend:    frontend,
		session:     sessionID,
		log:         logger,
		maxParallel: maxParallel,
	}
}

// Run drives the graph to completion. It returns the first unexpected
// (non-task) error; individual task failures are recorded as TaskFailed
// and propagated as TaskSkipped to dependents, not returned here.
func (s *Scheduler) Run(ctx context.Context) error {
	s.frontend.BeginBatchUpdate(ctx, s.session)
	s.frontend.UpdateTaskGraph(ctx, s.session, s.state.Graph)
	defer s.frontend.EndBatchUpdate(ctx, s.session)

	for {
		ready := s.readyTasks()
		if len(ready) == 0 {
			s.skipRemaining(ctx)
			return nil
		}
		if err := s.runRound(ctx, ready); err != nil {
			return err
		}
	}
}

// Cancel marks every task that has not yet reached a terminal status as
// Skipped and publishes the transition, the way a script edit that
// replaces this graph with a new one abandons whatever was still in
// flight (spec.md §6).
func (s *Scheduler) Cancel(ctx context.Context) {
	s.mu.Lock()
	var skipped []domain.TaskID
	for i := range s.state.Graph.Tasks {
		t := &s.state.Graph.Tasks[i]
		if !t.Status.IsTerminal() {
			t.Status = domain.TaskSkipped
			skipped = append(skipped, t.ID)
		}
	}
	s.mu.Unlock()

	for _, id := range skipped {
		s.publish(ctx, id, domain.TaskSkipped, nil)
	}
}

// readyTasks returns every Pending task whose dependencies are all
// Completed, under the scheduler's lock.
func (s *Scheduler) readyTasks() []domain.TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Graph.Ready()
}

// skipRemaining marks every still-Pending task Skipped if at least one of
// its dependencies is Failed or Skipped, the spec's Pending ->
// (dep failed/skipped) -> Skipped transition (Blocked is reserved for a
// task already Executing that awaits an external event, never reachable
// from Pending). It loops to a fixpoint so skip propagates transitively
// along a chain of Pending tasks regardless of task order. Called once
// Ready is empty but Pending tasks remain, meaning the graph has no
// further progress to make this run.
func (s *Scheduler) skipRemaining(ctx context.Context) {
	for {
		s.mu.Lock()
		var skipped []domain.TaskID
		for i := range s.state.Graph.Tasks {
			t := &s.state.Graph.Tasks[i]
			if t.Status != domain.TaskPending {
				continue
			}
			if s.hasFailedOrSkippedDependency(t) {
				t.Status = domain.TaskSkipped
				skipped = append(skipped, t.ID)
			}
		}
		s.mu.Unlock()

		for _, id := range skipped {
			s.publish(ctx, id, domain.TaskSkipped, nil)
		}
		if len(skipped) == 0 {
			return
		}
	}
}

func (s *Scheduler) hasFailedOrSkippedDependency(t *domain.Task) bool {
	for _, dep := range t.DependsOn {
		d := s.state.Graph.Task(dep)
		if d == nil {
			continue
		}
		if d.Status == domain.TaskFailed || d.Status == domain.TaskSkipped {
			return true
		}
	}
	return false
}

// runRound prepares and executes every task in ready concurrently, capped
// at maxParallel in flight at once.
func (s *Scheduler) runRound(ctx context.Context, ready []domain.TaskID) error {
	sem := make(chan struct{}, s.maxParallel)
	var wg sync.WaitGroup

	for _, id := range ready {
		wg.Add(1)
		go func(id domain.TaskID) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			s.runTask(ctx, id)
		}(id)
	}
	wg.Wait()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// runTask drives one task through Preparing -> Prepared -> Executing ->
// Completed/Failed, publishing each transition.
func (s *Scheduler) runTask(ctx context.Context, id domain.TaskID) {
	op := s.opFor(id)
	if op == nil {
		s.fail(ctx, id, domain.NodeError{Kind: "not_implemented", Message: "no operator registered for task type"})
		return
	}

	task := s.taskCopy(id)
	spanCtx, span := traceTask(ctx, s.session, &task)
	defer span.End()

	s.setStatus(id, domain.TaskPreparing)
	s.publish(ctx, id, domain.TaskPreparing, nil)

	if err := op.Prepare(spanCtx, s.ec, &task); err != nil {
		recordTaskError(span, err)
		s.fail(ctx, id, domain.NewNodeError(task.Data.StatementID, err))
		return
	}

	s.setStatus(id, domain.TaskPrepared)
	s.publish(ctx, id, domain.TaskPrepared, nil)

	s.setStatus(id, domain.TaskExecuting)
	s.publish(ctx, id, domain.TaskExecuting, nil)

	result, err := op.Execute(spanCtx, s.ec, &task)
	if err != nil {
		recordTaskError(span, err)
		s.fail(ctx, id, domain.NewNodeError(task.Data.StatementID, err))
		return
	}

	s.applyResult(ctx, task.Data.StatementID, result)
	if isDropTaskType(task.Type) {
		s.frontend.DeleteTaskData(ctx, s.session, task.DataID)
	}

	s.setStatus(id, domain.TaskCompleted)
	s.publish(ctx, id, domain.TaskCompleted, nil)
}

// isDropTaskType reports whether t is one of the four Drop task families,
// the only tasks whose completion retracts rather than publishes a
// TaskData slot (spec.md §4.4's delete_task_data(data_id)).
func isDropTaskType(t domain.TaskType) bool {
	switch t {
	case domain.TaskDropTable, domain.TaskDropViz, domain.TaskDropInput, domain.TaskDropImport:
		return true
	default:
		return false
	}
}

func (s *Scheduler) applyResult(ctx context.Context, stmt domain.StatementID, result operators.Result) {
	if result.Metadata != nil {
		s.frontend.UpdateTableState(ctx, s.session, stmt, *result.Metadata)
	}
	if result.Card != nil {
		s.frontend.UpdateVisualizationState(ctx, s.session, stmt, *result.Card)
	}
}

func (s *Scheduler) fail(ctx context.Context, id domain.TaskID, nodeErr domain.NodeError) {
	s.mu.Lock()
	t := s.state.Graph.Task(id)
	t.Status = domain.TaskFailed
	t.LastError = &nodeErr
	s.mu.Unlock()

	s.log.Error().Int("task_id", int(id)).Str("error_kind", string(nodeErr.Kind)).Msg("task failed")
	s.publish(ctx, id, domain.TaskFailed, &nodeErr)
}

func (s *Scheduler) setStatus(id domain.TaskID, status domain.TaskStatus) {
	s.mu.Lock()
	s.state.Graph.Task(id).Status = status
	s.mu.Unlock()
}

func (s *Scheduler) taskCopy(id domain.TaskID) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state.Graph.Task(id)
}

func (s *Scheduler) opFor(id domain.TaskID) operators.Operator {
	s.mu.Lock()
	t := s.state.Graph.Task(id)
	s.mu.Unlock()
	return s.ops.For(t.Type)
}

func (s *Scheduler) publish(ctx context.Context, id domain.TaskID, status domain.TaskStatus, nodeErr *domain.NodeError) {
	s.mu.Lock()
	s.state.Published[id] = status
	s.mu.Unlock()
	s.frontend.UpdateTaskStatus(ctx, s.session, id, status, nodeErr)
}
