package domain

import "github.com/google/uuid"

// TaskType enumerates the task kinds the planner emits, one family per
// statement kind plus a Drop family for artifacts retired between two
// consecutive graphs (spec.md §4.4; DropImport is a supplemented fourth
// drop variant — see SPEC_FULL.md §5).
type TaskType int

const (
	TaskDeclare TaskType = iota
	TaskImport
	TaskLoad
	TaskCreateTable
	TaskCreateViz
	TaskSet
	TaskDropTable
	TaskDropViz
	TaskDropInput
	TaskDropImport
)

func (t TaskType) String() string {
	switch t {
	case TaskDeclare:
		return "declare"
	case TaskImport:
		return "import"
	case TaskLoad:
		return "load"
	case TaskCreateTable:
		return "create_table"
	case TaskCreateViz:
		return "create_viz"
	case TaskSet:
		return "set"
	case TaskDropTable:
		return "drop_table"
	case TaskDropViz:
		return "drop_viz"
	case TaskDropInput:
		return "drop_input"
	case TaskDropImport:
		return "drop_import"
	default:
		return "unknown"
	}
}

// TaskStatus is the scheduler state machine's state (spec.md §6):
// Pending -> Preparing -> Prepared -> Executing -> Completed, with
// Skipped/Failed/Blocked as terminal-or-suspended side branches.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskPreparing
	TaskPrepared
	TaskExecuting
	TaskCompleted
	TaskSkipped
	TaskFailed
	TaskBlocked
)

func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "pending"
	case TaskPreparing:
		return "preparing"
	case TaskPrepared:
		return "prepared"
	case TaskExecuting:
		return "executing"
	case TaskCompleted:
		return "completed"
	case TaskSkipped:
		return "skipped"
	case TaskFailed:
		return "failed"
	case TaskBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether s ends a task's lifecycle without possibility
// of further transition.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskCompleted, TaskSkipped, TaskFailed:
		return true
	default:
		return false
	}
}

// TaskID identifies a Task within a TaskGraph.
type TaskID int

// TaskData carries the type-specific payload a task's operator consumes.
// Only the fields relevant to Type are populated; this mirrors spec.md's
// richer per-variant TaskData shape (kept over the original's minimal
// 3-variant enum — see SPEC_FULL.md §5) rather than a Go interface, since
// every operator needs read access to mostly-overlapping fields (the
// target name, the SQL text, the statement id) and a flat struct avoids a
// type-switch at every call site.
type TaskData struct {
	StatementID StatementID
	Name        []string // dot path, resolved statement output name
	Target      []string // Viz's visualized relation / Load's import source
	SQLText     string

	LoadMethod   LoadMethod
	ImportMethod ImportMethod
	FromURI      string

	IsView bool
}

// Task is one node of a TaskGraph.
type Task struct {
	ID     TaskID
	Type   TaskType
	Status TaskStatus
	Data   TaskData

	// DataID identifies this task's TaskData slot for the frontend
	// (spec.md §3/§4.4): assigned once by the planner from the graph's
	// monotonically increasing next_data_id counter, carried forward
	// unchanged to a synthesized Drop task so its delete_task_data(data_id)
	// call retracts the same artifact the retired task published.
	DataID int

	DependsOn   []TaskID // must complete before this task may prepare
	RequiredFor []TaskID // tasks that depend on this one
	LastError   *NodeError
}

// TaskGraph is the planner's output: an ordered set of tasks plus their
// dependency edges, one graph per successful analysis.
type TaskGraph struct {
	ID uuid.UUID

	// NextDataID is the monotonic counter the planner draws each new
	// task's DataID from (spec.md §4.4); it carries over from the
	// previous graph across a script edit so data ids stay unique for the
	// lifetime of a session, not just within one graph.
	NextDataID int

	Tasks []Task

	// TaskByStatement is a bijection from every live statement onto the
	// task the planner built for it (spec.md §3/§4.4's testable property
	// #5). Statements that produced no task (dead statements) are simply
	// absent.
	TaskByStatement map[StatementID]TaskID
}

// Task returns a pointer to the task with the given id, or nil.
func (g *TaskGraph) Task(id TaskID) *Task {
	if int(id) < 0 || int(id) >= len(g.Tasks) {
		return nil
	}
	return &g.Tasks[id]
}

// Ready returns the ids of every Pending task whose DependsOn are all
// Completed. A task depending on a Failed or Skipped dependency never
// becomes ready; the scheduler instead transitions it straight to
// Skipped (see scheduler.go's skipRemaining).
func (g *TaskGraph) Ready() []TaskID {
	var ready []TaskID
	for _, t := range g.Tasks {
		if t.Status != TaskPending {
			continue
		}
		if g.allSatisfied(t.DependsOn) {
			ready = append(ready, t.ID)
		}
	}
	return ready
}

func (g *TaskGraph) allSatisfied(deps []TaskID) bool {
	for _, d := range deps {
		dep := g.Task(d)
		if dep == nil || dep.Status != TaskCompleted {
			return false
		}
	}
	return true
}

// TaskGraphExecutionState tracks live scheduling state for one TaskGraph:
// the graph itself plus which tasks have been published to the frontend.
// The scheduler owns this behind a single writer lock (spec.md §6's
// concurrency model) — this type holds only the data, not the lock.
type TaskGraphExecutionState struct {
	Graph     *TaskGraph
	Published map[TaskID]TaskStatus
}

// NewTaskGraphExecutionState wraps a freshly planned graph for scheduling.
func NewTaskGraphExecutionState(g *TaskGraph) *TaskGraphExecutionState {
	return &TaskGraphExecutionState{Graph: g, Published: map[TaskID]TaskStatus{}}
}
