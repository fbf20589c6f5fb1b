package domain

import "context"

// Frontend is the host callback surface the scheduler publishes batched
// updates through (spec.md §7). A concrete implementation (e.g.
// internal/infrastructure/frontend/ws) pushes these to a UI; tests use an
// in-memory recorder.
//
// BeginBatchUpdate/EndBatchUpdate bracket every group of calls the
// scheduler makes in response to a single external event (a task
// transition, a graph replacement), so a frontend that coalesces DOM
// updates knows when a consistent snapshot is available.
type Frontend interface {
	BeginBatchUpdate(ctx context.Context, sessionID string)
	EndBatchUpdate(ctx context.Context, sessionID string)

	UpdateProgram(ctx context.Context, sessionID string, program *Program)
	UpdateTaskGraph(ctx context.Context, sessionID string, graph *TaskGraph)
	UpdateTaskStatus(ctx context.Context, sessionID string, taskID TaskID, status TaskStatus, err *NodeError)

	// DeleteTaskData tells the frontend to retract the artifact published
	// under dataID (spec.md §4.4's delete_task_data(data_id)), the call a
	// completed DropTable/DropViz/DropInput/DropImport task makes with the
	// DataID it carried over from the task it retired.
	DeleteTaskData(ctx context.Context, sessionID string, dataID int)

	UpdateInputState(ctx context.Context, sessionID string, stmt StatementID, value string)
	UpdateImportState(ctx context.Context, sessionID string, stmt StatementID, metadata TableMetadata)
	UpdateTableState(ctx context.Context, sessionID string, stmt StatementID, metadata TableMetadata)
	UpdateVisualizationState(ctx context.Context, sessionID string, stmt StatementID, card Card)
}

// NoopFrontend discards every call. Useful for operator/scheduler tests
// that don't assert on publication traffic.
type NoopFrontend struct{}

func (NoopFrontend) BeginBatchUpdate(context.Context, string) {}
func (NoopFrontend) EndBatchUpdate(context.Context, string)   {}

func (NoopFrontend) UpdateProgram(context.Context, string, *Program)               {}
func (NoopFrontend) UpdateTaskGraph(context.Context, string, *TaskGraph)            {}
func (NoopFrontend) UpdateTaskStatus(context.Context, string, TaskID, TaskStatus, *NodeError) {}
func (NoopFrontend) DeleteTaskData(context.Context, string, int)                             {}

func (NoopFrontend) UpdateInputState(context.Context, string, StatementID, string)          {}
func (NoopFrontend) UpdateImportState(context.Context, string, StatementID, TableMetadata)  {}
func (NoopFrontend) UpdateTableState(context.Context, string, StatementID, TableMetadata)   {}
func (NoopFrontend) UpdateVisualizationState(context.Context, string, StatementID, Card)    {}
