package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/dashql/dashql/internal/domain"
)

// AuditStore is the subset of SessionStore/MemorySessionStore the auditing
// frontend decorator needs.
type AuditStore interface {
	RecordTaskStatus(ctx context.Context, sessionID uuid.UUID, taskID int, status, errKind, errDetail string) error
}

// AuditingFrontend wraps another domain.Frontend and additionally persists
// every task status transition to an AuditStore, so a session's history
// survives independently of the live (in-memory only)
// TaskGraphExecutionState.
type AuditingFrontend struct {
	Inner domain.Frontend
	Store AuditStore
}

func (f *AuditingFrontend) BeginBatchUpdate(ctx context.Context, sessionID string) {
	f.Inner.BeginBatchUpdate(ctx, sessionID)
}

func (f *AuditingFrontend) EndBatchUpdate(ctx context.Context, sessionID string) {
	f.Inner.EndBatchUpdate(ctx, sessionID)
}

func (f *AuditingFrontend) UpdateProgram(ctx context.Context, sessionID string, program *domain.Program) {
	f.Inner.UpdateProgram(ctx, sessionID, program)
}

func (f *AuditingFrontend) UpdateTaskGraph(ctx context.Context, sessionID string, graph *domain.TaskGraph) {
	f.Inner.UpdateTaskGraph(ctx, sessionID, graph)
}

func (f *AuditingFrontend) UpdateTaskStatus(ctx context.Context, sessionID string, taskID domain.TaskID, status domain.TaskStatus, nodeErr *domain.NodeError) {
	f.Inner.UpdateTaskStatus(ctx, sessionID, taskID, status, nodeErr)

	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	errKind, errDetail := "", ""
	if nodeErr != nil {
		errKind, errDetail = string(nodeErr.Kind), nodeErr.Message
	}
	_ = f.Store.RecordTaskStatus(ctx, sid, int(taskID), status.String(), errKind, errDetail)
}

func (f *AuditingFrontend) DeleteTaskData(ctx context.Context, sessionID string, dataID int) {
	f.Inner.DeleteTaskData(ctx, sessionID, dataID)
}

func (f *AuditingFrontend) UpdateInputState(ctx context.Context, sessionID string, stmt domain.StatementID, value string) {
	f.Inner.UpdateInputState(ctx, sessionID, stmt, value)
}

func (f *AuditingFrontend) UpdateImportState(ctx context.Context, sessionID string, stmt domain.StatementID, metadata domain.TableMetadata) {
	f.Inner.UpdateImportState(ctx, sessionID, stmt, metadata)
}

func (f *AuditingFrontend) UpdateTableState(ctx context.Context, sessionID string, stmt domain.StatementID, metadata domain.TableMetadata) {
	f.Inner.UpdateTableState(ctx, sessionID, stmt, metadata)
}

func (f *AuditingFrontend) UpdateVisualizationState(ctx context.Context, sessionID string, stmt domain.StatementID, card domain.Card) {
	f.Inner.UpdateVisualizationState(ctx, sessionID, stmt, card)
}
