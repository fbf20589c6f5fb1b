package ws

import (
	"context"

	"github.com/dashql/dashql/internal/domain"
)

// Frontend is the concrete, network-facing domain.Frontend: every call
// is translated into an Event and handed to the Hub for fan-out to
// whichever clients are subscribed to the session it concerns. Unlike
// NoopFrontend or storage.AuditingFrontend, this is the implementation a
// real dashboard UI actually observes.
type Frontend struct {
	hub *Hub
}

// NewFrontend returns a Frontend publishing through hub.
func NewFrontend(hub *Hub) *Frontend {
	return &Frontend{hub: hub}
}

func (f *Frontend) BeginBatchUpdate(ctx context.Context, sessionID string) {
	f.hub.Broadcast(NewEvent(EventBatchBegin, sessionID, nil))
}

func (f *Frontend) EndBatchUpdate(ctx context.Context, sessionID string) {
	f.hub.Broadcast(NewEvent(EventBatchEnd, sessionID, nil))
}

func (f *Frontend) UpdateProgram(ctx context.Context, sessionID string, program *domain.Program) {
	f.hub.Broadcast(NewEvent(EventProgram, sessionID, program))
}

func (f *Frontend) UpdateTaskGraph(ctx context.Context, sessionID string, graph *domain.TaskGraph) {
	f.hub.Broadcast(NewEvent(EventTaskGraph, sessionID, graph))
}

func (f *Frontend) UpdateTaskStatus(ctx context.Context, sessionID string, taskID domain.TaskID, status domain.TaskStatus, nodeErr *domain.NodeError) {
	payload := TaskStatusPayload{TaskID: int(taskID), Status: status.String()}
	if nodeErr != nil {
		payload.ErrorKind = string(nodeErr.Kind)
		payload.ErrorText = nodeErr.Message
	}
	f.hub.Broadcast(NewEvent(EventTaskStatus, sessionID, payload))
}

func (f *Frontend) DeleteTaskData(ctx context.Context, sessionID string, dataID int) {
	f.hub.Broadcast(NewEvent(EventTaskDataDelete, sessionID, TaskDataDeletePayload{DataID: dataID}))
}

func (f *Frontend) UpdateInputState(ctx context.Context, sessionID string, stmt domain.StatementID, value string) {
	f.hub.Broadcast(NewEvent(EventInputState, sessionID, StatementStatePayload{StatementID: int(stmt), State: value}))
}

func (f *Frontend) UpdateImportState(ctx context.Context, sessionID string, stmt domain.StatementID, metadata domain.TableMetadata) {
	f.hub.Broadcast(NewEvent(EventImportState, sessionID, StatementStatePayload{StatementID: int(stmt), State: metadata}))
}

func (f *Frontend) UpdateTableState(ctx context.Context, sessionID string, stmt domain.StatementID, metadata domain.TableMetadata) {
	f.hub.Broadcast(NewEvent(EventTableState, sessionID, StatementStatePayload{StatementID: int(stmt), State: metadata}))
}

func (f *Frontend) UpdateVisualizationState(ctx context.Context, sessionID string, stmt domain.StatementID, card domain.Card) {
	f.hub.Broadcast(NewEvent(EventVisualization, sessionID, StatementStatePayload{StatementID: int(stmt), State: card}))
}
