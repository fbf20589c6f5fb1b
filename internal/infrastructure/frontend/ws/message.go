// Package ws is the gorilla/websocket-backed domain.Frontend: it pushes
// every task-graph/program/state update to clients subscribed to the
// originating session, the same push model the teacher's websocket
// package uses for workflow/execution events, re-keyed by session ID
// since a dashboard script has no separate workflow/execution concept.
package ws

// Event types pushed from server to client.
const (
	EventTaskStatus      = "task_status"
	EventTaskGraph       = "task_graph"
	EventProgram         = "program"
	EventInputState      = "input_state"
	EventImportState     = "import_state"
	EventTableState      = "table_state"
	EventVisualization   = "visualization_state"
	EventTaskDataDelete  = "task_data_delete"
	EventBatchBegin      = "batch_begin"
	EventBatchEnd        = "batch_end"
)

// Command types accepted from client to server.
const (
	CmdSubscribe   = "subscribe"
	CmdUnsubscribe = "unsubscribe"
)

// Event is a server-to-client push, scoped to a single session.
type Event struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Payload   any    `json:"payload,omitempty"`
}

// NewEvent builds an Event for sessionID carrying payload.
func NewEvent(eventType, sessionID string, payload any) *Event {
	return &Event{Type: eventType, SessionID: sessionID, Payload: payload}
}

// Command is a client-to-server request, e.g. subscribing to a session's
// event stream.
type Command struct {
	Action    string `json:"action"`
	SessionID string `json:"session_id"`
}

// Response acknowledges a Command.
type Response struct {
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func NewSuccessResponse(action, message string) *Response {
	return &Response{Action: action, Success: true, Message: message}
}

func NewErrorResponse(action, message string) *Response {
	return &Response{Action: action, Success: false, Message: message}
}

// TaskStatusPayload is the payload carried by an EventTaskStatus event.
type TaskStatusPayload struct {
	TaskID    int    `json:"task_id"`
	Status    string `json:"status"`
	ErrorKind string `json:"error_kind,omitempty"`
	ErrorText string `json:"error_text,omitempty"`
}

// TaskDataDeletePayload is the payload carried by an EventTaskDataDelete
// event: the data_id of the artifact the frontend should retract.
type TaskDataDeletePayload struct {
	DataID int `json:"data_id"`
}

// StatementStatePayload is the payload shape shared by
// EventInputState/EventImportState/EventTableState/EventVisualization.
type StatementStatePayload struct {
	StatementID int `json:"statement_id"`
	State       any `json:"state"`
}
