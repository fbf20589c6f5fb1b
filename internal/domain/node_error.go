package domain

import derrors "github.com/dashql/dashql/internal/domain/errors"

// NodeError is a diagnostic attached to a statement or task, surfaced to
// the frontend via UpdateTaskStatus/UpdateProgram rather than as a bare Go
// error, so the UI can show a message next to the offending card instead
// of only in a log line.
type NodeError struct {
	StatementID StatementID
	Kind        derrors.Kind
	Message     string
}

func (e NodeError) Error() string {
	return e.Message
}

// NewNodeError builds a NodeError from a *derrors.SystemError, falling
// back to KindGeneric for any other error type so operators can attach
// diagnostics without a type switch at every call site.
func NewNodeError(stmt StatementID, err error) NodeError {
	if se, ok := err.(*derrors.SystemError); ok {
		return NodeError{StatementID: stmt, Kind: se.Kind, Message: se.Error()}
	}
	return NodeError{StatementID: stmt, Kind: derrors.KindGeneric, Message: err.Error()}
}
