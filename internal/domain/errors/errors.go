// Package errors implements the SystemError taxonomy shared by the
// evaluator, analyzer, planner, operators and scheduler.
package errors

import "fmt"

// Kind identifies a class of SystemError.
type Kind string

const (
	KindCastFailed                    Kind = "cast_failed"
	KindCastNotImplemented            Kind = "cast_not_implemented"
	KindExpressionTypeNotImplemented  Kind = "expression_type_not_implemented"
	KindFunctionNotImplemented        Kind = "function_not_implemented"
	KindFunctionEvaluationFailed      Kind = "function_evaluation_failed"
	KindInsufficientArguments         Kind = "insufficient_arguments"
	KindInvalidStatementType          Kind = "invalid_statement_type"
	KindInvalidStatementRoot          Kind = "invalid_statement_root"
	KindInvalidTableRef               Kind = "invalid_table_ref"
	KindSourceNotKnown                Kind = "source_not_known"
	KindTaskDataNotAvailable          Kind = "task_data_not_available"
	KindImportURIUnsupported          Kind = "import_uri_unsupported"
	KindMissingEnvironmentVariable    Kind = "missing_environment_variable"
	KindInvalidDataType               Kind = "invalid_data_type"
	KindInternalError                 Kind = "internal_error"
	KindNotImplemented                Kind = "not_implemented"
	KindGeneric                       Kind = "generic"
)

// SystemError is the single error type produced by the core: evaluator,
// analyzer, planner, operators and scheduler all carry failures as a
// SystemError so the scheduler can attach a stable kind to
// update_task_status(..., Failed, message).
type SystemError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SystemError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *SystemError) Unwrap() error {
	return e.Cause
}

// New creates a SystemError of the given kind.
func New(kind Kind, message string) *SystemError {
	return &SystemError{Kind: kind, Message: message}
}

// Wrap creates a SystemError of the given kind around a causing error.
func Wrap(kind Kind, message string, cause error) *SystemError {
	return &SystemError{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is a SystemError of the given kind.
func Is(err error, kind Kind) bool {
	se, ok := err.(*SystemError)
	return ok && se.Kind == kind
}
