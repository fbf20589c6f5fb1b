package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_FormatsKindAndMessage(t *testing.T) {
	err := New(KindInvalidTableRef, "no such table: raw")
	assert.Equal(t, "invalid_table_ref: no such table: raw", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestWrap_IncludesCauseInMessage(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(KindInternalError, "failed to connect", cause)

	assert.Equal(t, "internal_error: failed to connect: connection refused", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestIs_MatchesOnKind(t *testing.T) {
	err := New(KindCastFailed, "cannot cast varchar to float64")

	assert.True(t, Is(err, KindCastFailed))
	assert.False(t, Is(err, KindCastNotImplemented))
}

func TestIs_FalseForNonSystemError(t *testing.T) {
	assert.False(t, Is(stderrors.New("plain error"), KindGeneric))
}

func TestUnwrap_EnablesErrorsAs(t *testing.T) {
	cause := stderrors.New("root cause")
	err := Wrap(KindGeneric, "wrapped", cause)

	assert.True(t, stderrors.Is(err, cause))
}
