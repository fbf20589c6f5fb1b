package operators_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashql/dashql/internal/application/operators"
	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

func TestImportOperator_PrepareRejectsMissingStatement(t *testing.T) {
	op := operators.ImportOperator{}
	err := op.Prepare(context.Background(), &operators.ExecutionContext{}, &domain.Task{Data: domain.TaskData{StatementID: 99}})
	assert.Error(t, err)
}

func TestImportOperator_PrepareRejectsNonConstantSource(t *testing.T) {
	p := domain.NewProgram([]domain.Statement{
		{Kind: domain.StatementImport, Name: evalexpr.NamePath{"raw"}, FromURI: &evalexpr.Expression{Kind: evalexpr.ExprColumnRef, ColumnRef: evalexpr.NamePath{"unresolved"}}},
	})
	ec := newExecutionContext(t, p)

	op := operators.ImportOperator{}
	task := &domain.Task{Data: domain.TaskData{StatementID: 0}}
	assert.Error(t, op.Prepare(context.Background(), ec, task))
}

func TestImportOperator_PrepareAcceptsConstantSource(t *testing.T) {
	p := domain.NewProgram([]domain.Statement{
		{Kind: domain.StatementImport, Name: evalexpr.NamePath{"raw"}, FromURI: &evalexpr.Expression{Kind: evalexpr.ExprStringRef, StringRef: "test://fixture.csv"}},
	})
	ec := newExecutionContext(t, p)

	op := operators.ImportOperator{}
	task := &domain.Task{Data: domain.TaskData{StatementID: 0}}
	assert.NoError(t, op.Prepare(context.Background(), ec, task))
}

func TestImportOperator_ExecuteFetchesFromLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "raw.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	p := domain.NewProgram([]domain.Statement{
		{Kind: domain.StatementImport, Name: evalexpr.NamePath{"raw"}, FromURI: &evalexpr.Expression{Kind: evalexpr.ExprStringRef, StringRef: "file://" + path}},
	})
	ec := newExecutionContext(t, p)

	op := operators.ImportOperator{}
	task := &domain.Task{Data: domain.TaskData{StatementID: 0}}
	_, err := op.Execute(context.Background(), ec, task)
	require.NoError(t, err)
}

func TestImportOperator_ExecuteFailsForUnreadableSource(t *testing.T) {
	p := domain.NewProgram([]domain.Statement{
		{Kind: domain.StatementImport, Name: evalexpr.NamePath{"raw"}, FromURI: &evalexpr.Expression{Kind: evalexpr.ExprStringRef, StringRef: "file:///no/such/file.csv"}},
	})
	ec := newExecutionContext(t, p)

	op := operators.ImportOperator{}
	task := &domain.Task{Data: domain.TaskData{StatementID: 0}}
	_, err := op.Execute(context.Background(), ec, task)
	assert.Error(t, err)
}
