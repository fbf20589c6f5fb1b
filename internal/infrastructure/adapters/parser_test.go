package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

func TestParseProgram_DeclareImportLoadViz(t *testing.T) {
	script := `
		DECLARE threshold DEFAULT 10;
		IMPORT raw FROM 'test://fixture.csv';
		LOAD CSV sales FROM raw;
		VIZ sales USING sales (position = (row = 0, column = 0, width = 6, height = 4));
	`
	p, err := ParseProgram(script)
	require.NoError(t, err)
	require.Len(t, p.Statements, 4)

	assert.Equal(t, domain.StatementDeclare, p.Statements[0].Kind)
	assert.Equal(t, evalexpr.NamePath{"threshold"}, p.Statements[0].Name)
	require.NotNil(t, p.Statements[0].Extra["default"])

	assert.Equal(t, domain.StatementImport, p.Statements[1].Kind)
	assert.Equal(t, evalexpr.NamePath{"raw"}, p.Statements[1].Name)

	assert.Equal(t, domain.StatementLoad, p.Statements[2].Kind)
	assert.Equal(t, domain.LoadMethodCSV, p.Statements[2].LoadMethod)
	assert.Equal(t, evalexpr.NamePath{"raw"}, p.Statements[2].Target)

	assert.Equal(t, domain.StatementViz, p.Statements[3].Kind)
	assert.Equal(t, evalexpr.NamePath{"sales"}, p.Statements[3].Target)
	assert.NotNil(t, p.Statements[3].Extra["position.row"])
}

func TestParseProgram_CreateAsAndView(t *testing.T) {
	p, err := ParseProgram(`CREATE sales AS SELECT * FROM raw; CREATE VIEW recent AS SELECT * FROM sales`)
	require.NoError(t, err)
	require.Len(t, p.Statements, 2)

	assert.Equal(t, domain.StatementCreateAs, p.Statements[0].Kind)
	assert.False(t, p.Statements[0].IsView)

	assert.Equal(t, domain.StatementCreateView, p.Statements[1].Kind)
	assert.True(t, p.Statements[1].IsView)
}

func TestParseProgram_SetStatement(t *testing.T) {
	p, err := ParseProgram(`SET limit = 5`)
	require.NoError(t, err)
	require.Len(t, p.Statements, 1)
	assert.Equal(t, domain.StatementSet, p.Statements[0].Kind)
	assert.Equal(t, evalexpr.NamePath{"limit"}, p.Statements[0].Name)
}

func TestParseProgram_UnrecognizedTextFallsBackToSelect(t *testing.T) {
	p, err := ParseProgram(`SELECT 1`)
	require.NoError(t, err)
	require.Len(t, p.Statements, 1)
	assert.Equal(t, domain.StatementSelect, p.Statements[0].Kind)
	assert.Equal(t, "SELECT 1", p.Statements[0].SQLText)
}

func TestParseProgram_BlankStatementsAreSkipped(t *testing.T) {
	p, err := ParseProgram(`SET a = 1;; ;`)
	require.NoError(t, err)
	assert.Len(t, p.Statements, 1)
}
