package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

func TestBuildPrompt_DescribesTableNameRowCountAndColumns(t *testing.T) {
	meta := domain.TableMetadata{
		Name:     evalexpr.NamePath{"sales"},
		RowCount: 42,
		Columns: []domain.ColumnMetadata{
			{Name: evalexpr.NamePath{"id"}, Type: domain.ColumnTypeInt64},
			{Name: evalexpr.NamePath{"label"}, Type: domain.ColumnTypeVarchar},
		},
	}

	prompt := buildPrompt(meta)
	assert.Contains(t, prompt, `"sales"`)
	assert.Contains(t, prompt, "42 rows")
	assert.Contains(t, prompt, "id (integer)")
	assert.Contains(t, prompt, "label (text)")
}

func TestBuildPrompt_HandlesTableWithNoColumns(t *testing.T) {
	meta := domain.TableMetadata{Name: evalexpr.NamePath{"empty"}, RowCount: 0}
	prompt := buildPrompt(meta)
	assert.Contains(t, prompt, `"empty"`)
	assert.Contains(t, prompt, "0 rows")
}

func TestColumnTypeName(t *testing.T) {
	cases := map[domain.ColumnType]string{
		domain.ColumnTypeBoolean:   "boolean",
		domain.ColumnTypeInt64:     "integer",
		domain.ColumnTypeFloat64:   "float",
		domain.ColumnTypeVarchar:   "text",
		domain.ColumnTypeDate:      "date",
		domain.ColumnTypeTime:      "time",
		domain.ColumnTypeTimestamp: "timestamp",
		domain.ColumnTypeBlob:      "blob",
	}
	for in, want := range cases {
		assert.Equal(t, want, columnTypeName(in))
	}
}

func TestColumnTypeName_UnknownDefaultsToUnknown(t *testing.T) {
	assert.Equal(t, "unknown", columnTypeName(domain.ColumnType(999)))
}

func TestNewOpenAIGenerator_DefaultsModelWhenEmpty(t *testing.T) {
	g := NewOpenAIGenerator("test-key", "")
	assert.Equal(t, "gpt-4o-mini", g.model)
}

func TestNewOpenAIGenerator_HonorsExplicitModel(t *testing.T) {
	g := NewOpenAIGenerator("test-key", "gpt-4o")
	assert.Equal(t, "gpt-4o", g.model)
}
