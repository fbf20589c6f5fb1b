package domain

import "github.com/dashql/dashql/internal/domain/evalexpr"

// ColumnType is the internal, engine-agnostic column type the analyzer and
// operators reason about. Concrete adapters (internal/infrastructure/
// adapters) translate their engine's type names into this set; see
// SPEC_FULL.md §5 for the DuckDB name table this was ported from.
type ColumnType int

const (
	ColumnTypeUnknown ColumnType = iota
	ColumnTypeBoolean
	ColumnTypeInt64
	ColumnTypeFloat64
	ColumnTypeVarchar
	ColumnTypeDate
	ColumnTypeTime
	ColumnTypeTimestamp
	ColumnTypeBlob
)

// duckDBTypeNames maps the subset of DuckDB's DESCRIBE output this project
// understands to ColumnType. Anything absent from the table resolves to
// ColumnTypeUnknown rather than failing the DESCRIBE query outright, since
// an unrecognized column type shouldn't block every other column from
// being usable (spec.md §4.3's liveness/board concerns never inspect
// column types directly; only operators that render values care).
var duckDBTypeNames = map[string]ColumnType{
	"BOOLEAN":      ColumnTypeBoolean,
	"TINYINT":      ColumnTypeInt64,
	"SMALLINT":     ColumnTypeInt64,
	"INTEGER":      ColumnTypeInt64,
	"BIGINT":       ColumnTypeInt64,
	"HUGEINT":      ColumnTypeInt64,
	"UTINYINT":     ColumnTypeInt64,
	"USMALLINT":    ColumnTypeInt64,
	"UINTEGER":     ColumnTypeInt64,
	"UBIGINT":      ColumnTypeInt64,
	"FLOAT":        ColumnTypeFloat64,
	"DOUBLE":       ColumnTypeFloat64,
	"DECIMAL":      ColumnTypeFloat64,
	"VARCHAR":      ColumnTypeVarchar,
	"DATE":         ColumnTypeDate,
	"TIME":         ColumnTypeTime,
	"TIMESTAMP":    ColumnTypeTimestamp,
	"TIMESTAMP TZ": ColumnTypeTimestamp,
	"BLOB":         ColumnTypeBlob,
}

// ResolveDuckDBType looks up a DESCRIBE-reported type name, returning
// ColumnTypeUnknown for anything not in duckDBTypeNames.
func ResolveDuckDBType(name string) ColumnType {
	if t, ok := duckDBTypeNames[name]; ok {
		return t
	}
	return ColumnTypeUnknown
}

// ColumnMetadata describes one resolved column.
type ColumnMetadata struct {
	Name evalexpr.NamePath
	Type ColumnType
}

// TableMetadata is the resolved shape of a table or view produced by a
// Create/CreateAs/CreateView/Load task, obtained from the two-query
// DESCRIBE + count(*) resolution documented in SPEC_FULL.md §5 (the
// original issues both against the same table to get column shape and row
// count together; Database.Describe here models that as one call so
// adapters can batch it however their engine prefers).
type TableMetadata struct {
	Name     evalexpr.NamePath
	Columns  []ColumnMetadata
	RowCount int64
	IsView   bool
}

// ColumnIndex returns the position of name in Columns, or -1.
func (m TableMetadata) ColumnIndex(name evalexpr.NamePath) int {
	key := name.Key()
	for i, c := range m.Columns {
		if c.Name.Key() == key {
			return i
		}
	}
	return -1
}
