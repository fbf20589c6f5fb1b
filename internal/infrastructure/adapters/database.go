// Package adapters provides the in-memory reference implementations of
// domain.Database and domain.Runtime (spec.md §7 treats the real SQL
// engine and host runtime as black boxes; these exist so the scheduler
// and operators can be exercised end-to-end without a live DuckDB).
package adapters

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

// MemoryDatabase is a Database backed by an in-process table registry. It
// understands the small literal statement shapes this project's operators
// ever issue (CREATE TABLE ... (cols), CREATE TABLE/VIEW ... AS ..., the
// synthetic LOAD statement load.go renders, DROP TABLE IF EXISTS, and SET)
// rather than general SQL — a real adapter would delegate to an actual
// engine instead of pattern-matching statement text.
type MemoryDatabase struct {
	mu     sync.Mutex
	tables map[string]domain.TableMetadata
}

// NewMemoryDatabase returns an empty in-memory database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{tables: make(map[string]domain.TableMetadata)}
}

func (d *MemoryDatabase) Connect(ctx context.Context) (domain.Connection, error) {
	return &memoryConnection{db: d}, nil
}

type memoryConnection struct {
	db *MemoryDatabase
}

var (
	createWithColumns = regexp.MustCompile(`(?is)^CREATE\s+TABLE\s+([\w.]+)\s*\(([^)]*)\)\s*$`)
	createAs          = regexp.MustCompile(`(?is)^CREATE\s+(TABLE|VIEW)\s+([\w.]+)\s+AS\s+(.*)$`)
	dropTable         = regexp.MustCompile(`(?is)^DROP\s+TABLE\s+IF\s+EXISTS\s+([\w.]+)\s*$`)
	loadStatement     = regexp.MustCompile(`(?is)^LOAD\s+(\w+)\s+FROM\s+"(.*)"\s+AS\s+([\w.]+)\s+\((\d+)\s+bytes\)\s*$`)
	setStatement      = regexp.MustCompile(`(?is)^SET\s+`)
)

func (c *memoryConnection) Execute(ctx context.Context, sql string) error {
	sql = strings.TrimSpace(sql)

	switch {
	case createWithColumns.MatchString(sql):
		m := createWithColumns.FindStringSubmatch(sql)
		name, colsText := m[1], m[2]
		c.db.put(name, domain.TableMetadata{
			Name:    dotPath(name),
			Columns: parseColumnList(colsText),
		})
		return nil

	case createAs.MatchString(sql):
		m := createAs.FindStringSubmatch(sql)
		isView := strings.EqualFold(m[1], "VIEW")
		name := m[2]
		// No general SELECT evaluator is in scope; a materialized/viewed
		// statement gets a single synthetic "value" column.
		c.db.put(name, domain.TableMetadata{
			Name:    dotPath(name),
			Columns: []domain.ColumnMetadata{{Name: dotPath("value"), Type: domain.ColumnTypeVarchar}},
			IsView:  isView,
		})
		return nil

	case dropTable.MatchString(sql):
		m := dropTable.FindStringSubmatch(sql)
		c.db.delete(m[1])
		return nil

	case loadStatement.MatchString(sql):
		m := loadStatement.FindStringSubmatch(sql)
		name := m[3]
		size, _ := strconv.Atoi(m[4])
		c.db.put(name, domain.TableMetadata{
			Name:     dotPath(name),
			Columns:  []domain.ColumnMetadata{{Name: dotPath("value"), Type: domain.ColumnTypeVarchar}},
			RowCount: int64(size / 16), // rows roughly proportional to fetched byte count
		})
		return nil

	case setStatement.MatchString(sql):
		return nil

	default:
		return fmt.Errorf("memory adapter does not understand statement: %s", sql)
	}
}

func (c *memoryConnection) Query(ctx context.Context, sql string) ([]map[string]any, error) {
	return nil, fmt.Errorf("memory adapter does not support ad-hoc queries")
}

func (c *memoryConnection) Describe(ctx context.Context, name []string) (domain.TableMetadata, error) {
	meta, ok := c.db.get(joinPath(name))
	if !ok {
		return domain.TableMetadata{}, fmt.Errorf("table not found: %s", joinPath(name))
	}
	return meta, nil
}

func (c *memoryConnection) Close(ctx context.Context) error { return nil }

func (d *MemoryDatabase) put(name string, meta domain.TableMetadata) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables[name] = meta
}

func (d *MemoryDatabase) get(name string) (domain.TableMetadata, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m, ok := d.tables[name]
	return m, ok
}

func (d *MemoryDatabase) delete(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.tables, name)
}

func parseColumnList(colsText string) []domain.ColumnMetadata {
	var cols []domain.ColumnMetadata
	for _, part := range strings.Split(colsText, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) < 2 {
			continue
		}
		cols = append(cols, domain.ColumnMetadata{
			Name: dotPath(fields[0]),
			Type: domain.ResolveDuckDBType(strings.ToUpper(fields[1])),
		})
	}
	return cols
}

func dotPath(name string) evalexpr.NamePath { return evalexpr.NamePath(strings.Split(name, ".")) }

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
