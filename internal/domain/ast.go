// Package domain holds the core data model shared by the analyzer,
// planner, operators and scheduler: the parsed program, the per-analysis
// ProgramInstance, and the task graph the scheduler drives.
//
// Grammar and AST translation from source text are out of scope (spec.md
// §1) — the parser is a black box that hands us a Program. Statement is
// therefore a single flat shape discriminated by Kind, the way the
// teacher's NodeConfig/EdgeConfig model a workflow graph's nodes and edges
// (internal/application/executor/graph.go), rather than a family of
// grammar-specific node types.
package domain

import "github.com/dashql/dashql/internal/domain/evalexpr"

// StatementKind discriminates the statement variants spec.md §3 names.
type StatementKind int

const (
	StatementSelect StatementKind = iota
	StatementDeclare
	StatementImport
	StatementLoad
	StatementViz
	StatementCreate
	StatementCreateAs
	StatementCreateView
	StatementSet
)

func (k StatementKind) String() string {
	switch k {
	case StatementSelect:
		return "select"
	case StatementDeclare:
		return "declare"
	case StatementImport:
		return "import"
	case StatementLoad:
		return "load"
	case StatementViz:
		return "viz"
	case StatementCreate:
		return "create"
	case StatementCreateAs:
		return "create_as"
	case StatementCreateView:
		return "create_view"
	case StatementSet:
		return "set"
	default:
		return "unknown"
	}
}

// LoadMethod is the source format a Load statement reads from.
type LoadMethod int

const (
	LoadMethodUnspecified LoadMethod = iota
	LoadMethodCSV
	LoadMethodParquet
	LoadMethodJSON // supplemented from original_source/execution/load_info.rs; see SPEC_FULL.md §5
)

// ImportMethod is how an Import statement's URL is fetched, inferred from
// its scheme (spec.md §4.5).
type ImportMethod int

const (
	ImportMethodUnspecified ImportMethod = iota
	ImportMethodFile
	ImportMethodHTTP
	ImportMethodTest
)

// StatementID indexes a Statement within its Program.
type StatementID int

// Statement is one element of a parsed program. Not every field applies to
// every Kind; see the per-Kind comments.
type Statement struct {
	ID   StatementID
	Kind StatementKind

	// Name is the logical output name this statement produces, when it has
	// one: Create/CreateAs/CreateView.name, Declare.name, Load.name,
	// Import.name, and the variable a Set assigns. Empty for Select and Viz
	// (Viz has no output name of its own — it targets one via Target).
	Name evalexpr.NamePath

	// Target is the relation a Viz statement visualizes, or for a Load
	// statement the Import statement whose fetched data it loads (the table
	// it loads into is Name).
	Target evalexpr.NamePath

	// References lists every NamePath this statement's expressions and
	// table refs mention — the raw input to dependency discovery. It is
	// intentionally unfiltered; discoverStatementDependencies keeps only
	// the references that resolve to another statement's output name.
	References []evalexpr.NamePath

	// SQLText is the statement's literal SQL body, used verbatim by the
	// CreateTable operator instead of re-deriving it from a (not-in-scope)
	// SQL printer. For a Set it holds the assigned value's text. Empty for
	// Declare/Import/Viz.
	SQLText string

	// Extra holds the statement's DSON `extra` settings (e.g. `position`),
	// evaluated via evalexpr. Declare and Viz are the only kinds spec.md
	// reads settings from.
	Extra map[string]*evalexpr.Expression

	// IsView is set for CreateView statements (also reported on the
	// resulting TableRef.IsView).
	IsView bool

	// Load-specific.
	LoadMethod LoadMethod

	// Import-specific: FromURI must be a constant expression (evalexpr
	// .IsConstantExpression) evaluating to the source URL.
	FromURI *evalexpr.Expression
}

// Program is the arena-bound, immutable parse result for one script edit.
// A handful of fields (Extra, Target) are rewritable post-construction via
// Overlay, per Design Notes §9 — Statement itself is never mutated in
// place, avoiding the original's interior-mutability cells.
type Program struct {
	Statements []Statement

	overlays map[StatementID]*overlay
}

type overlay struct {
	extra  map[string]*evalexpr.Expression
	target *evalexpr.NamePath
}

// NewProgram constructs a Program from an ordered statement list. IDs are
// assigned to match slice position.
func NewProgram(statements []Statement) *Program {
	for i := range statements {
		statements[i].ID = StatementID(i)
	}
	return &Program{Statements: statements, overlays: map[StatementID]*overlay{}}
}

// Statement returns the statement at id, applying any overlay.
func (p *Program) Statement(id StatementID) Statement {
	s := p.Statements[id]
	if o, ok := p.overlays[id]; ok {
		if o.extra != nil {
			s.Extra = o.extra
		}
		if o.target != nil {
			s.Target = *o.target
		}
	}
	return s
}

// SetExtra overwrites a statement's DSON extra settings in the overlay,
// without mutating the arena-owned Statement.
func (p *Program) SetExtra(id StatementID, extra map[string]*evalexpr.Expression) {
	o := p.overlays[id]
	if o == nil {
		o = &overlay{}
		p.overlays[id] = o
	}
	o.extra = extra
}

// SetTarget overwrites a statement's Target in the overlay.
func (p *Program) SetTarget(id StatementID, target evalexpr.NamePath) {
	o := p.overlays[id]
	if o == nil {
		o = &overlay{}
		p.overlays[id] = o
	}
	o.target = &target
}
