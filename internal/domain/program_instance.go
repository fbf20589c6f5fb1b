package domain

import (
	"github.com/dashql/dashql/internal/domain/board"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

// TableRef is a resolved statement output: the logical name a Create,
// CreateAs, CreateView, Declare, Import or Load statement publishes, and
// which statement owns it.
type TableRef struct {
	Name        evalexpr.NamePath
	StatementID StatementID
	IsView      bool
}

// Card is a board-space rectangle allocated for a Declare or Viz
// statement, the only two kinds spec.md's analyzer lays out.
type Card struct {
	StatementID StatementID
	Position    board.Position
}

// ProgramInstance is the result of analyzing one Program: normalized
// names, the dependency edges between statements, which statements are
// live, and the board layout for live Declare/Viz statements. The planner
// consumes a ProgramInstance, never a bare Program.
type ProgramInstance struct {
	Program *Program

	// Names maps a statement's normalized output name to its TableRef.
	// Populated by the analyzer's normalizeStatementNames.
	Names map[string]TableRef

	// Dependencies maps a statement to the statement ids whose output it
	// references, in discovery order (no duplicates). Populated by the
	// analyzer's discoverStatementDependencies.
	Dependencies map[StatementID][]StatementID

	// Dependents is the reverse of Dependencies.
	Dependents map[StatementID][]StatementID

	// Live holds every statement id determined reachable from a Viz or
	// Declare root by the analyzer's determineStatementLiveness. Statements absent from
	// Live are dead and produce no task.
	Live map[StatementID]struct{}

	// Cards holds the allocated board position for every live Declare and
	// Viz statement, populated by the analyzer's allocateCardPositions.
	Cards map[StatementID]Card

	// NodeErrors collects non-fatal diagnostics raised during analysis
	// (spec.md §3's node_error_messages) — currently just position()
	// extras that failed to evaluate or cast during card allocation.
	// Analysis still completes and the script is still planned; these are
	// surfaced to the frontend alongside the card they concern.
	NodeErrors []NodeError
}

// NewProgramInstance wraps a freshly parsed Program ahead of analysis. All
// analysis maps start empty; the analyzer's passes populate them in order.
func NewProgramInstance(p *Program) *ProgramInstance {
	return &ProgramInstance{
		Program:      p,
		Names:        map[string]TableRef{},
		Dependencies: map[StatementID][]StatementID{},
		Dependents:   map[StatementID][]StatementID{},
		Live:         map[StatementID]struct{}{},
		Cards:        map[StatementID]Card{},
	}
}

// IsLive reports whether id survived liveness pruning.
func (pi *ProgramInstance) IsLive(id StatementID) bool {
	_, ok := pi.Live[id]
	return ok
}

// Resolve looks up the TableRef a name path resolves to, if any statement
// in the program publishes it.
func (pi *ProgramInstance) Resolve(name evalexpr.NamePath) (TableRef, bool) {
	ref, ok := pi.Names[name.Key()]
	return ref, ok
}
