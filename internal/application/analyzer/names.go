package analyzer

import "github.com/dashql/dashql/internal/domain"

// normalizeStatementNames walks every statement that publishes an output
// name (Create, CreateAs, CreateView, Declare, Import, Load) and records
// it in pi.Names, keyed by its normalized (dot-joined, case-preserved)
// path. A later statement with the same name shadows an earlier one, the
// way a CREATE OR REPLACE / re-declare would in the source script — the
// planner resolves references against the latest definition only.
func normalizeStatementNames(pi *domain.ProgramInstance) {
	for _, stmt := range pi.Program.Statements {
		if len(stmt.Name) == 0 {
			continue
		}
		pi.Names[stmt.Name.Key()] = domain.TableRef{
			Name:        stmt.Name,
			StatementID: stmt.ID,
			IsView:      stmt.IsView,
		}
	}
}
