package analyzer

import "github.com/dashql/dashql/internal/domain"

// discoverStatementDependencies resolves every statement's References (and,
// for Viz/Load, Target) against pi.Names, keeping only the references that
// resolve to another statement's published output — an unresolved name is
// either a base table the runtime already knows about or a typo the
// operator will surface at execution time, not an analysis-time error
// (spec.md §4.3).
//
// Self-references are dropped (a statement never depends on itself) and
// duplicates are collapsed, preserving first-seen order so Dependencies is
// stable across repeated analyses of the same program.
func discoverStatementDependencies(pi *domain.ProgramInstance) {
	for _, stmt := range pi.Program.Statements {
		seen := map[domain.StatementID]struct{}{}
		addDep := func(name []string) {
			if len(name) == 0 {
				return
			}
			ref, ok := pi.Names[joinKey(name)]
			if !ok || ref.StatementID == stmt.ID {
				return
			}
			if _, dup := seen[ref.StatementID]; dup {
				return
			}
			seen[ref.StatementID] = struct{}{}
			pi.Dependencies[stmt.ID] = append(pi.Dependencies[stmt.ID], ref.StatementID)
			pi.Dependents[ref.StatementID] = append(pi.Dependents[ref.StatementID], stmt.ID)
		}

		for _, ref := range stmt.References {
			addDep(ref)
		}
		if len(stmt.Target) > 0 {
			addDep(stmt.Target)
		}
	}
}

func joinKey(path []string) string {
	s := ""
	for i, c := range path {
		if i > 0 {
			s += "."
		}
		s += c
	}
	return s
}
