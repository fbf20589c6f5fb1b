package analyzer

import "github.com/dashql/dashql/internal/domain"

// determineStatementLiveness runs a DFS over Dependencies, seeded from
// every Viz and Declare statement (spec.md §4.3: these are the only
// statements with an externally observable effect — a rendered card —
// independent of whether anything else references them). Every statement
// reachable by following Dependencies backward from a root is live;
// everything else, including a standalone Set with no live dependent, is
// pruned and produces no task.
func determineStatementLiveness(pi *domain.ProgramInstance) {
	var roots []domain.StatementID
	for _, stmt := range pi.Program.Statements {
		switch stmt.Kind {
		case domain.StatementViz, domain.StatementDeclare:
			roots = append(roots, stmt.ID)
		}
	}

	visited := map[domain.StatementID]struct{}{}
	stack := roots
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		stack = append(stack, pi.Dependencies[id]...)
	}

	pi.Live = visited
}
