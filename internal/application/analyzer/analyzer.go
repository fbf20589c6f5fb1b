// Package analyzer runs the four passes spec.md §4.3 describes over a
// freshly parsed Program: name resolution, dependency discovery, liveness
// pruning, and card-layout allocation. The result is a ProgramInstance the
// planner consumes to build a TaskGraph.
package analyzer

import "github.com/dashql/dashql/internal/domain"

// Analyze runs all four passes over p in order and returns the resulting
// ProgramInstance. Each pass depends on the one before it: dependency
// discovery needs resolved names, liveness needs dependency edges, and
// card allocation only visits statements liveness kept.
func Analyze(p *domain.Program) (*domain.ProgramInstance, error) {
	pi := domain.NewProgramInstance(p)

	normalizeStatementNames(pi)
	discoverStatementDependencies(pi)
	determineStatementLiveness(pi)
	allocateCardPositions(pi)

	return pi, nil
}

// Cards returns every live statement's allocated board position, in
// statement order.
func Cards(pi *domain.ProgramInstance) []domain.Card {
	return collectCards(pi)
}
