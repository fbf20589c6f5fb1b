package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

func TestAnalyze_LivenessPrunesUnreferencedStatements(t *testing.T) {
	// create sales (...)           -- referenced by the viz below, stays live
	// create scratch (...)         -- nothing references it, pruned
	// viz sales                    -- a root
	stmts := []domain.Statement{
		{Kind: domain.StatementCreate, Name: evalexpr.NamePath{"sales"}, SQLText: "select 1"},
		{Kind: domain.StatementCreate, Name: evalexpr.NamePath{"scratch"}, SQLText: "select 2"},
		{Kind: domain.StatementViz, Target: evalexpr.NamePath{"sales"}},
	}
	p := domain.NewProgram(stmts)

	pi, err := Analyze(p)
	require.NoError(t, err)

	assert.True(t, pi.IsLive(0), "sales is reachable from the viz")
	assert.False(t, pi.IsLive(1), "scratch has no referencing viz/declare/set")
	assert.True(t, pi.IsLive(2), "viz is always a root")
}

func TestAnalyze_ResolvesDependenciesByName(t *testing.T) {
	stmts := []domain.Statement{
		{Kind: domain.StatementCreate, Name: evalexpr.NamePath{"base"}, SQLText: "select 1"},
		{Kind: domain.StatementCreateAs, Name: evalexpr.NamePath{"derived"}, References: []evalexpr.NamePath{{"base"}}},
		{Kind: domain.StatementViz, Target: evalexpr.NamePath{"derived"}},
	}
	p := domain.NewProgram(stmts)

	pi, err := Analyze(p)
	require.NoError(t, err)

	assert.Equal(t, []domain.StatementID{0}, pi.Dependencies[1])
	assert.Equal(t, []domain.StatementID{1}, pi.Dependents[0])
	assert.True(t, pi.IsLive(0))
}

func TestAnalyze_LaterDefinitionShadowsEarlierName(t *testing.T) {
	stmts := []domain.Statement{
		{Kind: domain.StatementCreate, Name: evalexpr.NamePath{"t"}, SQLText: "select 1"},
		{Kind: domain.StatementCreate, Name: evalexpr.NamePath{"t"}, SQLText: "select 2"},
		{Kind: domain.StatementViz, Target: evalexpr.NamePath{"t"}},
	}
	p := domain.NewProgram(stmts)

	pi, err := Analyze(p)
	require.NoError(t, err)

	ref, ok := pi.Resolve(evalexpr.NamePath{"t"})
	require.True(t, ok)
	assert.Equal(t, domain.StatementID(1), ref.StatementID)
}

func TestAnalyze_AllocatesCardsForLiveVizAndDeclareOnly(t *testing.T) {
	stmts := []domain.Statement{
		{Kind: domain.StatementDeclare, Name: evalexpr.NamePath{"threshold"}},
		{Kind: domain.StatementCreate, Name: evalexpr.NamePath{"sales"}, SQLText: "select 1"},
		{Kind: domain.StatementViz, Target: evalexpr.NamePath{"sales"}},
	}
	p := domain.NewProgram(stmts)

	pi, err := Analyze(p)
	require.NoError(t, err)

	cards := Cards(pi)
	ids := map[domain.StatementID]bool{}
	for _, c := range cards {
		ids[c.StatementID] = true
	}
	assert.True(t, ids[0], "declare gets a card")
	assert.True(t, ids[2], "viz gets a card")
	assert.False(t, ids[1], "a plain create never gets a card")
}

func TestAnalyze_DeclareDefaultsToA3x1Card(t *testing.T) {
	stmts := []domain.Statement{
		{Kind: domain.StatementDeclare, Name: evalexpr.NamePath{"threshold"}},
		{Kind: domain.StatementViz, Target: evalexpr.NamePath{"threshold"}},
	}
	p := domain.NewProgram(stmts)

	pi, err := Analyze(p)
	require.NoError(t, err)

	declare := pi.Cards[0].Position
	assert.Equal(t, 3, declare.Width, "declare cards default to the 3-wide input footprint, not the 12-wide viz default")
	assert.Equal(t, 1, declare.Height)

	viz := pi.Cards[1].Position
	assert.Equal(t, 12, viz.Width, "viz cards keep the 12x4 default")
	assert.Equal(t, 4, viz.Height)
}

func TestAnalyze_AllocatesAllDeclaresBeforeAnyViz(t *testing.T) {
	// An interleaved script (viz, declare, viz) still allocates every
	// declare first, so the two vizs land adjacent to each other rather
	// than straddling the declare placed between them in program order.
	stmts := []domain.Statement{
		{Kind: domain.StatementCreate, Name: evalexpr.NamePath{"sales"}, SQLText: "select 1"},
		{Kind: domain.StatementViz, Target: evalexpr.NamePath{"sales"}},
		{Kind: domain.StatementDeclare, Name: evalexpr.NamePath{"threshold"}},
		{Kind: domain.StatementViz, Target: evalexpr.NamePath{"sales"}},
	}
	p := domain.NewProgram(stmts)

	pi, err := Analyze(p)
	require.NoError(t, err)

	declare := pi.Cards[2].Position
	firstViz := pi.Cards[1].Position
	secondViz := pi.Cards[3].Position

	assert.Equal(t, 0, declare.Row, "the declare is allocated first and claims row 0")
	assert.Equal(t, 1, firstViz.Row, "the first viz is allocated next and lands directly below the declare, since a 12-wide card can't share its row")
	assert.Equal(t, firstViz.Row+firstViz.Height, secondViz.Row, "the second viz stacks directly below the first")
}

func TestAnalyze_InvalidPositionExtraKeepsDefaultAndRecordsNodeError(t *testing.T) {
	stmts := []domain.Statement{
		{Kind: domain.StatementCreate, Name: evalexpr.NamePath{"sales"}, SQLText: "select 1"},
		{
			Kind:   domain.StatementViz,
			Target: evalexpr.NamePath{"sales"},
			Extra: map[string]*evalexpr.Expression{
				"position.width": {Kind: evalexpr.ExprFunctionCall, FunctionName: "not_a_real_function"},
			},
		},
	}
	p := domain.NewProgram(stmts)

	pi, err := Analyze(p)
	require.NoError(t, err, "a bad position extra is a non-fatal diagnostic, not an analysis failure")

	assert.Equal(t, 12, pi.Cards[1].Position.Width, "the failed field keeps its default instead of zeroing out")
	require.Len(t, pi.NodeErrors, 1)
	assert.Equal(t, domain.StatementID(1), pi.NodeErrors[0].StatementID)
}
