package analyzer

import (
	"github.com/dashql/dashql/internal/domain"
	"github.com/dashql/dashql/internal/domain/board"
	"github.com/dashql/dashql/internal/domain/evalexpr"
)

// Input (Declare) cards default to a 3x1 footprint; board.Allocate's own
// 12x4 default is sized for a Viz card (spec.md §3/§4.3).
const (
	defaultInputCardWidth  = 3
	defaultInputCardHeight = 1
)

// allocateCardPositions lays out every live Declare and Viz statement on a
// shared board.Space: all Declares first, in program order, then all
// Vizs, in program order (spec.md §4.3 and the original's two-pass
// allocate_card_positions) — an interleaved script allocates the same way
// regardless of where a Viz sits relative to the Declares around it. A
// position() extra that fails to evaluate or cast is recorded as a
// non-fatal NodeError and the field's default is kept (spec.md §7):
// analysis still completes and the script is still planned.
func allocateCardPositions(pi *domain.ProgramInstance) {
	space := board.New()
	allocateKind(pi, space, domain.StatementDeclare)
	allocateKind(pi, space, domain.StatementViz)
}

func allocateKind(pi *domain.ProgramInstance, space *board.Space, kind domain.StatementKind) {
	for _, stmt := range pi.Program.Statements {
		if stmt.Kind != kind || !pi.IsLive(stmt.ID) {
			continue
		}

		pref := defaultPosition(kind)
		for _, err := range applyPositionOverrides(&pref, pi, stmt) {
			pi.NodeErrors = append(pi.NodeErrors, domain.NewNodeError(stmt.ID, err))
		}

		pos := space.Allocate(pref)
		pi.Cards[stmt.ID] = domain.Card{StatementID: stmt.ID, Position: pos}
	}
}

// defaultPosition seeds the card's fallback size before any position()
// override is applied. Declare gets the 3x1 input default; Viz leaves
// every field zero so board.Allocate substitutes its own 12x4 default.
func defaultPosition(kind domain.StatementKind) board.Position {
	if kind == domain.StatementDeclare {
		return board.Position{Width: defaultInputCardWidth, Height: defaultInputCardHeight}
	}
	return board.Position{}
}

// applyPositionOverrides reads stmt's flat `position.row`,
// `position.column`, `position.width` and `position.height` extra keys,
// evaluating each one and truncating it to an int, and overwrites pos's
// fields in place. No constant-expression check is made. A field that's absent
// keeps whatever default pos already carries; a field that fails to
// evaluate or cast also keeps its default and contributes one error to
// the returned slice instead of aborting the remaining fields.
func applyPositionOverrides(pos *board.Position, pi *domain.ProgramInstance, stmt domain.Statement) []error {
	extra := pi.Program.Statement(stmt.ID).Extra
	if extra == nil {
		return nil
	}

	ctx := evalexpr.NewContext(nil)
	var errs []error
	for _, field := range []struct {
		name string
		dest *int
	}{
		{"row", &pos.Row},
		{"column", &pos.Column},
		{"width", &pos.Width},
		{"height", &pos.Height},
	} {
		fieldExpr, ok := extra[positionFieldKey(field.name)]
		if !ok || fieldExpr == nil {
			continue
		}
		v, err := evalexpr.Evaluate(ctx, fieldExpr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		n, err := evalexpr.TruncateToInt(v)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*field.dest = n
	}
	return errs
}

func positionFieldKey(name string) string {
	return "position." + name
}

// collectCards returns every live statement's allocated card, in
// statement order.
func collectCards(pi *domain.ProgramInstance) []domain.Card {
	cards := make([]domain.Card, 0, len(pi.Cards))
	for _, stmt := range pi.Program.Statements {
		if c, ok := pi.Cards[stmt.ID]; ok {
			cards = append(cards, c)
		}
	}
	return cards
}
