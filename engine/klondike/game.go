package klondike

import (
	"fmt"

	"github.com/jason-s-yu/solitaire/engine"
)

// Game adapts the Klondike move functions to engine.Game. The draw count
// distinguishes the draw-one and draw-three variants.
type Game struct {
	drawCount int
}

var (
	_ engine.Game           = Game{}
	_ engine.MoveEnumerator = Game{}
	_ engine.Hinter         = Game{}
	_ engine.AutoMover      = Game{}
)

var layout = engine.Layout{
	Tableau:     NumColumns,
	Foundations: NumFoundations,
	Stock:       true,
	Waste:       true,
}

// New returns Klondike dealing drawCount cards per draw. Only 1 and 3 are
// supported.
func New(drawCount int) Game {
	if drawCount != 1 && drawCount != 3 {
		panic(fmt.Sprintf("klondike: unsupported draw count %d", drawCount))
	}
	return Game{drawCount: drawCount}
}

func (g Game) ID() string {
	if g.drawCount == 3 {
		return GameIDDraw3
	}
	return GameID
}

func (g Game) Name() string {
	if g.drawCount == 3 {
		return "Klondike (draw 3)"
	}
	return "Klondike"
}

func (Game) Layout() engine.Layout { return layout }

func (g Game) Initialize(seed uint64) engine.State { return Deal(seed, g.drawCount) }

func (g Game) ValidateMove(s engine.State, from, to engine.Location) bool {
	_, ok := g.ExecuteMove(s, from, to)
	return ok
}

func (g Game) ExecuteMove(st engine.State, from, to engine.Location) (engine.State, bool) {
	s := g.mustState(st)
	layout.MustCheck(from)
	layout.MustCheck(to)
	next, ok := apply(s, from, to)
	if !ok {
		return nil, false
	}
	return next, true
}

// apply dispatches a location pair to its move function.
func apply(s *State, from, to engine.Location) (*State, bool) {
	switch from.Kind {
	case engine.KindStock:
		if to.Kind == engine.KindWaste {
			return Draw(s)
		}
	case engine.KindTableau:
		col := s.Tableau[from.Index]
		if len(col) == 0 {
			return nil, false
		}
		n := runLength(s, from)
		switch to.Kind {
		case engine.KindTableau:
			return MoveTableauToTableau(s, from.Index, to.Index, n)
		case engine.KindFoundation:
			if from.Sel.Specified() && n != 1 {
				return nil, false
			}
			return MoveTableauToFoundation(s, from.Index, to.Index)
		}
	case engine.KindWaste:
		if !from.SelectsSingle(len(s.Waste)) {
			return nil, false
		}
		switch to.Kind {
		case engine.KindTableau:
			return MoveWasteToTableau(s, to.Index)
		case engine.KindFoundation:
			return MoveWasteToFoundation(s, to.Index)
		}
	case engine.KindFoundation:
		if to.Kind == engine.KindTableau && from.SelectsSingle(len(s.Foundations[from.Index])) {
			return MoveFoundationToTableau(s, from.Index, to.Index)
		}
	}
	return nil, false
}

// runLength returns the number of cards loc selects in its column: the
// selector count, or the maximal valid face-up run when unspecified.
func runLength(s *State, loc engine.Location) int {
	col := s.Tableau[loc.Index]
	n, ok := loc.Sel.Count(len(col))
	if !ok {
		return min(engine.MaxRunLength(col, engine.DescendingAlternating), s.FaceUp[loc.Index])
	}
	if n < 1 || n > len(col) {
		panic(fmt.Errorf("%w: %s on a column of %d cards", engine.ErrInvalidSelection, loc, len(col)))
	}
	return n
}

func (g Game) OccupantAt(st engine.State, loc engine.Location) []engine.Card {
	s := g.mustState(st)
	layout.MustCheck(loc)
	return engine.Select(pile(s, loc), loc)
}

func pile(s *State, loc engine.Location) []engine.Card {
	switch loc.Kind {
	case engine.KindTableau:
		return s.Tableau[loc.Index]
	case engine.KindFoundation:
		return s.Foundations[loc.Index]
	case engine.KindStock:
		return s.Stock
	case engine.KindWaste:
		return s.Waste
	}
	return nil
}

// IsFaceUp reports whether card index of the pile at loc is visible. Stock
// cards are face down; in a column only the trailing FaceUp cards are up.
func (g Game) IsFaceUp(st engine.State, loc engine.Location, index int) bool {
	s := g.mustState(st)
	layout.MustCheck(loc)
	p := pile(s, loc)
	if index < 0 || index >= len(p) {
		panic(fmt.Errorf("%w: card %d of %s (%d cards)", engine.ErrInvalidSelection, index, loc, len(p)))
	}
	switch loc.Kind {
	case engine.KindStock:
		return false
	case engine.KindTableau:
		return index >= len(p)-s.FaceUp[loc.Index]
	}
	return true
}

func (g Game) IsWon(st engine.State) bool {
	s := g.mustState(st)
	for _, f := range s.Foundations {
		if len(f) != int(engine.RankKing) {
			return false
		}
	}
	return true
}

func (g Game) EnumerateMoves(st engine.State, from engine.Location) []engine.Location {
	s := g.mustState(st)
	layout.MustCheck(from)
	return ValidMoves(s, from)
}

// Hint suggests a card move, falling back to drawing from the stock.
func (g Game) Hint(st engine.State) (engine.Move, bool) {
	s := g.mustState(st)
	if m, ok := engine.SuggestMove(g, s); ok {
		return m, true
	}
	if CanDraw(s) {
		return engine.Move{From: engine.Stock(), To: engine.Waste()}, true
	}
	return engine.Move{}, false
}

func (g Game) AutoMoves(st engine.State) []engine.Move {
	return engine.CollectAutoMoves(g, g.mustState(st))
}

func (g Game) mustState(st engine.State) *State {
	s, ok := st.(*State)
	if !ok || s == nil || s.GameID() != g.ID() {
		panic(fmt.Errorf("%w: %s got %T", engine.ErrWrongState, g.ID(), st))
	}
	return s
}
