package freecell

import (
	"fmt"

	"github.com/jason-s-yu/solitaire/engine"
)

// Game adapts the FreeCell move functions to engine.Game.
type Game struct{}

var (
	_ engine.Game           = Game{}
	_ engine.MoveEnumerator = Game{}
	_ engine.Hinter         = Game{}
	_ engine.AutoMover      = Game{}
)

var layout = engine.Layout{
	Tableau:     NumColumns,
	Foundations: NumFoundations,
	FreeCells:   NumFreeCells,
}

// New returns the FreeCell game.
func New() Game { return Game{} }

func (Game) ID() string            { return GameID }
func (Game) Name() string          { return "FreeCell" }
func (Game) Layout() engine.Layout { return layout }

func (Game) Initialize(seed uint64) engine.State { return Deal(seed) }

func (g Game) ValidateMove(s engine.State, from, to engine.Location) bool {
	_, ok := g.ExecuteMove(s, from, to)
	return ok
}

func (Game) ExecuteMove(st engine.State, from, to engine.Location) (engine.State, bool) {
	s := mustState(st)
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
	case engine.KindTableau:
		col := s.Tableau[from.Index]
		if len(col) == 0 {
			return nil, false
		}
		if to.Kind == engine.KindTableau {
			return MoveTableauToTableau(s, from.Index, to.Index, runLength(col, from))
		}
		if n, ok := from.Sel.Count(len(col)); ok && n != 1 {
			checkSelection(col, from, n)
			return nil, false
		}
		switch to.Kind {
		case engine.KindFreeCell:
			return MoveTableauToFreeCell(s, from.Index, to.Index)
		case engine.KindFoundation:
			return MoveTableauToFoundation(s, from.Index, to.Index)
		}
	case engine.KindFreeCell:
		if !from.SelectsSingle(1) {
			return nil, false
		}
		switch to.Kind {
		case engine.KindTableau:
			return MoveFreeCellToTableau(s, from.Index, to.Index)
		case engine.KindFoundation:
			return MoveFreeCellToFoundation(s, from.Index, to.Index)
		}
	case engine.KindFoundation:
		if !from.SelectsSingle(len(s.Foundations[from.Index])) {
			return nil, false
		}
		switch to.Kind {
		case engine.KindTableau:
			return MoveFoundationToTableau(s, from.Index, to.Index)
		case engine.KindFreeCell:
			return MoveFoundationToFreeCell(s, from.Index, to.Index)
		}
	}
	return nil, false
}

// runLength returns the number of cards loc selects in col: its selector
// count, or the maximal valid run when unspecified.
func runLength(col []engine.Card, loc engine.Location) int {
	n, ok := loc.Sel.Count(len(col))
	if !ok {
		return engine.MaxRunLength(col, engine.DescendingAlternating)
	}
	checkSelection(col, loc, n)
	return n
}

func checkSelection(col []engine.Card, loc engine.Location, n int) {
	if n < 1 || n > len(col) {
		panic(fmt.Errorf("%w: %s on a column of %d cards", engine.ErrInvalidSelection, loc, len(col)))
	}
}

func (Game) OccupantAt(st engine.State, loc engine.Location) []engine.Card {
	s := mustState(st)
	layout.MustCheck(loc)
	switch loc.Kind {
	case engine.KindTableau:
		return engine.Select(s.Tableau[loc.Index], loc)
	case engine.KindFoundation:
		return engine.Select(s.Foundations[loc.Index], loc)
	case engine.KindFreeCell:
		if c := s.FreeCells[loc.Index]; c != engine.EmptyCard {
			return []engine.Card{c}
		}
	}
	return nil
}

// IsFaceUp is true for every card: FreeCell deals face up.
func (g Game) IsFaceUp(st engine.State, loc engine.Location, index int) bool {
	size := len(g.OccupantAt(st, loc.Pile()))
	if index < 0 || index >= size {
		panic(fmt.Errorf("%w: card %d of %s (%d cards)", engine.ErrInvalidSelection, index, loc, size))
	}
	return true
}

func (Game) IsWon(st engine.State) bool {
	s := mustState(st)
	for _, f := range s.Foundations {
		if len(f) != int(engine.RankKing) {
			return false
		}
	}
	return true
}

func (Game) EnumerateMoves(st engine.State, from engine.Location) []engine.Location {
	s := mustState(st)
	layout.MustCheck(from)
	return ValidMoves(s, from)
}

func (g Game) Hint(st engine.State) (engine.Move, bool) {
	return engine.SuggestMove(g, mustState(st))
}

func (g Game) AutoMoves(st engine.State) []engine.Move {
	return engine.CollectAutoMoves(g, mustState(st))
}

func mustState(st engine.State) *State {
	s, ok := st.(*State)
	if !ok || s == nil {
		panic(fmt.Errorf("%w: freecell got %T", engine.ErrWrongState, st))
	}
	return s
}
