package freecell

import (
	"github.com/jason-s-yu/solitaire/engine"
)

// ValidMoves returns every legal destination for the card or run at from.
//
// For a tableau source the run is the one named by the selector, or the
// maximal valid run at the bottom of the column. Destinations are listed in
// a fixed order: other tableau columns, then foundations (single cards
// only), then free cells (single cards only, never from a free cell).
func ValidMoves(s *State, from engine.Location) []engine.Location {
	var cards []engine.Card
	switch from.Kind {
	case engine.KindTableau:
		checkColumn(from.Index)
		col := s.Tableau[from.Index]
		if len(col) == 0 {
			return nil
		}
		n := runLength(col, from)
		cards = col[len(col)-n:]
		if !engine.IsValidTableauSequence(cards) {
			return nil
		}
	case engine.KindFreeCell:
		checkFreeCell(from.Index)
		if c := s.FreeCells[from.Index]; c != engine.EmptyCard && from.SelectsSingle(1) {
			cards = []engine.Card{c}
		}
	case engine.KindFoundation:
		checkFoundation(from.Index)
		f := s.Foundations[from.Index]
		if c := engine.Top(f); c != engine.EmptyCard && from.SelectsSingle(len(f)) {
			cards = []engine.Card{c}
		}
	}
	if len(cards) == 0 {
		return nil
	}

	var out []engine.Location
	lead := cards[0]
	for i, col := range s.Tableau {
		if from.Kind == engine.KindTableau && i == from.Index {
			continue
		}
		if engine.CanStackDescending(lead, engine.Top(col), stackRules) && len(cards) <= MaxMovable(s, i) {
			out = append(out, engine.Tableau(i))
		}
	}
	if len(cards) > 1 {
		return out
	}
	if from.Kind != engine.KindFoundation {
		for i, f := range s.Foundations {
			if engine.CanStackOnFoundation(lead, engine.Top(f), foundationRules) {
				out = append(out, engine.Foundation(i))
			}
		}
	}
	if from.Kind != engine.KindFreeCell {
		for i, c := range s.FreeCells {
			if c == engine.EmptyCard {
				out = append(out, engine.FreeCell(i))
			}
		}
	}
	return out
}
