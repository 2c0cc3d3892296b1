package klondike

import (
	"github.com/jason-s-yu/solitaire/engine"
)

// ValidMoves returns every legal destination for the card or run at from,
// other tableau columns first and then foundations (single cards only). The
// stock has a single destination, the waste, while a draw is possible.
func ValidMoves(s *State, from engine.Location) []engine.Location {
	var cards []engine.Card
	switch from.Kind {
	case engine.KindStock:
		if CanDraw(s) {
			return []engine.Location{engine.Waste()}
		}
		return nil
	case engine.KindTableau:
		checkColumn(from.Index)
		col := s.Tableau[from.Index]
		if len(col) == 0 {
			return nil
		}
		n := runLength(s, from)
		if n < 1 || n > s.FaceUp[from.Index] {
			return nil
		}
		cards = col[len(col)-n:]
		if !engine.IsValidTableauSequence(cards) {
			return nil
		}
	case engine.KindWaste:
		if c := engine.Top(s.Waste); c != engine.EmptyCard && from.SelectsSingle(len(s.Waste)) {
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
		if engine.CanStackDescending(lead, engine.Top(col), stackRules) {
			out = append(out, engine.Tableau(i))
		}
	}
	if len(cards) > 1 || from.Kind == engine.KindFoundation {
		return out
	}
	for i, f := range s.Foundations {
		if engine.CanStackOnFoundation(lead, engine.Top(f), foundationRules) {
			out = append(out, engine.Foundation(i))
		}
	}
	return out
}
