package klondike

import (
	"github.com/jason-s-yu/solitaire/engine"
)

// Only a King may start an empty column.
var (
	stackRules = engine.StackRules{
		RequireAlternatingColors: true,
		AllowEmptyTarget:         true,
		EmptyTargetRank:          engine.RankKing,
	}
	foundationRules = engine.DefaultFoundationRules()
)

// Draw deals DrawCount cards (fewer if the stock runs short) from the stock
// onto the waste, each turned face up. With an empty stock it turns the waste
// over to form a new stock. With both empty there is nothing to draw.
func Draw(s *State) (*State, bool) {
	if len(s.Stock) == 0 {
		if len(s.Waste) == 0 {
			return nil, false
		}
		n := s.next()
		n.Stock = reversed(s.Waste)
		n.Waste = nil
		return n, true
	}
	count := max(s.DrawCount, 1)
	count = min(count, len(s.Stock))
	n := s.next()
	rest, drawn := engine.Split(s.Stock, count)
	n.Stock = rest
	n.Waste = engine.Push(s.Waste, reversed(drawn)...)
	return n, true
}

// CanDraw reports whether Draw would succeed.
func CanDraw(s *State) bool { return len(s.Stock) > 0 || len(s.Waste) > 0 }

func reversed(cards []engine.Card) []engine.Card {
	out := make([]engine.Card, len(cards))
	for i, c := range cards {
		out[len(cards)-1-i] = c
	}
	return out
}

// MoveWasteToTableau moves the top waste card onto column col.
func MoveWasteToTableau(s *State, col int) (*State, bool) {
	checkColumn(col)
	card := engine.Top(s.Waste)
	if !engine.CanStackDescending(card, engine.Top(s.Tableau[col]), stackRules) {
		return nil, false
	}
	n := s.next()
	n.Waste, _ = engine.Split(s.Waste, 1)
	n.addToColumn(col, card)
	return n, true
}

// MoveWasteToFoundation moves the top waste card onto foundation f.
func MoveWasteToFoundation(s *State, f int) (*State, bool) {
	checkFoundation(f)
	card := engine.Top(s.Waste)
	if !engine.CanStackOnFoundation(card, engine.Top(s.Foundations[f]), foundationRules) {
		return nil, false
	}
	n := s.next()
	n.Waste, _ = engine.Split(s.Waste, 1)
	n.Foundations[f] = engine.Push(s.Foundations[f], card)
	return n, true
}

// MoveTableauToFoundation moves the top card of column col onto foundation f.
func MoveTableauToFoundation(s *State, col, f int) (*State, bool) {
	checkColumn(col)
	checkFoundation(f)
	card := engine.Top(s.Tableau[col])
	if s.FaceUp[col] < 1 || !engine.CanStackOnFoundation(card, engine.Top(s.Foundations[f]), foundationRules) {
		return nil, false
	}
	n := s.next()
	n.takeFromColumn(col, 1)
	n.Foundations[f] = engine.Push(s.Foundations[f], card)
	return n, true
}

// MoveTableauToTableau moves the top numCards cards of column from onto
// column to. Every moved card must be face up and the run a valid tableau
// sequence. It panics if numCards is negative or exceeds the column length.
func MoveTableauToTableau(s *State, from, to, numCards int) (*State, bool) {
	checkColumn(from)
	checkColumn(to)
	if from == to {
		return nil, false
	}
	_, run := engine.Split(s.Tableau[from], numCards)
	if numCards == 0 || numCards > s.FaceUp[from] || !engine.IsValidTableauSequence(run) {
		return nil, false
	}
	if !engine.CanStackDescending(run[0], engine.Top(s.Tableau[to]), stackRules) {
		return nil, false
	}
	n := s.next()
	n.takeFromColumn(from, numCards)
	n.addToColumn(to, run...)
	return n, true
}

// MoveFoundationToTableau takes the top card of foundation f back onto column col.
func MoveFoundationToTableau(s *State, f, col int) (*State, bool) {
	checkFoundation(f)
	checkColumn(col)
	card := engine.Top(s.Foundations[f])
	if !engine.CanStackDescending(card, engine.Top(s.Tableau[col]), stackRules) {
		return nil, false
	}
	n := s.next()
	n.Foundations[f], _ = engine.Split(s.Foundations[f], 1)
	n.addToColumn(col, card)
	return n, true
}
