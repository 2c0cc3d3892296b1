package freecell

import (
	"github.com/jason-s-yu/solitaire/engine"
)

var (
	stackRules      = engine.DefaultStackRules()
	foundationRules = engine.DefaultFoundationRules()
)

// MaxMovable returns how many cards can move as one run onto column dest:
// (emptyFreeCells + 1) × 2^emptyColumns, where the destination column is
// never counted as empty. A negative dest counts every empty column.
func MaxMovable(s *State, dest int) int {
	return (s.EmptyFreeCells() + 1) << s.EmptyColumns(dest)
}

// MoveTableauToFreeCell moves the top card of column col into free cell cell.
func MoveTableauToFreeCell(s *State, col, cell int) (*State, bool) {
	checkColumn(col)
	checkFreeCell(cell)
	if len(s.Tableau[col]) == 0 || s.FreeCells[cell] != engine.EmptyCard {
		return nil, false
	}
	n := s.next()
	rest, run := engine.Split(s.Tableau[col], 1)
	n.Tableau[col] = rest
	n.FreeCells[cell] = run[0]
	return n, true
}

// MoveTableauToFoundation moves the top card of column col onto foundation f.
func MoveTableauToFoundation(s *State, col, f int) (*State, bool) {
	checkColumn(col)
	checkFoundation(f)
	card := engine.Top(s.Tableau[col])
	if !engine.CanStackOnFoundation(card, engine.Top(s.Foundations[f]), foundationRules) {
		return nil, false
	}
	n := s.next()
	n.Tableau[col], _ = engine.Split(s.Tableau[col], 1)
	n.Foundations[f] = engine.Push(s.Foundations[f], card)
	return n, true
}

// MoveFreeCellToFoundation moves the card in free cell cell onto foundation f.
func MoveFreeCellToFoundation(s *State, cell, f int) (*State, bool) {
	checkFreeCell(cell)
	checkFoundation(f)
	card := s.FreeCells[cell]
	if !engine.CanStackOnFoundation(card, engine.Top(s.Foundations[f]), foundationRules) {
		return nil, false
	}
	n := s.next()
	n.FreeCells[cell] = engine.EmptyCard
	n.Foundations[f] = engine.Push(s.Foundations[f], card)
	return n, true
}

// MoveFreeCellToTableau moves the card in free cell cell onto column col.
func MoveFreeCellToTableau(s *State, cell, col int) (*State, bool) {
	checkFreeCell(cell)
	checkColumn(col)
	card := s.FreeCells[cell]
	if !engine.CanStackDescending(card, engine.Top(s.Tableau[col]), stackRules) {
		return nil, false
	}
	n := s.next()
	n.FreeCells[cell] = engine.EmptyCard
	n.Tableau[col] = engine.Push(s.Tableau[col], card)
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
	n.Tableau[col] = engine.Push(s.Tableau[col], card)
	return n, true
}

// MoveFoundationToFreeCell takes the top card of foundation f into free cell cell.
func MoveFoundationToFreeCell(s *State, f, cell int) (*State, bool) {
	checkFoundation(f)
	checkFreeCell(cell)
	if len(s.Foundations[f]) == 0 || s.FreeCells[cell] != engine.EmptyCard {
		return nil, false
	}
	n := s.next()
	rest, run := engine.Split(s.Foundations[f], 1)
	n.Foundations[f] = rest
	n.FreeCells[cell] = run[0]
	return n, true
}

// MoveTableauToTableau moves the top numCards cards of column from onto
// column to. The run must be a valid tableau sequence and fit within
// MaxMovable. It panics if numCards is negative or exceeds the column length.
func MoveTableauToTableau(s *State, from, to, numCards int) (*State, bool) {
	checkColumn(from)
	checkColumn(to)
	if from == to {
		return nil, false
	}
	rest, run := engine.Split(s.Tableau[from], numCards)
	if numCards == 0 {
		return nil, false
	}
	if !engine.IsValidTableauSequence(run) || numCards > MaxMovable(s, to) {
		return nil, false
	}
	if !engine.CanStackDescending(run[0], engine.Top(s.Tableau[to]), stackRules) {
		return nil, false
	}
	n := s.next()
	n.Tableau[from] = rest
	n.Tableau[to] = engine.Push(s.Tableau[to], run...)
	return n, true
}
