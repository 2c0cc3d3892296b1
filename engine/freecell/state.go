// Package freecell implements FreeCell: eight tableau columns, four free
// cells and four foundations, every card dealt face up.
package freecell

import (
	"fmt"

	"github.com/jason-s-yu/solitaire/engine"
)

const (
	GameID         = "freecell"
	NumColumns     = 8
	NumFreeCells   = 4
	NumFoundations = 4
)

// State holds the complete state of a FreeCell game. It is never modified
// after it is produced: every move returns a new State.
type State struct {
	Tableau     [NumColumns][]engine.Card     `json:"tableau"`
	FreeCells   [NumFreeCells]engine.Card     `json:"freeCells"`
	Foundations [NumFoundations][]engine.Card `json:"foundations"`
	Moves       int                           `json:"moves"`
	Seed        uint64                        `json:"seed"`
}

func (s *State) GameID() string   { return GameID }
func (s *State) MoveCount() int   { return s.Moves }
func (s *State) DealSeed() uint64 { return s.Seed }

// Deal shuffles a deck from seed and deals it round-robin into the eight
// columns, so the first four columns hold seven cards and the rest six.
func Deal(seed uint64) *State {
	s := &State{Seed: seed}
	for i := range s.FreeCells {
		s.FreeCells[i] = engine.EmptyCard
	}
	deck := engine.Shuffle(seed)
	for i, c := range deck {
		col := i % NumColumns
		s.Tableau[col] = append(s.Tableau[col], c)
	}
	for i := range s.Tableau {
		s.Tableau[i] = engine.Clip(s.Tableau[i])
	}
	return s
}

// next returns a copy of s with the move counter advanced. Piles are shared
// with s; callers replace the piles they change.
func (s *State) next() *State {
	n := *s
	n.Moves++
	return &n
}

// EmptyFreeCells returns the number of unoccupied free cells.
func (s *State) EmptyFreeCells() int {
	n := 0
	for _, c := range s.FreeCells {
		if c == engine.EmptyCard {
			n++
		}
	}
	return n
}

// EmptyColumns returns the number of empty tableau columns other than except.
func (s *State) EmptyColumns(except int) int {
	n := 0
	for i, col := range s.Tableau {
		if i != except && len(col) == 0 {
			n++
		}
	}
	return n
}

// CardCount returns the number of cards across all piles.
func (s *State) CardCount() int {
	n := 0
	for _, col := range s.Tableau {
		n += len(col)
	}
	for _, f := range s.Foundations {
		n += len(f)
	}
	return n + NumFreeCells - s.EmptyFreeCells()
}

func checkColumn(i int) {
	if i < 0 || i >= NumColumns {
		panic(fmt.Errorf("%w: tableau column %d", engine.ErrInvalidLocation, i))
	}
}

func checkFreeCell(i int) {
	if i < 0 || i >= NumFreeCells {
		panic(fmt.Errorf("%w: free cell %d", engine.ErrInvalidLocation, i))
	}
}

func checkFoundation(i int) {
	if i < 0 || i >= NumFoundations {
		panic(fmt.Errorf("%w: foundation %d", engine.ErrInvalidLocation, i))
	}
}
