// Package klondike implements Klondike: seven tableau columns dealt with
// hidden cards, four foundations, and a stock dealt onto a waste pile one or
// three cards at a time.
package klondike

import (
	"fmt"

	"github.com/jason-s-yu/solitaire/engine"
)

const (
	GameID         = "klondike"
	GameIDDraw3    = "klondike-draw3"
	NumColumns     = 7
	NumFoundations = 4
)

// State holds the complete state of a Klondike game. FaceUp[i] counts the
// trailing face-up cards of column i; the cards below them are face down.
// Stock and Waste keep their top card last.
type State struct {
	Tableau     [NumColumns][]engine.Card     `json:"tableau"`
	FaceUp      [NumColumns]int               `json:"faceUp"`
	Foundations [NumFoundations][]engine.Card `json:"foundations"`
	Stock       []engine.Card                 `json:"stock"`
	Waste       []engine.Card                 `json:"waste"`
	DrawCount   int                           `json:"drawCount"`
	Moves       int                           `json:"moves"`
	Seed        uint64                        `json:"seed"`
}

func (s *State) GameID() string {
	if s.DrawCount == 3 {
		return GameIDDraw3
	}
	return GameID
}

func (s *State) MoveCount() int   { return s.Moves }
func (s *State) DealSeed() uint64 { return s.Seed }

// Deal shuffles a deck from seed and lays out the classic triangle: column i
// receives i+1 cards with only its top card face up. The remaining 24 cards
// form the stock.
func Deal(seed uint64, drawCount int) *State {
	s := &State{Seed: seed, DrawCount: drawCount}
	deck := engine.Shuffle(seed)
	idx := 0
	for row := 0; row < NumColumns; row++ {
		for col := row; col < NumColumns; col++ {
			s.Tableau[col] = append(s.Tableau[col], deck[idx])
			idx++
		}
	}
	for i := range s.Tableau {
		s.Tableau[i] = engine.Clip(s.Tableau[i])
		s.FaceUp[i] = 1
	}
	s.Stock = engine.CopyPile(deck[idx:])
	return s
}

// next returns a copy of s with the move counter advanced.
func (s *State) next() *State {
	n := *s
	n.Moves++
	return &n
}

// takeFromColumn removes the top count cards of column col in s, turning the
// new top card face up when no face-up card is left.
func (s *State) takeFromColumn(col, count int) []engine.Card {
	rest, run := engine.Split(s.Tableau[col], count)
	s.Tableau[col] = rest
	s.FaceUp[col] -= count
	if s.FaceUp[col] <= 0 && len(rest) > 0 {
		s.FaceUp[col] = 1
	} else if s.FaceUp[col] < 0 {
		s.FaceUp[col] = 0
	}
	return run
}

// addToColumn places face-up cards on column col in s.
func (s *State) addToColumn(col int, cards ...engine.Card) {
	s.Tableau[col] = engine.Push(s.Tableau[col], cards...)
	s.FaceUp[col] += len(cards)
}

// CardCount returns the number of cards across all piles.
func (s *State) CardCount() int {
	n := len(s.Stock) + len(s.Waste)
	for _, col := range s.Tableau {
		n += len(col)
	}
	for _, f := range s.Foundations {
		n += len(f)
	}
	return n
}

func checkColumn(i int) {
	if i < 0 || i >= NumColumns {
		panic(fmt.Errorf("%w: tableau column %d", engine.ErrInvalidLocation, i))
	}
}

func checkFoundation(i int) {
	if i < 0 || i >= NumFoundations {
		panic(fmt.Errorf("%w: foundation %d", engine.ErrInvalidLocation, i))
	}
}
