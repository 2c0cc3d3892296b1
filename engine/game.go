// Package engine implements the rules shared by the solitaire games.
//
// It provides the card and location model, the stacking predicates every game
// builds on, and the Game contract through which a driver runs any registered
// game without knowing its specifics. All functions are pure: game states are
// values, and a move always yields a new state instead of changing the old one.
package engine

import "fmt"

// Layout declares the fixed board shape of a game type.
type Layout struct {
	Tableau     int  `json:"tableau"`
	Foundations int  `json:"foundations"`
	FreeCells   int  `json:"freeCells"`
	Stock       bool `json:"stock"`
	Waste       bool `json:"waste"`
}

// Count returns the number of piles of kind k.
func (l Layout) Count(k PileKind) int {
	switch k {
	case KindTableau:
		return l.Tableau
	case KindFoundation:
		return l.Foundations
	case KindFreeCell:
		return l.FreeCells
	case KindStock:
		if l.Stock {
			return 1
		}
	case KindWaste:
		if l.Waste {
			return 1
		}
	}
	return 0
}

// Check returns an error wrapping ErrInvalidLocation if loc does not address
// a pile of this layout.
func (l Layout) Check(loc Location) error {
	if loc.Index < 0 || loc.Index >= l.Count(loc.Kind) {
		return fmt.Errorf("%w: %s", ErrInvalidLocation, loc)
	}
	return nil
}

// Sources returns every pile a card can be moved from, in the order hints
// consider them: waste, free cells, tableau columns, foundations.
func (l Layout) Sources() []Location {
	var out []Location
	if l.Waste {
		out = append(out, Waste())
	}
	for i := 0; i < l.FreeCells; i++ {
		out = append(out, FreeCell(i))
	}
	for i := 0; i < l.Tableau; i++ {
		out = append(out, Tableau(i))
	}
	for i := 0; i < l.Foundations; i++ {
		out = append(out, Foundation(i))
	}
	return out
}

// MustCheck panics if loc does not address a pile of this layout.
func (l Layout) MustCheck(loc Location) {
	if err := l.Check(loc); err != nil {
		panic(err)
	}
}

// State is implemented by the state value of every game type. States are
// plain data and are never modified after they are produced.
type State interface {
	GameID() string
	MoveCount() int
	DealSeed() uint64
}

// Game is the capability contract every game type implements.
//
// ValidateMove and ExecuteMove never disagree: a move validates exactly when
// executing it succeeds. Passing a state produced by a different game, or a
// location outside the game's layout, is a contract violation and panics.
type Game interface {
	ID() string
	Name() string
	Layout() Layout
	Initialize(seed uint64) State
	ValidateMove(s State, from, to Location) bool
	ExecuteMove(s State, from, to Location) (State, bool)
	// OccupantAt returns the cards at loc: the selected run when loc carries
	// a selector, the whole pile otherwise. Nil means the location is empty.
	OccupantAt(s State, loc Location) []Card
	IsFaceUp(s State, loc Location, index int) bool
	IsWon(s State) bool
}

// MoveEnumerator is implemented by games that can list legal destinations.
type MoveEnumerator interface {
	// EnumerateMoves returns every legal destination for the card or run at
	// from, in the game's fixed tie-break order.
	EnumerateMoves(s State, from Location) []Location
}

// Hinter is implemented by games that can suggest a move.
type Hinter interface {
	Hint(s State) (Move, bool)
}

// AutoMover is implemented by games that can compute automatic moves.
type AutoMover interface {
	// AutoMoves returns moves that are safe to apply without asking, in the
	// order they must be applied starting from s.
	AutoMoves(s State) []Move
}

// SuggestMove scans the layout's sources and returns the first enumerated
// move, preferring any move onto a foundation.
func SuggestMove(g Game, s State) (Move, bool) {
	en, ok := g.(MoveEnumerator)
	if !ok {
		return Move{}, false
	}
	var first *Move
	for _, from := range g.Layout().Sources() {
		if from.Kind == KindFoundation {
			continue
		}
		for _, to := range en.EnumerateMoves(s, from) {
			if to.Kind == KindFoundation {
				return Move{From: from, To: to}, true
			}
			if first == nil && !pointlessColumnMove(g, s, from, to) {
				first = &Move{From: from, To: to}
			}
		}
	}
	if first == nil {
		return Move{}, false
	}
	return *first, true
}

// pointlessColumnMove reports a column-to-column move that relocates an
// entire column into an empty one, which never makes progress.
func pointlessColumnMove(g Game, s State, from, to Location) bool {
	if from.Kind != KindTableau || to.Kind != KindTableau || len(g.OccupantAt(s, to)) != 0 {
		return false
	}
	return runLength(g, s, from) == len(g.OccupantAt(s, from))
}

func runLength(g Game, s State, from Location) int {
	pile := g.OccupantAt(s, from)
	n := 0
	for i := len(pile) - 1; i >= 0 && g.IsFaceUp(s, from, i); i-- {
		if i < len(pile)-1 && !DescendingAlternating(pile[i], pile[i+1]) {
			break
		}
		n++
	}
	return n
}

// CollectAutoMoves repeatedly moves the first card that is safe to send to a
// foundation and returns the moves in application order.
func CollectAutoMoves(g Game, s State) []Move {
	layout := g.Layout()
	var moves []Move
	for {
		m, next, ok := nextSafeMove(g, s, layout)
		if !ok {
			return moves
		}
		moves = append(moves, m)
		s = next
	}
}

func nextSafeMove(g Game, s State, layout Layout) (Move, State, bool) {
	tops := make([]Card, layout.Foundations)
	for i := range tops {
		tops[i] = Top(g.OccupantAt(s, Foundation(i)))
	}
	for _, from := range layout.Sources() {
		if from.Kind == KindFoundation {
			continue
		}
		pile := g.OccupantAt(s, from)
		card := Top(pile)
		if card == EmptyCard || !g.IsFaceUp(s, from, len(pile)-1) || !SafeForFoundation(card, tops) {
			continue
		}
		single := from
		if from.Kind == KindTableau {
			single = from.WithCount(1)
		}
		for f := 0; f < layout.Foundations; f++ {
			if next, ok := g.ExecuteMove(s, single, Foundation(f)); ok {
				return Move{From: single, To: Foundation(f)}, next, true
			}
		}
	}
	return Move{}, nil, false
}

// CheckLocation validates loc against g's layout and, when loc carries a
// selector, against the current size of its pile in s. Drivers call it on
// untrusted input before handing a location to the engine.
func CheckLocation(g Game, s State, loc Location) error {
	if err := g.Layout().Check(loc); err != nil {
		return err
	}
	if !loc.Sel.Specified() {
		return nil
	}
	size := len(g.OccupantAt(s, loc.Pile()))
	if n, _ := loc.Sel.Count(size); n < 1 || n > size {
		return fmt.Errorf("%w: %s on a pile of %d cards", ErrInvalidSelection, loc, size)
	}
	return nil
}
