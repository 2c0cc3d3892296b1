package engine

import (
	"encoding/json"
	"fmt"
)

// PileKind identifies a kind of pile on the board.
type PileKind uint8

const (
	KindTableau    PileKind = iota // 0
	KindFoundation                 // 1
	KindFreeCell                   // 2
	KindStock                      // 3
	KindWaste                      // 4
)

var kindNames = [...]string{"tableau", "foundation", "freecell", "stock", "waste"}

func (k PileKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k PileKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *PileKind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = PileKind(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown pile kind %q", ErrInvalidLocation, b)
}

// ---------------------------------------------------------------------------
// Selector
// ---------------------------------------------------------------------------

type selectorMode uint8

const (
	selUnspecified selectorMode = iota
	selByCount
	selByIndex
)

// Selector qualifies how many cards of a pile a Location refers to. It is
// either unspecified, a count of cards taken from the top of the pile, or the
// index of the first selected card. The two specified forms describe the same
// fact: count = pileLen - index.
type Selector struct {
	mode selectorMode
	n    int
}

// ByCount selects the top n cards of a pile.
func ByCount(n int) Selector { return Selector{mode: selByCount, n: n} }

// ByIndex selects every card from position i to the top of a pile.
func ByIndex(i int) Selector { return Selector{mode: selByIndex, n: i} }

// Specified reports whether the selector carries a count or an index.
func (s Selector) Specified() bool { return s.mode != selUnspecified }

// Count normalizes the selector to a number of cards for a pile of pileLen
// cards. ok is false when the selector is unspecified.
func (s Selector) Count(pileLen int) (n int, ok bool) {
	switch s.mode {
	case selByCount:
		return s.n, true
	case selByIndex:
		return pileLen - s.n, true
	}
	return 0, false
}

func (s Selector) String() string {
	switch s.mode {
	case selByCount:
		return fmt.Sprintf("count=%d", s.n)
	case selByIndex:
		return fmt.Sprintf("index=%d", s.n)
	}
	return ""
}

// ---------------------------------------------------------------------------
// Location
// ---------------------------------------------------------------------------

// Location describes a place on the board a move starts from or ends at.
// It is a request descriptor, not board state.
type Location struct {
	Kind  PileKind
	Index int
	Sel   Selector
}

// Tableau returns the location of tableau column i.
func Tableau(i int) Location { return Location{Kind: KindTableau, Index: i} }

// Foundation returns the location of foundation pile i.
func Foundation(i int) Location { return Location{Kind: KindFoundation, Index: i} }

// FreeCell returns the location of free cell i.
func FreeCell(i int) Location { return Location{Kind: KindFreeCell, Index: i} }

// Stock returns the location of the stock.
func Stock() Location { return Location{Kind: KindStock} }

// Waste returns the location of the waste pile.
func Waste() Location { return Location{Kind: KindWaste} }

// WithCount returns a copy of l selecting the top n cards.
func (l Location) WithCount(n int) Location {
	l.Sel = ByCount(n)
	return l
}

// WithIndex returns a copy of l selecting the cards from position i upwards.
func (l Location) WithIndex(i int) Location {
	l.Sel = ByIndex(i)
	return l
}

// Pile returns l without its selector.
func (l Location) Pile() Location {
	l.Sel = Selector{}
	return l
}

// Normalize converts an index selector into the equivalent count selector
// for a pile of pileLen cards.
func (l Location) Normalize(pileLen int) Location {
	if n, ok := l.Sel.Count(pileLen); ok {
		l.Sel = ByCount(n)
	}
	return l
}

// Matches is the lenient equality used to match a click against enumerated
// destinations: kind and index must be equal, selectors are compared only
// when both sides carry one.
func (l Location) Matches(o Location) bool {
	if l.Kind != o.Kind || l.Index != o.Index {
		return false
	}
	if !l.Sel.Specified() || !o.Sel.Specified() {
		return true
	}
	return l.Sel == o.Sel
}

// SelectsSingle reports whether l names at most the top card of a pile of
// pileLen cards: its selector is unspecified or counts exactly one card.
func (l Location) SelectsSingle(pileLen int) bool {
	n, ok := l.Sel.Count(pileLen)
	return !ok || n == 1
}

// SamePile reports whether l and o address the same pile.
func (l Location) SamePile(o Location) bool {
	return l.Kind == o.Kind && l.Index == o.Index
}

func (l Location) String() string {
	s := fmt.Sprintf("%s[%d]", l.Kind, l.Index)
	if l.Sel.Specified() {
		s += "{" + l.Sel.String() + "}"
	}
	return s
}

type locationJSON struct {
	Kind  PileKind `json:"kind"`
	Index int      `json:"index"`
	Count *int     `json:"count,omitempty"`
	Card  *int     `json:"cardIndex,omitempty"`
}

// MarshalJSON encodes l as {"kind":..,"index":..} plus an optional "count"
// or "cardIndex" qualifier.
func (l Location) MarshalJSON() ([]byte, error) {
	out := locationJSON{Kind: l.Kind, Index: l.Index}
	n := l.Sel.n
	switch l.Sel.mode {
	case selByCount:
		out.Count = &n
	case selByIndex:
		out.Card = &n
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON. Supplying both
// qualifiers is rejected.
func (l *Location) UnmarshalJSON(b []byte) error {
	var in locationJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*l = Location{Kind: in.Kind, Index: in.Index}
	switch {
	case in.Count != nil && in.Card != nil:
		return fmt.Errorf("%w: both count and cardIndex given", ErrInvalidSelection)
	case in.Count != nil:
		l.Sel = ByCount(*in.Count)
	case in.Card != nil:
		l.Sel = ByIndex(*in.Card)
	}
	return nil
}

// Move is a pair of locations.
type Move struct {
	From Location `json:"from"`
	To   Location `json:"to"`
}

func (m Move) String() string { return m.From.String() + "->" + m.To.String() }
