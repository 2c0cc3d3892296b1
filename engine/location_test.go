package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestParseCard verifies every card's ID parses back to the same card.
func TestParseCard(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range NewDeck() {
		id := c.ID()
		if seen[id] {
			t.Errorf("duplicate ID %q", id)
		}
		seen[id] = true
		got, err := ParseCard(id)
		if err != nil || got != c {
			t.Errorf("ParseCard(%q) = %v, %v; want %v", id, got, err, c)
		}
	}
	for _, bad := range []string{"", "1♠", "11♥", "A", "A♠♠", "Z♣"} {
		if _, err := ParseCard(bad); !errors.Is(err, ErrInvalidCard) {
			t.Errorf("ParseCard(%q) err = %v, want ErrInvalidCard", bad, err)
		}
	}
}

// TestShuffleDeterministic checks that a seed always yields the same deck and
// that every card appears once.
func TestShuffleDeterministic(t *testing.T) {
	a, b := Shuffle(7), Shuffle(7)
	if a != b {
		t.Fatal("same seed produced different decks")
	}
	if Shuffle(8) == a {
		t.Error("different seeds produced the same deck")
	}
	seen := make(map[Card]bool)
	for _, c := range a {
		if !c.Valid() || seen[c] {
			t.Errorf("bad or duplicate card %v", c)
		}
		seen[c] = true
	}
	if Shuffle(0) != Shuffle(0) {
		t.Error("seed 0 is not deterministic")
	}
}

// TestLocationMatches covers the lenient comparison used for destinations.
func TestLocationMatches(t *testing.T) {
	tests := []struct {
		a, b Location
		want bool
	}{
		{Tableau(2), Tableau(2), true},
		{Tableau(2), Tableau(2).WithCount(3), true},
		{Tableau(2).WithCount(3), Tableau(2), true},
		{Tableau(2).WithCount(3), Tableau(2).WithCount(3), true},
		{Tableau(2).WithCount(3), Tableau(2).WithCount(1), false},
		{Tableau(2), Tableau(3), false},
		{Tableau(0), Foundation(0), false},
		{Stock(), Stock(), true},
	}
	for _, tt := range tests {
		if got := tt.a.Matches(tt.b); got != tt.want {
			t.Errorf("%s.Matches(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestSelectorNormalize checks that index and count selectors agree.
func TestSelectorNormalize(t *testing.T) {
	loc := Tableau(1).WithIndex(3).Normalize(5)
	if loc != Tableau(1).WithCount(2) {
		t.Errorf("Normalize = %s, want count=2", loc)
	}
	if !loc.Matches(Tableau(1).WithIndex(3).Normalize(5)) {
		t.Error("normalized selectors should match")
	}
	if n, ok := (Selector{}).Count(5); ok || n != 0 {
		t.Errorf("unspecified Count = %d, %v", n, ok)
	}
	if !Waste().SelectsSingle(4) || !Waste().WithCount(1).SelectsSingle(4) || Waste().WithCount(2).SelectsSingle(4) {
		t.Error("SelectsSingle mismatch")
	}
	if Tableau(1).WithCount(2).Pile() != Tableau(1) {
		t.Error("Pile should drop the selector")
	}
}

// TestLocationJSON checks the wire form and rejection of double qualifiers.
func TestLocationJSON(t *testing.T) {
	b, err := json.Marshal(Tableau(3).WithCount(2))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"kind":"tableau","index":3,"count":2}` {
		t.Errorf("Marshal = %s", b)
	}

	var loc Location
	if err := json.Unmarshal([]byte(`{"kind":"freecell","index":1,"cardIndex":0}`), &loc); err != nil {
		t.Fatal(err)
	}
	if loc != FreeCell(1).WithIndex(0) {
		t.Errorf("Unmarshal = %s", loc)
	}

	err = json.Unmarshal([]byte(`{"kind":"tableau","index":0,"count":1,"cardIndex":2}`), &loc)
	if !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("double qualifier err = %v", err)
	}
	err = json.Unmarshal([]byte(`{"kind":"pyramid","index":0}`), &loc)
	if !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("unknown kind err = %v", err)
	}
}

// TestLayoutCheck verifies bounds checking and source ordering.
func TestLayoutCheck(t *testing.T) {
	l := Layout{Tableau: 7, Foundations: 4, Stock: true, Waste: true}
	for _, loc := range []Location{Tableau(0), Tableau(6), Foundation(3), Stock(), Waste()} {
		if err := l.Check(loc); err != nil {
			t.Errorf("Check(%s) = %v", loc, err)
		}
	}
	for _, loc := range []Location{Tableau(7), Tableau(-1), FreeCell(0), Foundation(4)} {
		if err := l.Check(loc); !errors.Is(err, ErrInvalidLocation) {
			t.Errorf("Check(%s) = %v, want ErrInvalidLocation", loc, err)
		}
	}
	src := l.Sources()
	if len(src) != 12 || src[0] != Waste() || src[1] != Tableau(0) || src[11] != Foundation(3) {
		t.Errorf("Sources = %v", src)
	}
}
