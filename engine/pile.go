package engine

import "fmt"

// Piles are shared between successive states. These helpers never write into
// a slice they were given: the remaining part of a pile is returned with its
// capacity clipped, and growing a pile always allocates.

// Split removes the top n cards of pile. rest aliases pile with its capacity
// clipped; run is a fresh copy. It panics wrapping ErrInvalidSelection when
// n is negative or larger than the pile.
func Split(pile []Card, n int) (rest, run []Card) {
	if n < 0 || n > len(pile) {
		panic(fmt.Errorf("%w: take %d of %d cards", ErrInvalidSelection, n, len(pile)))
	}
	cut := len(pile) - n
	rest = pile[:cut:cut]
	run = append([]Card(nil), pile[cut:]...)
	return rest, run
}

// Push returns a new pile holding pile followed by cards.
func Push(pile []Card, cards ...Card) []Card {
	out := make([]Card, 0, len(pile)+len(cards))
	out = append(out, pile...)
	return append(out, cards...)
}

// Clip returns pile with its capacity clipped to its length, or nil for an
// empty pile.
func Clip(pile []Card) []Card {
	if len(pile) == 0 {
		return nil
	}
	return pile[:len(pile):len(pile)]
}

// CopyPile returns a fresh copy of pile, or nil for an empty pile.
func CopyPile(pile []Card) []Card {
	if len(pile) == 0 {
		return nil
	}
	return append([]Card(nil), pile...)
}

// Select returns a copy of the cards loc refers to in pile: the top cards
// named by its selector, or the whole pile when the selector is unspecified.
// It panics wrapping ErrInvalidSelection when the selector does not fit the
// pile.
func Select(pile []Card, loc Location) []Card {
	n, ok := loc.Sel.Count(len(pile))
	if !ok {
		return CopyPile(pile)
	}
	if n < 1 || n > len(pile) {
		panic(fmt.Errorf("%w: %s on a pile of %d cards", ErrInvalidSelection, loc, len(pile)))
	}
	return CopyPile(pile[len(pile)-n:])
}
