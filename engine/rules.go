package engine

// StackRules holds the tableau stacking settings a game variant applies.
type StackRules struct {
	RequireAlternatingColors bool
	AllowEmptyTarget         bool
	EmptyTargetRank          uint8 // 0 = any card may start an empty column
}

// DefaultStackRules returns the standard descending, alternating-colour rules.
func DefaultStackRules() StackRules {
	return StackRules{
		RequireAlternatingColors: true,
		AllowEmptyTarget:         true,
		EmptyTargetRank:          0,
	}
}

// FoundationRules holds the foundation building settings a game variant applies.
type FoundationRules struct {
	RequireSameSuit bool
}

// DefaultFoundationRules returns the standard same-suit foundation rules.
func DefaultFoundationRules() FoundationRules {
	return FoundationRules{RequireSameSuit: true}
}

// SameColor reports whether a and b are both red or both black.
func SameColor(a, b Card) bool { return a.Color() == b.Color() }

// AlternatingColors reports whether a and b differ in colour.
func AlternatingColors(a, b Card) bool { return a.Color() != b.Color() }

// CanStackDescending reports whether candidate may be placed on target in a
// tableau column. target is EmptyCard for an empty column.
func CanStackDescending(candidate, target Card, r StackRules) bool {
	if candidate == EmptyCard {
		return false
	}
	if target == EmptyCard {
		if !r.AllowEmptyTarget {
			return false
		}
		return r.EmptyTargetRank == 0 || candidate.Rank() == r.EmptyTargetRank
	}
	if candidate.Rank()+1 != target.Rank() {
		return false
	}
	return !r.RequireAlternatingColors || AlternatingColors(candidate, target)
}

// CanStackOnFoundation reports whether candidate may be placed on a
// foundation pile whose top card is top (EmptyCard for an empty pile).
func CanStackOnFoundation(candidate, top Card, r FoundationRules) bool {
	if candidate == EmptyCard {
		return false
	}
	if top == EmptyCard {
		return candidate.Rank() == RankAce
	}
	if candidate.Rank() != top.Rank()+1 {
		return false
	}
	return !r.RequireSameSuit || candidate.Suit() == top.Suit()
}

// PairValidator decides whether upper may lie directly on lower in a run.
type PairValidator func(lower, upper Card) bool

// IsValidSequence folds v over each consecutive pair of cards, ordered from
// the bottom of the run to its top. Empty and single-card runs are valid.
func IsValidSequence(cards []Card, v PairValidator) bool {
	for i := 1; i < len(cards); i++ {
		if !v(cards[i-1], cards[i]) {
			return false
		}
	}
	return true
}

// DescendingAlternating is the standard tableau pair validator.
func DescendingAlternating(lower, upper Card) bool {
	return lower != EmptyCard && CanStackDescending(upper, lower, DefaultStackRules())
}

// IsValidTableauSequence reports whether cards form a descending run of
// alternating colours.
func IsValidTableauSequence(cards []Card) bool {
	return IsValidSequence(cards, DescendingAlternating)
}

// MaxRunLength returns the length of the longest suffix of pile that forms a
// valid sequence under v. It is 0 only for an empty pile.
func MaxRunLength(pile []Card, v PairValidator) int {
	if len(pile) == 0 {
		return 0
	}
	n := 1
	for i := len(pile) - 1; i > 0; i-- {
		if !v(pile[i-1], pile[i]) {
			break
		}
		n++
	}
	return n
}

// SafeForFoundation reports whether moving card to a foundation can never
// block a later tableau build: aces and twos always, otherwise when both
// foundations of the opposite colour already hold rank-1. tops holds the top
// card of every foundation pile.
func SafeForFoundation(card Card, tops []Card) bool {
	if card.Rank() <= RankTwo {
		return true
	}
	opposite := 0
	for _, t := range tops {
		if t == EmptyCard || t.Color() == card.Color() {
			continue
		}
		if t.Rank() >= card.Rank()-1 {
			opposite++
		}
	}
	return opposite >= 2
}
