package engine

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// NewDeck returns the 52 cards ordered by suit, then rank.
func NewDeck() [DeckSize]Card {
	var deck [DeckSize]Card
	idx := 0
	for suit := Suit(0); suit < NumSuits; suit++ {
		for rank := RankAce; rank <= RankKing; rank++ {
			deck[idx] = NewCard(suit, rank)
			idx++
		}
	}
	return deck
}

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

type rng uint64

func newRNG(seed uint64) rng {
	if seed == 0 {
		return 1 // xorshift can't start at 0
	}
	return rng(seed)
}

func (r *rng) next() uint64 {
	x := uint64(*r)
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*r = rng(x)
	return x
}

// intn returns a random number in [0, n).
func (r *rng) intn(n uint64) uint64 {
	return r.next() % n
}

// Shuffle returns a deck shuffled deterministically from seed (Fisher-Yates).
// The same seed always yields the same order.
func Shuffle(seed uint64) [DeckSize]Card {
	deck := NewDeck()
	r := newRNG(seed)
	for i := DeckSize - 1; i > 0; i-- {
		j := int(r.intn(uint64(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}
