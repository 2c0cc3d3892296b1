package engine

import (
	"fmt"
	"strings"
)

// Suit identifies one of the four French suits. Packed into the upper 4 bits of Card.
type Suit uint8

const (
	SuitHearts   Suit = 0
	SuitDiamonds Suit = 1
	SuitClubs    Suit = 2
	SuitSpades   Suit = 3
)

// NumSuits is the number of suits in a standard deck.
const NumSuits = 4

// Rank constants, packed into the lower 4 bits of Card. Ranks are 1-based.
const (
	RankAce   uint8 = 1
	RankTwo   uint8 = 2
	RankJack  uint8 = 11
	RankQueen uint8 = 12
	RankKing  uint8 = 13
)

var suitSymbols = [NumSuits]string{"♥", "♦", "♣", "♠"}
var suitNames = [NumSuits]string{"hearts", "diamonds", "clubs", "spades"}

// Symbol returns the display symbol of the suit.
func (s Suit) Symbol() string {
	if int(s) >= NumSuits {
		return "?"
	}
	return suitSymbols[s]
}

func (s Suit) String() string {
	if int(s) >= NumSuits {
		return fmt.Sprintf("suit(%d)", uint8(s))
	}
	return suitNames[s]
}

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool { return s == SuitHearts || s == SuitDiamonds }

// Color is the red/black colour of a card.
type Color uint8

const (
	Red   Color = 0
	Black Color = 1
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank (1–13).
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from suit and rank.
func NewCard(suit Suit, rank uint8) Card {
	return Card((uint8(suit) << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() Suit { return Suit(uint8(c) >> 4) }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// IsEmpty reports whether c is the EmptyCard sentinel.
func (c Card) IsEmpty() bool { return c == EmptyCard }

// Color returns Red for hearts and diamonds, Black otherwise.
func (c Card) Color() Color {
	if c.Suit().IsRed() {
		return Red
	}
	return Black
}

// Value returns the display label of the rank: "A", "2".."10", "J", "Q", "K".
func (c Card) Value() string {
	switch r := c.Rank(); {
	case c == EmptyCard:
		return ""
	case r == RankAce:
		return "A"
	case r >= 2 && r <= 10:
		return fmt.Sprint(r)
	case r == RankJack:
		return "J"
	case r == RankQueen:
		return "Q"
	case r == RankKing:
		return "K"
	}
	return "?"
}

// ID returns the value label followed by the suit symbol, e.g. "10♥".
// It is unique across a 52-card deck.
func (c Card) ID() string {
	if c == EmptyCard {
		return ""
	}
	return c.Value() + c.Suit().Symbol()
}

func (c Card) String() string {
	if c == EmptyCard {
		return "--"
	}
	return c.ID()
}

// Valid reports whether c encodes a real card of a standard deck.
func (c Card) Valid() bool {
	return int(c.Suit()) < NumSuits && c.Rank() >= RankAce && c.Rank() <= RankKing
}

// MarshalText encodes the card as its ID.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.ID()), nil
}

// UnmarshalText decodes a card ID produced by MarshalText. An empty ID
// decodes to EmptyCard.
func (c *Card) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = EmptyCard
		return nil
	}
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses an ID such as "A♠" or "10♥".
func ParseCard(id string) (Card, error) {
	for s, sym := range suitSymbols {
		value, ok := strings.CutSuffix(id, sym)
		if !ok {
			continue
		}
		for r := RankAce; r <= RankKing; r++ {
			c := NewCard(Suit(s), r)
			if c.Value() == value {
				return c, nil
			}
		}
		break
	}
	return EmptyCard, fmt.Errorf("%w: %q", ErrInvalidCard, id)
}

// Top returns the last card of pile, or EmptyCard if the pile is empty.
func Top(pile []Card) Card {
	if len(pile) == 0 {
		return EmptyCard
	}
	return pile[len(pile)-1]
}
