package klondike

import (
	"math/rand/v2"
	"testing"

	"github.com/jason-s-yu/solitaire/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(t *testing.T, ids ...string) []engine.Card {
	t.Helper()
	out := make([]engine.Card, 0, len(ids))
	for _, id := range ids {
		c, err := engine.ParseCard(id)
		require.NoError(t, err, "parse %q", id)
		out = append(out, c)
	}
	return out
}

func multiset(s *State) map[engine.Card]int {
	m := make(map[engine.Card]int)
	add := func(pile []engine.Card) {
		for _, c := range pile {
			m[c]++
		}
	}
	for _, col := range s.Tableau {
		add(col)
	}
	for _, f := range s.Foundations {
		add(f)
	}
	add(s.Stock)
	add(s.Waste)
	return m
}

// ---------------------------------------------------------------------------
// Deal and draw
// ---------------------------------------------------------------------------

func TestDealShape(t *testing.T) {
	s := Deal(11, 1)
	for i, col := range s.Tableau {
		assert.Len(t, col, i+1, "column %d", i)
		assert.Equal(t, 1, s.FaceUp[i], "column %d", i)
	}
	assert.Len(t, s.Stock, 24)
	assert.Empty(t, s.Waste)
	assert.Equal(t, engine.DeckSize, s.CardCount())
	assert.Len(t, multiset(s), engine.DeckSize)
	assert.Equal(t, Deal(11, 1), s, "deal is deterministic")
}

func TestDrawAndRecycle(t *testing.T) {
	s := &State{DrawCount: 1, Stock: cards(t, "3♣", "2♣", "A♣")}

	s1, ok := Draw(s)
	require.True(t, ok)
	assert.Equal(t, cards(t, "A♣"), s1.Waste)
	s2, _ := Draw(s1)
	s3, _ := Draw(s2)
	assert.Empty(t, s3.Stock)
	assert.Equal(t, cards(t, "A♣", "2♣", "3♣"), s3.Waste)

	s4, ok := Draw(s3)
	require.True(t, ok, "recycle")
	assert.Equal(t, cards(t, "3♣", "2♣", "A♣"), s4.Stock, "stock order restored")
	assert.Empty(t, s4.Waste)
	assert.Equal(t, 4, s4.Moves)

	_, ok = Draw(&State{DrawCount: 1})
	assert.False(t, ok)
}

func TestDrawThree(t *testing.T) {
	s := &State{DrawCount: 3, Stock: cards(t, "5♠", "4♠", "3♠", "2♠")}
	s1, ok := Draw(s)
	require.True(t, ok)
	assert.Equal(t, cards(t, "5♠"), s1.Stock)
	assert.Equal(t, cards(t, "2♠", "3♠", "4♠"), s1.Waste)
	assert.Equal(t, cards(t, "4♠")[0], engine.Top(s1.Waste))

	s2, _ := Draw(s1)
	assert.Equal(t, cards(t, "2♠", "3♠", "4♠", "5♠"), s2.Waste, "short stock draws what is left")
}

// ---------------------------------------------------------------------------
// Tableau
// ---------------------------------------------------------------------------

func TestMoveRevealsFaceDownCard(t *testing.T) {
	s := &State{DrawCount: 1}
	s.Tableau[0] = cards(t, "9♣", "4♦", "6♥")
	s.FaceUp[0] = 1
	s.Tableau[1] = cards(t, "7♠")
	s.FaceUp[1] = 1

	next, ok := MoveTableauToTableau(s, 0, 1, 1)
	require.True(t, ok)
	assert.Equal(t, cards(t, "9♣", "4♦"), next.Tableau[0])
	assert.Equal(t, 1, next.FaceUp[0], "new top card turned up")
	assert.Equal(t, 2, next.FaceUp[1])
	assert.Equal(t, 1, s.FaceUp[0], "old state untouched")
}

func TestFaceDownCardsCannotMove(t *testing.T) {
	s := &State{DrawCount: 1}
	s.Tableau[0] = cards(t, "9♣", "8♦", "7♠")
	s.FaceUp[0] = 2
	s.Tableau[1] = cards(t, "10♥")
	s.FaceUp[1] = 1

	_, ok := MoveTableauToTableau(s, 0, 1, 3)
	assert.False(t, ok)

	g := New(1)
	assert.False(t, g.IsFaceUp(s, engine.Tableau(0), 0))
	assert.True(t, g.IsFaceUp(s, engine.Tableau(0), 1))
	assert.Nil(t, ValidMoves(s, engine.Tableau(0).WithCount(3)))
}

func TestOnlyKingOnEmptyColumn(t *testing.T) {
	s := &State{DrawCount: 1}
	s.Tableau[0] = cards(t, "Q♥")
	s.FaceUp[0] = 1
	s.Waste = cards(t, "K♠")

	_, ok := MoveTableauToTableau(s, 0, 2, 1)
	assert.False(t, ok)

	next, ok := MoveWasteToTableau(s, 2)
	require.True(t, ok)
	assert.Equal(t, cards(t, "K♠"), next.Tableau[2])
	assert.Equal(t, 1, next.FaceUp[2])

	next, ok = MoveTableauToTableau(next, 0, 2, 1)
	require.True(t, ok)
	assert.Equal(t, cards(t, "K♠", "Q♥"), next.Tableau[2])
	assert.Empty(t, next.Tableau[0])
	assert.Equal(t, 0, next.FaceUp[0])
}

func TestWasteAndFoundationMoves(t *testing.T) {
	s := &State{DrawCount: 1}
	s.Waste = cards(t, "A♦")
	next, ok := MoveWasteToFoundation(s, 2)
	require.True(t, ok)
	assert.Equal(t, cards(t, "A♦"), next.Foundations[2])

	next.Tableau[4] = cards(t, "2♣")
	next.FaceUp[4] = 1
	back, ok := MoveFoundationToTableau(next, 2, 4)
	require.True(t, ok)
	assert.Equal(t, cards(t, "2♣", "A♦"), back.Tableau[4])
	assert.Empty(t, back.Foundations[2])
}

// ---------------------------------------------------------------------------
// Game contract
// ---------------------------------------------------------------------------

func TestStockEnumeratesWaste(t *testing.T) {
	g := New(1)
	st := g.Initialize(5)
	assert.Equal(t, []engine.Location{engine.Waste()}, g.EnumerateMoves(st, engine.Stock()))

	next, ok := g.ExecuteMove(st, engine.Stock(), engine.Waste())
	require.True(t, ok)
	assert.Len(t, g.OccupantAt(next, engine.Waste()), 1)
	assert.False(t, g.IsFaceUp(next, engine.Stock(), 0))
}

func TestValidateAgreesWithExecute(t *testing.T) {
	for _, g := range []Game{New(1), New(3)} {
		rng := rand.New(rand.NewPCG(3, 4))
		st := g.Initialize(2024)
		for step := 0; step < 120; step++ {
			s := st.(*State)
			var froms []engine.Location
			froms = append(froms, engine.Stock(), engine.Waste())
			for i, col := range s.Tableau {
				froms = append(froms, engine.Tableau(i))
				for n := 1; n <= len(col); n++ {
					froms = append(froms, engine.Tableau(i).WithCount(n))
				}
			}
			for i := 0; i < NumFoundations; i++ {
				froms = append(froms, engine.Foundation(i))
			}
			var tos []engine.Location
			tos = append(tos, engine.Stock(), engine.Waste())
			for i := 0; i < NumColumns; i++ {
				tos = append(tos, engine.Tableau(i))
			}
			for i := 0; i < NumFoundations; i++ {
				tos = append(tos, engine.Foundation(i))
			}

			var legal []engine.Move
			for _, from := range froms {
				for _, to := range tos {
					next, ok := g.ExecuteMove(st, from, to)
					require.Equal(t, ok, g.ValidateMove(st, from, to), "%s -> %s", from, to)
					if !ok {
						continue
					}
					n := next.(*State)
					assert.Equal(t, multiset(s), multiset(n), "cards conserved by %s -> %s", from, to)
					for i, col := range n.Tableau {
						if len(col) > 0 {
							assert.GreaterOrEqual(t, n.FaceUp[i], 1, "column %d has a face-up top", i)
						}
					}
					legal = append(legal, engine.Move{From: from, To: to})
				}
				for _, to := range g.EnumerateMoves(st, from) {
					assert.True(t, g.ValidateMove(st, from, to), "enumerated %s -> %s", from, to)
				}
			}
			if len(legal) == 0 {
				break
			}
			m := legal[rng.IntN(len(legal))]
			st, _ = g.ExecuteMove(st, m.From, m.To)
		}
	}
}

func TestVariantsRejectEachOthersState(t *testing.T) {
	st := New(3).Initialize(1)
	assert.Equal(t, GameIDDraw3, st.GameID())
	assert.Panics(t, func() { New(1).IsWon(st) })
}

func TestHintFallsBackToDraw(t *testing.T) {
	s := &State{DrawCount: 1, Stock: cards(t, "9♣")}
	s.Tableau[0] = cards(t, "5♥")
	s.FaceUp[0] = 1
	m, ok := New(1).Hint(s)
	require.True(t, ok)
	assert.Equal(t, engine.Move{From: engine.Stock(), To: engine.Waste()}, m)
}

func TestAutoMovesFromWasteAndTableau(t *testing.T) {
	s := &State{DrawCount: 1, Waste: cards(t, "A♠")}
	s.Tableau[3] = cards(t, "8♦", "2♠")
	s.FaceUp[3] = 1
	moves := New(1).AutoMoves(s)
	require.Len(t, moves, 2)
	assert.Equal(t, engine.Waste(), moves[0].From)
	assert.Equal(t, engine.Tableau(3).WithCount(1), moves[1].From)
}
