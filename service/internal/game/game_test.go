// internal/game/game_test.go
package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jason-s-yu/solitaire/engine"
	"github.com/jason-s-yu/solitaire/engine/freecell"
	"github.com/jason-s-yu/solitaire/engine/games"
	"github.com/jason-s-yu/solitaire/engine/klondike"
	"github.com/jason-s-yu/solitaire/service/internal/cache"
	"github.com/jason-s-yu/solitaire/service/internal/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster captures session events for testing assertions.
type mockBroadcaster struct {
	mu        sync.Mutex
	allEvents []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = nil
}

// findEventByType returns the last event of type t.
func (mb *mockBroadcaster) findEventByType(t GameEventType) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.allEvents) - 1; i >= 0; i-- {
		if mb.allEvents[i].Type == t {
			ev := mb.allEvents[i]
			return &ev
		}
	}
	return nil
}

func (mb *mockBroadcaster) count(t GameEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.allEvents {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// fakeHistorian records published moves.
type fakeHistorian struct {
	records chan cache.MoveRecord
}

func (h *fakeHistorian) PublishMove(_ context.Context, rec cache.MoveRecord) error {
	h.records <- rec
	return nil
}

func setupSession(t *testing.T, opts SessionOptions) (*Session, *mockBroadcaster) {
	t.Helper()
	mb := &mockBroadcaster{}
	opts.BroadcastFn = mb.broadcastFn
	opts.Interaction.FeedbackDelay = time.Hour
	s, err := NewSession(games.Default(), freecell.GameID, 7, opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, mb
}

func TestNewSessionUnknownGame(t *testing.T) {
	_, err := NewSession(games.Default(), "pyramid", 1, SessionOptions{})
	require.ErrorIs(t, err, engine.ErrUnknownGame)
}

func TestExecuteAppliesAndPublishes(t *testing.T) {
	h := &fakeHistorian{records: make(chan cache.MoveRecord, 8)}
	s, mb := setupSession(t, SessionOptions{Historian: h})
	initial := s.State()

	// A fresh deal leaves every free cell empty.
	require.True(t, s.Validate(engine.Tableau(0), engine.FreeCell(0)))
	require.True(t, s.Execute(engine.Tableau(0), engine.FreeCell(0)))

	ev := mb.findEventByType(EventMoveApplied)
	require.NotNil(t, ev, "expected move_applied")
	assert.Equal(t, 1, ev.Moves)
	assert.False(t, ev.Auto)
	require.NotNil(t, ev.Move)
	assert.Equal(t, engine.FreeCell(0), ev.Move.To)
	assert.True(t, s.CanUndo())
	assert.Equal(t, 0, initial.MoveCount(), "earlier states are never modified")

	select {
	case rec := <-h.records:
		assert.Equal(t, s.ID, rec.SessionID)
		assert.Equal(t, freecell.GameID, rec.GameID)
		assert.Equal(t, uint64(7), rec.Seed)
		assert.Equal(t, 1, rec.ActionIndex)
	case <-time.After(2 * time.Second):
		t.Fatal("move was not published")
	}
}

func TestUndoRestoresPreviousState(t *testing.T) {
	s, mb := setupSession(t, SessionOptions{})
	assert.False(t, s.Undo(), "nothing to undo on a fresh deal")

	before := s.State()
	require.True(t, s.Execute(engine.Tableau(0), engine.FreeCell(0)))
	require.True(t, s.Undo())

	assert.Same(t, before, s.State())
	assert.False(t, s.CanUndo())
	ev := mb.findEventByType(EventUndo)
	require.NotNil(t, ev)
	assert.Equal(t, 0, ev.Moves)
}

func TestRestartClearsHistory(t *testing.T) {
	s, mb := setupSession(t, SessionOptions{})
	require.True(t, s.Execute(engine.Tableau(0), engine.FreeCell(0)))

	s.Restart(99)
	assert.False(t, s.CanUndo())
	assert.Equal(t, uint64(99), s.State().DealSeed())
	assert.Equal(t, 0, s.State().MoveCount())
	assert.NotNil(t, mb.findEventByType(EventGameStart))
}

func TestDriverRejectsBadLocations(t *testing.T) {
	s, mb := setupSession(t, SessionOptions{})

	assert.NotPanics(t, func() {
		assert.False(t, s.Validate(engine.Tableau(12), engine.FreeCell(0)))
		assert.False(t, s.Execute(engine.Stock(), engine.FreeCell(0)))
		assert.False(t, s.Execute(engine.Tableau(0).WithCount(30), engine.Tableau(1)))
		assert.Nil(t, s.Occupant(engine.FreeCell(9)))
		dests, ok := s.Enumerate(engine.Tableau(-1))
		assert.True(t, ok)
		assert.Empty(t, dests)
	})
	assert.Equal(t, 0, mb.count(EventMoveApplied))
	assert.Equal(t, 0, s.State().MoveCount())
}

func TestHint(t *testing.T) {
	s, _ := setupSession(t, SessionOptions{})
	mv, ok := s.Hint()
	require.True(t, ok)
	assert.True(t, s.Validate(mv.From, mv.To))
}

func TestClicksDriveSession(t *testing.T) {
	s, mb := setupSession(t, SessionOptions{})
	m := s.Interaction()

	m.Click(engine.Tableau(0).WithCount(1))
	v := m.View()
	require.Equal(t, interaction.Selected, v.Phase)
	assert.Contains(t, v.Highlighted, engine.FreeCell(0))
	ev := mb.findEventByType(EventInteraction)
	require.NotNil(t, ev)
	require.NotNil(t, ev.View)
	assert.Equal(t, interaction.Selected, ev.View.Phase)

	m.Click(engine.FreeCell(0))
	assert.Equal(t, interaction.Idle, m.View().Phase)
	assert.Equal(t, 1, s.State().MoveCount())
	assert.Equal(t, 1, mb.count(EventMoveApplied))
}

func TestCloseRejectsMoves(t *testing.T) {
	s, mb := setupSession(t, SessionOptions{})
	s.Close()
	mb.clear()

	assert.False(t, s.Execute(engine.Tableau(0), engine.FreeCell(0)))
	assert.False(t, s.Undo())
	s.Restart(3)
	assert.Equal(t, 0, s.State().MoveCount())
	assert.Nil(t, mb.findEventByType(EventGameStart))
}

// nearlyWon deals a FreeCell game one move from completion: the king of
// spades sits alone on the first column.
type nearlyWon struct{ freecell.Game }

func (nearlyWon) Initialize(seed uint64) engine.State {
	s := &freecell.State{Seed: seed}
	for i := range s.FreeCells {
		s.FreeCells[i] = engine.EmptyCard
	}
	for f := range s.Foundations {
		top := engine.RankKing
		if engine.Suit(f) == engine.SuitSpades {
			top = engine.RankQueen
		}
		for r := engine.RankAce; r <= top; r++ {
			s.Foundations[f] = append(s.Foundations[f], engine.NewCard(engine.Suit(f), r))
		}
	}
	s.Tableau[0] = []engine.Card{engine.NewCard(engine.SuitSpades, engine.RankKing)}
	return s
}

func TestWinEvent(t *testing.T) {
	mb := &mockBroadcaster{}
	reg := engine.NewRegistry(nearlyWon{})
	s, err := NewSession(reg, freecell.GameID, 1, SessionOptions{BroadcastFn: mb.broadcastFn})
	require.NoError(t, err)
	defer s.Close()

	require.False(t, s.IsWon())
	require.True(t, s.Execute(engine.Tableau(0), engine.Foundation(int(engine.SuitSpades))))
	assert.True(t, s.IsWon())
	assert.Equal(t, 1, mb.count(EventGameWon))

	require.True(t, s.Undo())
	assert.False(t, s.IsWon())
}

func TestRunAutoMoves(t *testing.T) {
	mb := &mockBroadcaster{}
	reg := engine.NewRegistry(nearlyWon{})
	s, err := NewSession(reg, freecell.GameID, 1, SessionOptions{BroadcastFn: mb.broadcastFn})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 1, s.RunAutoMoves())
	assert.True(t, s.IsWon())
	ev := mb.findEventByType(EventMoveApplied)
	require.NotNil(t, ev)
	assert.True(t, ev.Auto)
	assert.Equal(t, 0, s.RunAutoMoves())
}

func TestSyncStateHidesFaceDownCards(t *testing.T) {
	s, err := NewSession(games.Default(), klondike.GameID, 3, SessionOptions{})
	require.NoError(t, err)
	defer s.Close()

	snap := s.SyncState()
	assert.Equal(t, klondike.GameID, snap.GameID)
	require.Len(t, snap.Piles, 13)

	stock := snap.Piles[0]
	assert.Equal(t, engine.Stock(), stock.Location)
	require.Len(t, stock.Cards, 24)
	for _, c := range stock.Cards {
		assert.Equal(t, ObfCard{}, c)
	}

	last := snap.Piles[len(snap.Piles)-1]
	assert.Equal(t, engine.Tableau(6), last.Location)
	require.Len(t, last.Cards, 7)
	for i, c := range last.Cards[:6] {
		assert.False(t, c.FaceUp, "card %d", i)
		assert.Empty(t, c.ID, "card %d", i)
	}
	top := last.Cards[6]
	assert.True(t, top.FaceUp)
	assert.NotEmpty(t, top.ID)
	assert.Equal(t, interaction.Idle, snap.View.Phase)
}

func TestEventsHideFaceDownCards(t *testing.T) {
	mb := &mockBroadcaster{}
	s, err := NewSession(games.Default(), klondike.GameID, 7, SessionOptions{BroadcastFn: mb.broadcastFn})
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Execute(engine.Stock(), engine.Waste()))
	ev := mb.findEventByType(EventMoveApplied)
	require.NotNil(t, ev)
	data, err := json.Marshal(ev)
	require.NoError(t, err)

	st := s.State().(*klondike.State)
	var hidden []engine.Card
	hidden = append(hidden, st.Stock...)
	for i, col := range st.Tableau {
		hidden = append(hidden, col[:len(col)-st.FaceUp[i]]...)
	}
	require.Len(t, hidden, 23+21)
	for _, c := range hidden {
		assert.NotContains(t, string(data), `"`+c.ID()+`"`, "face-down %s leaked", c)
	}

	// The drawn card is face up and present.
	waste := st.Waste[len(st.Waste)-1]
	assert.Contains(t, string(data), `"`+waste.ID()+`"`)
}

func TestIndexAndCountSelectionsAreEquivalent(t *testing.T) {
	s, _ := setupSession(t, SessionOptions{})
	m := s.Interaction()
	// Seed 7 deals seven cards to the first column.
	require.Len(t, s.Occupant(engine.Tableau(0)), 7)

	m.Click(engine.Tableau(0).WithIndex(6))
	v := m.View()
	require.Equal(t, interaction.Selected, v.Phase)
	assert.Equal(t, engine.Tableau(0).WithCount(1), *v.Selected)

	// The same card named by count deselects rather than reselecting.
	m.Click(engine.Tableau(0).WithCount(1))
	assert.Equal(t, interaction.Idle, m.View().Phase)
}
