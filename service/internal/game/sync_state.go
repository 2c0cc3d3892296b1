// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/engine"
	"github.com/jason-s-yu/solitaire/service/internal/interaction"
)

// ObfCard represents a card for client synchronization. Face-down cards keep
// their position but reveal nothing else.
type ObfCard struct {
	FaceUp bool   `json:"faceUp"`
	ID     string `json:"id,omitempty"`
	Rank   string `json:"rank,omitempty"`
	Suit   string `json:"suit,omitempty"`
}

// PileState is one pile as a renderer draws it, bottom card first.
type PileState struct {
	Location engine.Location `json:"location"`
	Cards    []ObfCard       `json:"cards"`
}

// SyncState is a snapshot of a session for a renderer joining or resyncing.
type SyncState struct {
	SessionID uuid.UUID        `json:"sessionId"`
	GameID    string           `json:"gameId"`
	Name      string           `json:"name"`
	Layout    engine.Layout    `json:"layout"`
	Moves     int              `json:"moves"`
	Won       bool             `json:"won"`
	CanUndo   bool             `json:"canUndo"`
	Piles     []PileState      `json:"piles"`
	View      interaction.View `json:"view"`
}

// pileOrder is the order piles appear in a snapshot.
var pileOrder = [...]engine.PileKind{
	engine.KindStock,
	engine.KindWaste,
	engine.KindFoundation,
	engine.KindFreeCell,
	engine.KindTableau,
}

// SyncState generates a snapshot of the session. Face-down cards are
// obfuscated.
func (s *Session) SyncState() SyncState {
	s.Mu.Lock()
	out := SyncState{
		SessionID: s.ID,
		GameID:    s.game.ID(),
		Name:      s.game.Name(),
		Layout:    s.game.Layout(),
		Moves:     s.state.MoveCount(),
		Won:       s.won,
		CanUndo:   len(s.history) > 0,
	}
	out.Piles = s.pilesLocked()
	s.Mu.Unlock()

	// The machine calls back into the session, so its view is read unlocked.
	out.View = s.machine.View()
	return out
}

// pilesLocked returns every pile in snapshot order.
// Assumes lock is held by caller.
func (s *Session) pilesLocked() []PileState {
	layout := s.game.Layout()
	var out []PileState
	for _, kind := range pileOrder {
		for i := 0; i < layout.Count(kind); i++ {
			loc := engine.Location{Kind: kind, Index: i}
			out = append(out, PileState{Location: loc, Cards: s.obfPileLocked(loc)})
		}
	}
	return out
}

// obfPileLocked returns the cards at loc as the player sees them.
// Assumes lock is held by caller.
func (s *Session) obfPileLocked(loc engine.Location) []ObfCard {
	cards := s.game.OccupantAt(s.state, loc)
	out := make([]ObfCard, len(cards))
	for i, c := range cards {
		if !s.game.IsFaceUp(s.state, loc, i) {
			continue
		}
		out[i] = ObfCard{
			FaceUp: true,
			ID:     c.ID(),
			Rank:   c.Value(),
			Suit:   c.Suit().String(),
		}
	}
	return out
}
