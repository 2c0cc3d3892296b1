package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/engine"
	"github.com/jason-s-yu/solitaire/service/internal/interaction"
)

// GameEventType represents the type of a session event.
type GameEventType string

const (
	EventGameStart   GameEventType = "game_start"   // A deal was laid out (new session or restart).
	EventMoveApplied GameEventType = "move_applied" // A move changed the state.
	EventGameWon     GameEventType = "game_won"     // The last move completed the game.
	EventUndo        GameEventType = "undo"         // The previous state was restored.
	EventInteraction GameEventType = "interaction"  // The interaction view changed.
)

// GameEvent is the structure broadcast for every session change.
type GameEvent struct {
	Type      GameEventType     `json:"type"`
	SessionID uuid.UUID         `json:"sessionId"`
	GameID    string            `json:"gameId,omitempty"`
	Move      *engine.Move      `json:"move,omitempty"`
	Auto      bool              `json:"auto,omitempty"` // Move was applied by auto-play.
	Moves     int               `json:"moves"`
	Won       bool              `json:"won,omitempty"`
	Piles     []PileState       `json:"piles,omitempty"` // Face-down cards obfuscated.
	View      *interaction.View `json:"view,omitempty"`
}
