// Package game runs solitaire sessions: one dealt game, its undo history, and
// the interaction machine that turns gestures into moves.
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/engine"
	"github.com/jason-s-yu/solitaire/service/internal/cache"
	"github.com/jason-s-yu/solitaire/service/internal/interaction"
	"github.com/sirupsen/logrus"
)

// Historian receives a record of every applied move.
type Historian interface {
	PublishMove(ctx context.Context, rec cache.MoveRecord) error
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Interaction interaction.Options // OnChange and Logger are chained by the session.
	BroadcastFn func(ev GameEvent)
	Historian   Historian
	Logger      *logrus.Entry
	// AutoPlay applies safe foundation moves after every player move.
	AutoPlay bool
}

// Session is a single running game.
type Session struct {
	ID uuid.UUID

	game    engine.Game
	machine *interaction.Machine

	// Communication Callbacks
	BroadcastFn func(ev GameEvent) // Receives every session event.
	historian   Historian

	autoPlay bool
	log      *logrus.Entry

	Mu          sync.Mutex // Protects the fields below.
	state       engine.State
	history     []engine.State
	actionIndex int // Sequential index of records sent to the historian.
	won         bool
	closed      bool
}

var _ interaction.Driver = (*Session)(nil)

// NewSession deals gameID from reg with seed.
func NewSession(reg *engine.Registry, gameID string, seed uint64, opts SessionOptions) (*Session, error) {
	g, err := reg.Get(gameID)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Session{
		ID:          id,
		game:        g,
		BroadcastFn: opts.BroadcastFn,
		historian:   opts.Historian,
		autoPlay:    opts.AutoPlay,
		log:         logger.WithFields(logrus.Fields{"session": id, "game": g.ID()}),
		state:       g.Initialize(seed),
	}

	mopts := opts.Interaction
	onChange := mopts.OnChange
	mopts.OnChange = func(v interaction.View) {
		s.fireEvent(GameEvent{Type: EventInteraction, SessionID: s.ID, View: &v})
		if onChange != nil {
			onChange(v)
		}
	}
	mopts.Logger = s.log
	s.machine = interaction.New(s, mopts)

	s.log.WithField("seed", seed).Info("session started")
	return s, nil
}

// Game returns the game type being played.
func (s *Session) Game() engine.Game { return s.game }

// Interaction returns the session's gesture state machine.
func (s *Session) Interaction() *interaction.Machine { return s.machine }

// State returns the current state. States are immutable and may be held
// indefinitely.
func (s *Session) State() engine.State {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.state
}

// IsWon reports whether the game has been completed.
func (s *Session) IsWon() bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.won
}

// CanUndo reports whether a previous state is available.
func (s *Session) CanUndo() bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return len(s.history) > 0
}

// Restart deals a new game of the same type and clears the history.
func (s *Session) Restart(seed uint64) {
	s.Mu.Lock()
	if s.closed {
		s.Mu.Unlock()
		return
	}
	s.state = s.game.Initialize(seed)
	s.history = nil
	s.won = false
	s.log.WithField("seed", seed).Info("session restarted")
	s.fireEvent(s.stateEvent(EventGameStart))
	s.Mu.Unlock()
	s.machine.Reset()
}

// Undo restores the state before the last move.
func (s *Session) Undo() bool {
	s.Mu.Lock()
	if s.closed || len(s.history) == 0 {
		s.Mu.Unlock()
		return false
	}
	last := len(s.history) - 1
	s.state = s.history[last]
	s.history[last] = nil
	s.history = s.history[:last]
	s.won = s.game.IsWon(s.state)
	s.fireEvent(s.stateEvent(EventUndo))
	s.Mu.Unlock()
	s.machine.Reset()
	return true
}

// Hint suggests a move for the current state.
func (s *Session) Hint() (engine.Move, bool) {
	h, ok := s.game.(engine.Hinter)
	if !ok {
		return engine.Move{}, false
	}
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return h.Hint(s.state)
}

// RunAutoMoves applies every safe foundation move and returns how many were
// made.
func (s *Session) RunAutoMoves() int {
	s.Mu.Lock()
	n := s.autoMovesLocked()
	s.Mu.Unlock()
	if n > 0 {
		s.machine.Reset()
	}
	return n
}

// Close ends the session. The interaction machine's timer is stopped and all
// further moves are rejected.
func (s *Session) Close() {
	s.machine.Close()
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.log.WithField("moves", s.state.MoveCount()).Info("session closed")
}

// ---------------------------------------------------------------------------
// interaction.Driver
// ---------------------------------------------------------------------------

func (s *Session) Layout() engine.Layout { return s.game.Layout() }

func (s *Session) Occupant(loc engine.Location) []engine.Card {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if !s.checkLocked(loc) {
		return nil
	}
	return s.game.OccupantAt(s.state, loc)
}

func (s *Session) Validate(from, to engine.Location) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.closed || !s.checkLocked(from, to) {
		return false
	}
	return s.game.ValidateMove(s.state, from, to)
}

// Execute applies from -> to. With auto-play enabled the safe foundation
// moves that follow are applied too.
func (s *Session) Execute(from, to engine.Location) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.closed || !s.checkLocked(from, to) {
		return false
	}
	if !s.applyLocked(engine.Move{From: from, To: to}, false) {
		return false
	}
	if s.autoPlay {
		s.autoMovesLocked()
	}
	return true
}

func (s *Session) Enumerate(from engine.Location) ([]engine.Location, bool) {
	en, ok := s.game.(engine.MoveEnumerator)
	if !ok {
		return nil, false
	}
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if !s.checkLocked(from) {
		return nil, true
	}
	return en.EnumerateMoves(s.state, from), true
}

// checkLocked reports whether every loc is addressable in the current state.
// A selection made before the state changed may no longer fit its pile.
// Assumes lock is held by caller.
func (s *Session) checkLocked(locs ...engine.Location) bool {
	for _, loc := range locs {
		if err := engine.CheckLocation(s.game, s.state, loc); err != nil {
			s.log.WithError(err).Debug("location rejected")
			return false
		}
	}
	return true
}

// applyLocked executes m and records it.
// Assumes lock is held by caller.
func (s *Session) applyLocked(m engine.Move, auto bool) bool {
	next, ok := s.game.ExecuteMove(s.state, m.From, m.To)
	if !ok {
		s.log.WithFields(logrus.Fields{"from": m.From.String(), "to": m.To.String()}).Debug("move rejected")
		return false
	}
	s.history = append(s.history, s.state)
	s.state = next
	s.log.WithFields(logrus.Fields{
		"from":  m.From.String(),
		"to":    m.To.String(),
		"auto":  auto,
		"moves": next.MoveCount(),
	}).Debug("move applied")
	s.publishMove(m, auto)

	ev := s.stateEvent(EventMoveApplied)
	ev.Move = &m
	ev.Auto = auto
	s.fireEvent(ev)

	if !s.won && s.game.IsWon(next) {
		s.won = true
		s.log.WithField("moves", next.MoveCount()).Info("game won")
		s.fireEvent(s.stateEvent(EventGameWon))
	}
	return true
}

// autoMovesLocked applies the game's safe moves.
// Assumes lock is held by caller.
func (s *Session) autoMovesLocked() int {
	am, ok := s.game.(engine.AutoMover)
	if !ok || s.closed {
		return 0
	}
	n := 0
	for _, m := range am.AutoMoves(s.state) {
		if !s.applyLocked(m, true) {
			break
		}
		n++
	}
	return n
}

// stateEvent builds an event carrying the current piles as the player sees
// them.
// Assumes lock is held by caller.
func (s *Session) stateEvent(t GameEventType) GameEvent {
	return GameEvent{
		Type:      t,
		SessionID: s.ID,
		GameID:    s.game.ID(),
		Moves:     s.state.MoveCount(),
		Won:       s.won,
		Piles:     s.pilesLocked(),
	}
}

// fireEvent broadcasts an event via the BroadcastFn callback.
func (s *Session) fireEvent(ev GameEvent) {
	if s.BroadcastFn != nil {
		s.BroadcastFn(ev)
	}
}

// publishMove sends the move to the historian without blocking the caller.
// Assumes lock is held by caller.
func (s *Session) publishMove(m engine.Move, auto bool) {
	if s.historian == nil {
		return
	}
	s.actionIndex++
	rec := cache.MoveRecord{
		SessionID:   s.ID,
		GameID:      s.game.ID(),
		Seed:        s.state.DealSeed(),
		ActionIndex: s.actionIndex,
		Move:        m,
		Auto:        auto,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func(rec cache.MoveRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.historian.PublishMove(ctx, rec); err != nil {
			s.log.WithError(err).WithField("action", rec.ActionIndex).Warn("failed publishing move")
		}
	}(rec)
}
