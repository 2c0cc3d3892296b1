// Package ws serves solitaire sessions over WebSocket. A remote renderer
// sends gesture messages and receives every session event.
package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/solitaire/engine"
	"github.com/jason-s-yu/solitaire/service/internal/game"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Errors reported to clients in "error" messages.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrNoSession      = errors.New("no game in progress")
	ErrUnknownMessage = errors.New("unknown message type")
	ErrNothingToUndo  = errors.New("nothing to undo")
)

// Settings are the defaults applied to new sessions.
type Settings struct {
	DefaultGame    string
	SmartTap       bool
	AutoPlay       bool
	FeedbackDelay  time.Duration
	DragThreshold  float64
	OriginPatterns []string // Extra origins allowed to connect.
}

// Server owns the sessions of every connected client.
type Server struct {
	reg       *engine.Registry
	settings  Settings
	historian game.Historian
	log       *logrus.Entry

	mu       sync.RWMutex
	sessions map[uuid.UUID]*game.Session
}

// NewServer returns a server playing the games of reg. historian may be nil.
func NewServer(reg *engine.Registry, settings Settings, historian game.Historian, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		reg:       reg,
		settings:  settings,
		historian: historian,
		log:       logger.WithField("component", "ws"),
		sessions:  make(map[uuid.UUID]*game.Session),
	}
}

// Register adds the server's routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.healthz)
	e.GET("/games", s.listGames)
	e.GET("/sessions/:id", s.getSession)
	e.GET("/ws", echo.WrapHandler(http.HandlerFunc(s.ServeWS)))
}

// Handler returns a standalone echo instance serving the server's routes.
func (s *Server) Handler() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(RequestIDMiddleware())
	e.Use(LoggingMiddleware(s.log))
	s.Register(e)
	return e
}

// Close ends every live session.
func (s *Server) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[uuid.UUID]*game.Session)
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}

func (s *Server) add(sess *game.Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
}

func (s *Server) remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Server) lookup(id uuid.UUID) (*game.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// ---------------------------------------------------------------------------
// HTTP
// ---------------------------------------------------------------------------

type gameInfo struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Layout engine.Layout `json:"layout"`
}

// ErrorResponse is the body of every failed HTTP request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) listGames(c echo.Context) error {
	var out []gameInfo
	for _, g := range s.reg.List() {
		out = append(out, gameInfo{ID: g.ID(), Name: g.Name(), Layout: g.Layout()})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
	}
	sess, ok := s.lookup(id)
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
	}
	return c.JSON(http.StatusOK, sess.SyncState())
}
