package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/jason-s-yu/solitaire/engine"
	"github.com/jason-s-yu/solitaire/service/internal/game"
	"github.com/jason-s-yu/solitaire/service/internal/interaction"
	"github.com/sirupsen/logrus"
)

// ---------- message envelope ----------

// Msg is the envelope of every message in both directions.
type Msg struct {
	T string          `json:"t"`           // type
	M json.RawMessage `json:"m,omitempty"` // payload
}

// request is the union of inbound payload fields.
type request struct {
	Game     string           `json:"game,omitempty"`
	Seed     *uint64          `json:"seed,omitempty"`
	Location *engine.Location `json:"location,omitempty"`
	Target   *engine.Location `json:"target,omitempty"` // touch_end drop target, resolved by the renderer
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Enabled  bool             `json:"enabled"`
}

type hintReply struct {
	Found bool         `json:"found"`
	Move  *engine.Move `json:"move,omitempty"`
}

// ---------- client ----------

// client is one WebSocket connection. Its session is only touched by the
// reader goroutine; session events reach the writer through send.
type client struct {
	srv      *Server
	conn     *websocket.Conn
	send     chan Msg
	smartTap atomic.Bool
	log      *logrus.Entry
	session  *game.Session
}

// ServeWS upgrades the request and serves the connection until it closes.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.settings.OriginPatterns})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := &client{
		srv:  s,
		conn: conn,
		send: make(chan Msg, 64),
		log:  s.log.WithField("remote", r.RemoteAddr),
	}
	c.smartTap.Store(s.settings.SmartTap)
	c.log.Info("client connected")

	go c.writeLoop(ctx, cancel)
	c.readLoop(ctx)

	c.endSession()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	c.log.Info("client disconnected")
}

func (c *client) writeLoop(ctx context.Context, cancel context.CancelFunc) {
	ping := time.NewTicker(15 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.send:
			wctx, wcancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(wctx, c.conn, msg)
			wcancel()
			if err != nil {
				c.log.WithError(err).Debug("write failed")
				cancel()
				return
			}
		case <-ping.C:
			if err := c.conn.Ping(ctx); err != nil {
				cancel()
				return
			}
		}
	}
}

func (c *client) readLoop(ctx context.Context) {
	for {
		var in Msg
		if err := wsjson.Read(ctx, c.conn, &in); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				c.log.WithError(err).Debug("read failed")
			}
			return
		}
		if err := c.handle(in); err != nil {
			c.log.WithError(err).WithField("type", in.T).Debug("request rejected")
			c.reply("error", map[string]string{"request": in.T, "error": err.Error()})
		}
	}
}

// reply queues a message for the writer. A client that cannot keep up loses
// messages rather than stalling the session.
func (c *client) reply(t string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.WithError(err).WithField("type", t).Error("marshal failed")
		return
	}
	select {
	case c.send <- Msg{T: t, M: data}:
	default:
		c.log.WithField("type", t).Warn("send buffer full, dropping message")
	}
}

func (c *client) broadcast(ev game.GameEvent) { c.reply(string(ev.Type), ev) }

// ---------- dispatch ----------

func (c *client) handle(in Msg) error {
	var req request
	if len(in.M) > 0 {
		if err := json.Unmarshal(in.M, &req); err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}

	switch in.T {
	case "new_game":
		return c.newGame(req)
	case "smart_tap":
		c.smartTap.Store(req.Enabled)
		return nil
	}

	sess := c.session
	if sess == nil {
		return ErrNoSession
	}
	m := sess.Interaction()

	switch in.T {
	case "state":
		c.reply("state", sess.SyncState())
	case "click":
		loc, err := c.location(req.Location)
		if err != nil {
			return err
		}
		m.Click(loc)
	case "drag_start":
		loc, err := c.location(req.Location)
		if err != nil {
			return err
		}
		m.DragStart(loc)
	case "drag_over":
		loc, err := c.location(req.Location)
		if err != nil {
			return err
		}
		c.reply("drag_over", map[string]bool{"accepted": m.DragOver(loc)})
	case "drop":
		loc, err := c.location(req.Location)
		if err != nil {
			return err
		}
		m.Drop(loc)
	case "drag_end":
		m.DragEnd()
	case "touch_start":
		loc, err := c.location(req.Location)
		if err != nil {
			return err
		}
		m.TouchStart(loc, req.X, req.Y)
	case "touch_move":
		m.TouchMove(req.X, req.Y)
	case "touch_end":
		var target *engine.Location
		if req.Target != nil {
			loc, err := c.location(req.Target)
			if err != nil {
				return err
			}
			target = &loc
		}
		m.TouchRelease(target)
	case "touch_cancel":
		m.TouchCancel()
	case "undo":
		if !sess.Undo() {
			return ErrNothingToUndo
		}
	case "hint":
		mv, ok := sess.Hint()
		out := hintReply{Found: ok}
		if ok {
			out.Move = &mv
		}
		c.reply("hint", out)
	case "auto":
		c.reply("auto", map[string]int{"moves": sess.RunAutoMoves()})
	case "restart":
		sess.Restart(seedOr(req.Seed))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, in.T)
	}
	return nil
}

// location checks an untrusted location against the current session.
func (c *client) location(loc *engine.Location) (engine.Location, error) {
	if loc == nil {
		return engine.Location{}, fmt.Errorf("%w: missing location", ErrBadRequest)
	}
	if err := engine.CheckLocation(c.session.Game(), c.session.State(), *loc); err != nil {
		return engine.Location{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return *loc, nil
}

func (c *client) newGame(req request) error {
	id := req.Game
	if id == "" {
		id = c.srv.settings.DefaultGame
	}
	if _, ok := c.srv.reg.Lookup(id); !ok {
		return fmt.Errorf("%w: %w: %q", ErrBadRequest, engine.ErrUnknownGame, id)
	}
	c.endSession()

	sess, err := game.NewSession(c.srv.reg, id, seedOr(req.Seed), game.SessionOptions{
		Interaction: interaction.Options{
			SmartTap:      c.smartTap.Load,
			FeedbackDelay: c.srv.settings.FeedbackDelay,
			DragThreshold: c.srv.settings.DragThreshold,
		},
		BroadcastFn: c.broadcast,
		Historian:   c.srv.historian,
		Logger:      c.log,
		AutoPlay:    c.srv.settings.AutoPlay,
	})
	if err != nil {
		return err
	}
	c.session = sess
	c.srv.add(sess)
	c.reply("session", sess.SyncState())
	return nil
}

func (c *client) endSession() {
	if c.session == nil {
		return
	}
	c.srv.remove(c.session.ID)
	c.session.Close()
	c.session = nil
}

func seedOr(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return uint64(time.Now().UnixNano())
}
