package interaction

import (
	"time"

	"github.com/jason-s-yu/solitaire/engine"
	"github.com/sirupsen/logrus"
)

// Reason describes why a gesture was rejected.
type Reason string

const (
	ReasonIllegalMove   Reason = "illegal_move"
	ReasonNoDestination Reason = "no_destination"
	ReasonEmptyStock    Reason = "empty_stock"
)

// Feedback is the transient invalid-move cue shown by the renderer.
type Feedback struct {
	Location engine.Location `json:"location"`
	Reason   Reason          `json:"reason,omitempty"`
	At       time.Time       `json:"at"`
}

// feedbackSlot holds at most one live Feedback and the timer that clears it.
// gen identifies the timer that owns the slot so a superseded callback that
// already fired cannot clear its successor.
type feedbackSlot struct {
	current *Feedback
	timer   *time.Timer
	gen     uint64
}

func (s *feedbackSlot) clear() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.current = nil
}

// trigger replaces any live feedback with one targeting loc and restarts the
// expiry clock. Caller must hold m.mu.
func (m *Machine) trigger(loc engine.Location, reason Reason) {
	m.feedback.clear()
	m.feedback.current = &Feedback{Location: loc, Reason: reason, At: m.opts.Now()}
	gen := m.feedback.gen
	m.feedback.timer = time.AfterFunc(m.opts.FeedbackDelay, func() { m.expire(gen) })
	m.log.WithFields(logrus.Fields{
		"location": loc.String(),
		"reason":   reason,
	}).Debug("invalid move feedback")
}

// expire clears the feedback slot if it still belongs to gen.
func (m *Machine) expire(gen uint64) {
	m.mu.Lock()
	if m.closed || m.feedback.gen != gen {
		m.mu.Unlock()
		return
	}
	m.feedback.timer = nil
	m.feedback.current = nil
	v := m.viewLocked()
	m.mu.Unlock()
	m.notify(v)
}
