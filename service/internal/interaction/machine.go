// Package interaction turns pointer and touch gestures into move requests.
//
// A Machine holds at most one gesture at a time: a selection, a drag, or a
// touch that may become a drag. It never inspects game rules itself; every
// decision goes through the Driver it was built with.
package interaction

import (
	"sync"
	"time"

	"github.com/jason-s-yu/solitaire/engine"
	"github.com/sirupsen/logrus"
)

// Driver is the running game a Machine issues moves against.
type Driver interface {
	Layout() engine.Layout
	// Occupant returns the cards at loc, nil for an empty pile.
	Occupant(loc engine.Location) []engine.Card
	Validate(from, to engine.Location) bool
	Execute(from, to engine.Location) bool
	// Enumerate lists the legal destinations for from. ok is false when the
	// game cannot enumerate moves.
	Enumerate(from engine.Location) (dests []engine.Location, ok bool)
}

// ReselectPolicy decides what a rejected click does to the current selection
// in traditional mode.
type ReselectPolicy uint8

const (
	// ReselectSameKind replaces the selection when the clicked pile is of the
	// same kind as the selected one and holds cards.
	ReselectSameKind ReselectPolicy = iota
	// ReselectNever always keeps the selection.
	ReselectNever
	// ReselectAlways replaces the selection with any pile holding cards.
	ReselectAlways
)

// Default gesture settings.
const (
	DefaultFeedbackDelay = 600 * time.Millisecond
	DefaultDragThreshold = 10.0
)

// Options configures a Machine. Zero fields take their defaults.
type Options struct {
	// SmartTap is read on every click; nil means traditional mode.
	SmartTap      func() bool
	FeedbackDelay time.Duration
	DragThreshold float64 // pixels a touch must travel to become a drag
	Reselect      ReselectPolicy
	// HitTest resolves release coordinates of a promoted touch to a drop
	// target. Nil means only TouchRelease can complete a touch drag.
	HitTest HitTester
	// OnChange receives the view after every change. It is called without
	// the machine's lock held.
	OnChange func(View)
	Now      func() time.Time
	Logger   *logrus.Entry
}

// HitTester maps screen coordinates to a board location.
type HitTester func(x, y float64) (engine.Location, bool)

func (o *Options) setDefaults() {
	if o.FeedbackDelay <= 0 {
		o.FeedbackDelay = DefaultFeedbackDelay
	}
	if o.DragThreshold <= 0 {
		o.DragThreshold = DefaultDragThreshold
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
}

// Phase is the coarse state of a Machine.
type Phase uint8

const (
	Idle Phase = iota
	Selected
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	}
	return "idle"
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// TouchPoint describes a touch in progress.
type TouchPoint struct {
	Start    engine.Location `json:"start"`
	StartX   float64         `json:"startX"`
	StartY   float64         `json:"startY"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Promoted bool            `json:"promoted"`
}

// View is a snapshot of the interaction state for rendering.
type View struct {
	Phase       Phase             `json:"phase"`
	Selected    *engine.Location  `json:"selected,omitempty"`
	Dragging    *engine.Location  `json:"dragging,omitempty"`
	Touch       *TouchPoint       `json:"touch,omitempty"`
	Highlighted []engine.Location `json:"highlighted,omitempty"`
	InvalidMove *Feedback         `json:"invalidMove,omitempty"`
}

// Machine is the interaction state machine. It is safe for concurrent use;
// the feedback expiry timer runs on its own goroutine.
type Machine struct {
	driver Driver
	opts   Options
	log    *logrus.Entry

	mu          sync.Mutex
	closed      bool
	selected    *engine.Location
	highlighted []engine.Location
	dragging    *engine.Location
	touch       *TouchPoint
	feedback    feedbackSlot
}

// New returns an idle Machine driving d.
func New(d Driver, opts Options) *Machine {
	opts.setDefaults()
	return &Machine{
		driver: d,
		opts:   opts,
		log:    opts.Logger.WithField("component", "interaction"),
	}
}

// View returns the current interaction state.
func (m *Machine) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

// Reset drops every gesture and any pending feedback.
func (m *Machine) Reset() {
	m.update(func() {
		m.clearGestures()
		m.feedback.clear()
	})
}

// Close stops the feedback timer. A closed Machine ignores further input.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	m.clearGestures()
	m.feedback.clear()
}

// update runs fn under the lock and publishes the resulting view.
func (m *Machine) update(fn func()) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	fn()
	v := m.viewLocked()
	m.mu.Unlock()
	m.notify(v)
}

func (m *Machine) notify(v View) {
	if m.opts.OnChange != nil {
		m.opts.OnChange(v)
	}
}

func (m *Machine) viewLocked() View {
	v := View{Phase: Idle}
	if m.selected != nil {
		sel := *m.selected
		v.Selected = &sel
		v.Phase = Selected
		v.Highlighted = append([]engine.Location(nil), m.highlighted...)
	}
	if m.dragging != nil {
		d := *m.dragging
		v.Dragging = &d
		v.Phase = Dragging
	}
	if m.touch != nil {
		t := *m.touch
		v.Touch = &t
	}
	if f := m.feedback.current; f != nil {
		fb := *f
		v.InvalidMove = &fb
	}
	return v
}

func (m *Machine) clearSelection() {
	m.selected = nil
	m.highlighted = nil
}

func (m *Machine) clearGestures() {
	m.clearSelection()
	m.dragging = nil
	m.touch = nil
}

// isEmpty reports whether the pile at loc holds no cards.
func (m *Machine) isEmpty(loc engine.Location) bool {
	return len(m.driver.Occupant(loc.Pile())) == 0
}

// normalize rewrites an index selector on loc as the equivalent count, so
// every location the machine holds or compares uses one form.
// Caller must hold m.mu.
func (m *Machine) normalize(loc engine.Location) engine.Location {
	if !loc.Sel.Specified() {
		return loc
	}
	return loc.Normalize(len(m.driver.Occupant(loc.Pile())))
}
