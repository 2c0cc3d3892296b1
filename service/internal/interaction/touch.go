package interaction

import (
	"math"

	"github.com/jason-s-yu/solitaire/engine"
)

// ---------------------------------------------------------------------------
// Drag
// ---------------------------------------------------------------------------

// DragStart begins dragging the cards at loc, clearing any selection. It
// returns false when there is nothing to drag.
func (m *Machine) DragStart(loc engine.Location) bool {
	started := false
	m.update(func() {
		loc = m.normalize(loc)
		if loc.Kind == engine.KindStock || m.isEmpty(loc) {
			return
		}
		m.clearGestures()
		m.dragging = &loc
		started = true
	})
	return started
}

// DragOver acknowledges the pointer moving over a potential drop target. It
// reports whether a drag is in progress and so whether a drop is permitted.
func (m *Machine) DragOver(engine.Location) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.closed && m.dragging != nil
}

// Drop attempts to move the dragged cards onto loc. The drag ends whether or
// not the move succeeds.
func (m *Machine) Drop(loc engine.Location) bool {
	moved := false
	m.update(func() { moved = m.drop(loc) })
	return moved
}

func (m *Machine) drop(loc engine.Location) bool {
	loc = m.normalize(loc)
	if m.dragging == nil {
		return false
	}
	src := *m.dragging
	m.dragging = nil
	return m.move(src, loc)
}

// DragEnd cancels a drag that ended without a drop.
func (m *Machine) DragEnd() {
	m.update(func() { m.dragging = nil })
}

// ---------------------------------------------------------------------------
// Touch
// ---------------------------------------------------------------------------

// TouchStart records a touch on loc at (x, y). It does not start a drag and
// leaves any selection in place so the touch can complete it as a tap.
func (m *Machine) TouchStart(loc engine.Location, x, y float64) {
	m.update(func() {
		loc = m.normalize(loc)
		m.dragging = nil
		m.touch = &TouchPoint{Start: loc, StartX: x, StartY: y, X: x, Y: y}
	})
}

// TouchMove tracks the touch position. Once it has travelled further than
// the drag threshold the touch becomes a drag of its start location.
func (m *Machine) TouchMove(x, y float64) {
	m.update(func() {
		t := m.touch
		if t == nil {
			return
		}
		t.X, t.Y = x, y
		if t.Promoted || math.Hypot(x-t.StartX, y-t.StartY) <= m.opts.DragThreshold {
			return
		}
		t.Promoted = true
		m.clearSelection()
		if t.Start.Kind != engine.KindStock && !m.isEmpty(t.Start) {
			start := t.Start
			m.dragging = &start
		}
	})
}

// TouchEnd completes the touch released at (x, y). A touch that never became
// a drag acts as a click on its start location; a drag is dropped on the
// location Options.HitTest reports for the release point.
func (m *Machine) TouchEnd(x, y float64) {
	m.update(func() {
		m.endTouch(func() (engine.Location, bool) {
			if m.opts.HitTest == nil {
				return engine.Location{}, false
			}
			return m.opts.HitTest(x, y)
		})
	})
}

// TouchRelease is TouchEnd for callers that resolved the drop target
// themselves. target is nil when the release point is not over a pile.
func (m *Machine) TouchRelease(target *engine.Location) {
	m.update(func() {
		m.endTouch(func() (engine.Location, bool) {
			if target == nil {
				return engine.Location{}, false
			}
			return *target, true
		})
	})
}

func (m *Machine) endTouch(resolve func() (engine.Location, bool)) {
	t := m.touch
	if t == nil {
		return
	}
	m.touch = nil
	if !t.Promoted {
		m.click(t.Start)
		return
	}
	if m.dragging == nil {
		return
	}
	dest, ok := resolve()
	if !ok {
		m.dragging = nil
		return
	}
	m.drop(dest)
}

// TouchCancel abandons the touch and any drag it started without moving.
func (m *Machine) TouchCancel() {
	m.update(func() {
		m.touch = nil
		m.dragging = nil
	})
}
