package interaction

import (
	"github.com/jason-s-yu/solitaire/engine"
	"github.com/sirupsen/logrus"
)

// Click handles a click or tap on loc.
func (m *Machine) Click(loc engine.Location) {
	m.update(func() { m.click(loc) })
}

// click dispatches on the current selection. Caller must hold m.mu.
func (m *Machine) click(loc engine.Location) {
	loc = m.normalize(loc)
	m.dragging = nil
	smart := m.opts.SmartTap != nil && m.opts.SmartTap()
	if m.selected == nil {
		m.clickIdle(loc, smart)
		return
	}
	m.clickSelected(loc, smart)
}

func (m *Machine) clickIdle(loc engine.Location, smart bool) {
	if loc.Kind == engine.KindStock {
		m.draw()
		return
	}
	if m.isEmpty(loc) {
		return
	}
	if smart {
		if dests, ok := m.driver.Enumerate(loc); ok {
			m.smartTap(loc, dests)
			return
		}
	}
	m.selectLocation(loc)
}

// draw turns over the stock.
func (m *Machine) draw() {
	if !m.driver.Layout().Waste {
		return
	}
	if !m.driver.Execute(engine.Stock(), engine.Waste()) {
		m.trigger(engine.Stock(), ReasonEmptyStock)
		return
	}
	m.feedback.clear()
}

// smartTap resolves a tap at loc against its enumerated destinations.
func (m *Machine) smartTap(loc engine.Location, dests []engine.Location) {
	switch len(dests) {
	case 0:
		m.trigger(loc, ReasonNoDestination)
	case 1:
		m.move(loc, dests[0])
	default:
		m.selected = &loc
		m.highlighted = dests
	}
}

func (m *Machine) selectLocation(loc engine.Location) {
	m.selected = &loc
	m.highlighted = nil
	if dests, ok := m.driver.Enumerate(loc); ok {
		m.highlighted = dests
	}
}

func (m *Machine) clickSelected(loc engine.Location, smart bool) {
	src := *m.selected
	if src.Matches(loc) {
		m.clearSelection()
		return
	}
	if src.SamePile(loc) {
		m.clearSelection()
		if !smart {
			m.selectLocation(loc)
		}
		return
	}
	if dest, ok := m.highlightedMatch(loc); ok {
		m.clearSelection()
		m.move(src, dest)
		return
	}
	if smart {
		m.clearSelection()
		return
	}
	if m.driver.Validate(src, loc) {
		m.clearSelection()
		m.move(src, loc)
		return
	}
	m.trigger(loc, ReasonIllegalMove)
	if m.reselects(src, loc) {
		m.selectLocation(loc)
	}
}

func (m *Machine) highlightedMatch(loc engine.Location) (engine.Location, bool) {
	for _, h := range m.highlighted {
		if h.Matches(loc) {
			return h, true
		}
	}
	return engine.Location{}, false
}

// reselects reports whether a rejected click on loc should become the new
// selection.
func (m *Machine) reselects(src, loc engine.Location) bool {
	if loc.Kind == engine.KindStock || m.isEmpty(loc) {
		return false
	}
	switch m.opts.Reselect {
	case ReselectNever:
		return false
	case ReselectAlways:
		return true
	}
	return loc.Kind == src.Kind
}

// move executes from -> to. Success clears any live feedback; failure raises
// feedback at to.
func (m *Machine) move(from, to engine.Location) bool {
	if m.driver.Execute(from, to) {
		m.feedback.clear()
		return true
	}
	m.log.WithFields(logrus.Fields{"from": from.String(), "to": to.String()}).Debug("move rejected")
	m.trigger(to, ReasonIllegalMove)
	return false
}
