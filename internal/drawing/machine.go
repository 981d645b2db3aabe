package drawing

import (
	"slices"
	"strconv"

	"github.com/nao1215/panelkit/internal/model"
)

// Path is an in-progress sequence of points plus its render handle.
type Path struct {
	// ID is the render handle of the path, unique within a Machine.
	ID string
	// Points is the ordered list of drawn points.
	Points []model.Point
}

// RenderFunc receives a directive after every path mutation.
type RenderFunc func(Directive)

// Machine is the path state machine. The zero value is not usable; create
// one with NewMachine.
type Machine struct {
	state  State
	path   *Path
	nextID int
	render RenderFunc
}

// NewMachine creates an Idle machine. render may be nil.
func NewMachine(render RenderFunc) *Machine {
	return &Machine{
		state:  Idle,
		render: render,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Current returns a copy of the in-progress path. The boolean is false
// while Idle.
func (m *Machine) Current() (Path, bool) {
	if m.state != Drawing || m.path == nil {
		return Path{}, false
	}
	return Path{ID: m.path.ID, Points: slices.Clone(m.path.Points)}, true
}

// AddPoint appends p to the in-progress path, starting a new path when
// Idle.
func (m *Machine) AddPoint(p model.Point) {
	if m.state == Idle {
		m.nextID++
		m.path = &Path{ID: "path-" + strconv.Itoa(m.nextID)}
		m.state = Drawing
	}
	m.path.Points = append(m.path.Points, p)
	m.emit(RenderActive, false)
}

// Undo removes the most recently added point. Undo on an empty path keeps
// the machine Drawing with zero points. It reports false when Idle.
func (m *Machine) Undo() bool {
	if m.state != Drawing {
		return false
	}
	if n := len(m.path.Points); n > 0 {
		m.path.Points = m.path.Points[:n-1]
	}
	m.emit(RenderActive, false)
	return true
}

// Commit closes the in-progress path and returns to Idle. The returned
// path carries the drawn points for reduction.
//
// Commit reports false when the machine was Idle, or when the path had
// fewer than two points. A short path is discarded with a removed
// directive and never becomes a panel.
func (m *Machine) Commit() (Path, bool) {
	if m.state != Drawing {
		return Path{}, false
	}

	if len(m.path.Points) < 2 {
		m.emit(RenderRemoved, false)
		m.clear()
		return Path{}, false
	}

	m.emit(RenderClosed, true)
	done := *m.path
	m.clear()
	return done, true
}

// Reset abandons any in-progress path and returns to Idle.
func (m *Machine) Reset() {
	if m.state == Drawing {
		m.emit(RenderRemoved, false)
	}
	m.clear()
}

func (m *Machine) clear() {
	m.path = nil
	m.state = Idle
}

func (m *Machine) emit(state RenderState, closed bool) {
	if m.render == nil || m.path == nil {
		return
	}
	d := Directive{PathID: m.path.ID, State: state}
	if state != RenderRemoved {
		d.D = PathData(m.path.Points, closed)
	}
	m.render(d)
}
