package session

import (
	"fmt"

	"github.com/nao1215/panelkit/internal/drawing"
	"github.com/nao1215/panelkit/internal/geometry"
	"github.com/nao1215/panelkit/internal/model"
)

// Pointer handles a click at page coordinates (x, y).
//
// With the modifier held while Drawing, the last point is undone. Without
// the modifier the point is mapped to percentages and added to the path,
// starting one when Idle. A modifier click while Idle is not a drawing
// event and is ignored; region deletion goes through Select.
func (s *Session) Pointer(x, y float64) error {
	if s.active == NoActive {
		return ErrNoActiveImage
	}

	if s.modifier {
		if s.machine.State() == drawing.Drawing {
			s.machine.Undo()
		}
		return nil
	}

	p := geometry.ToPercent(x, y, s.viewport)
	s.machine.AddPoint(p)
	return nil
}

// SetModifier records whether the modifier key is held.
func (s *Session) SetModifier(held bool) {
	s.modifier = held
}

// Commit closes the in-progress path and appends its panel. It reports
// whether a panel was created. Committing while Idle, or a path with fewer
// than two points, creates nothing.
func (s *Session) Commit() (model.Panel, bool) {
	path, ok := s.machine.Commit()
	if !ok {
		return model.Panel{}, false
	}

	// The machine only closes paths with two or more points.
	rect, _ := geometry.Reduce(path.Points)

	panel := model.NewPanel(rect, path.Points)
	idx := s.registry.Append(path.ID, panel)
	s.logger.Debug("panel committed",
		"path", path.ID,
		"index", idx,
		"x", panel.X,
		"y", panel.Y,
		"width", panel.Width,
		"height", panel.Height,
	)
	s.publishPanels()
	return panel, true
}

// Select deletes the committed region rendered as pathID. Selection is only
// valid while Idle.
func (s *Session) Select(pathID string) error {
	if s.machine.State() == drawing.Drawing {
		return ErrSelectWhileDrawing
	}

	marker, ok := s.registry.MarkerByPathID(pathID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPath, pathID)
	}
	if _, _, err := s.registry.RemoveAt(marker.Index); err != nil {
		return err
	}

	s.logger.Debug("panel removed", "path", pathID, "index", marker.Index)
	s.listener.MarkerRemoved(pathID)
	s.publishPanels()
	return nil
}

// ClearAll removes every panel and marker of the active image and abandons
// any in-progress path.
func (s *Session) ClearAll() {
	for _, m := range s.registry.Markers() {
		s.listener.MarkerRemoved(m.PathID)
	}
	s.machine.Reset()
	s.registry.Clear()
	s.publishPanels()
}

// ZoomIn increases the zoom factor by one step.
func (s *Session) ZoomIn() {
	s.zoom.ZoomIn()
}

// ZoomOut decreases the zoom factor by one step.
func (s *Session) ZoomOut() {
	s.zoom.ZoomOut()
}

// SetZoom sets the zoom factor directly.
func (s *Session) SetZoom(factor float64) {
	s.zoom.SetZoom(factor)
}

// Resize records a new page box measured by the front end. Top and Left
// position the page; a positive Width and Height redefine the natural size
// at the current zoom factor. Drawing state is unchanged.
func (s *Session) Resize(vp geometry.Viewport) {
	s.origin = geometry.Viewport{Top: vp.Top, Left: vp.Left}
	if vp.Width > 0 && vp.Height > 0 {
		f := s.zoom.Factor()
		s.zoom.SetNatural(vp.Width/f, vp.Height/f)
		return
	}
	s.measure()
}

// Scroll moves the container by (dx, dy) pixels.
func (s *Session) Scroll(dx, dy float64) {
	s.scrollX += dx
	s.scrollY += dy
	s.measure()
}
