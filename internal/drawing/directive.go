package drawing

import (
	"strings"

	"github.com/nao1215/panelkit/internal/model"
)

// RenderState describes how a path should be displayed.
type RenderState string

const (
	// RenderActive is an open path still being drawn.
	RenderActive RenderState = "active"
	// RenderClosed is a committed path, shown as a region marker.
	RenderClosed RenderState = "closed"
	// RenderRemoved means the path's rendered element must be dropped.
	RenderRemoved RenderState = "removed"
)

// Directive is a declarative render instruction for one path.
type Directive struct {
	// PathID identifies the rendered element.
	PathID string `json:"path_id"`
	// D is the SVG-style path data: "M x y L x y ... [Z]".
	D string `json:"d"`
	// State is the display state of the path.
	State RenderState `json:"state"`
}

// PathData serializes points as SVG path data. The first point is a move,
// every following point a line. When closed is true a trailing " Z" closes
// the path back to its first point. An empty point list yields "".
func PathData(points []model.Point, closed bool) string {
	if len(points) == 0 {
		return ""
	}

	var b strings.Builder
	for i, pt := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(pt.String())
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}
