package model

import (
	"strings"
)

// Panel is a committed region. X, Y, Width and Height are the bounding
// rectangle of the drawn polygon; Path is the serialized point sequence
// that produced it ("x y, x y, ...").
//
// Panels are immutable once created. The registry may remove them but
// never edits them in place.
type Panel struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Path   string  `json:"path"`
}

// NewPanel builds a Panel from a reduced rectangle and the points that were drawn.
func NewPanel(rect Rectangle, points []Point) Panel {
	return Panel{
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.Width,
		Height: rect.Height,
		Path:   SerializePoints(points),
	}
}

// Rectangle returns the bounding rectangle of the panel.
func (p Panel) Rectangle() Rectangle {
	return Rectangle{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// SerializePoints joins points as "x y, x y, ...".
func SerializePoints(points []Point) string {
	parts := make([]string, len(points))
	for i, pt := range points {
		parts[i] = pt.String()
	}
	return strings.Join(parts, ", ")
}

// Result is the exported panel list of one loaded image.
type Result struct {
	// Index is the position of the image in the sorted working set.
	Index int `json:"index"`

	// Filename is the image's original filename.
	Filename string `json:"filename"`

	// Panels is the ordered panel list, empty when nothing was plotted.
	Panels []Panel `json:"panels"`
}
