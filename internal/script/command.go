package script

import (
	"strconv"

	"github.com/nao1215/panelkit/internal/geometry"
)

// Kind names a command.
type Kind string

// Command kinds.
const (
	KindClick  Kind = "click"
	KindShift  Kind = "shift"
	KindCommit Kind = "commit"
	KindSelect Kind = "select"
	KindClear  Kind = "clear"
	KindZoom   Kind = "zoom"
	KindResize Kind = "resize"
	KindScroll Kind = "scroll"
	KindImage  Kind = "image"
	KindOpen   Kind = "open"
)

// Zoom actions.
const (
	ZoomIn  = "in"
	ZoomOut = "out"
	ZoomSet = "set"
)

// Command is one parsed event.
type Command struct {
	Kind Kind
	// Line is the 1-based source line, or the 1-based event position for
	// YAML scripts.
	Line int

	// X and Y are the click position, or the scroll delta.
	X, Y float64
	// Held is the modifier state for shift.
	Held bool
	// PathID is the region targeted by select.
	PathID string
	// ZoomAction is one of ZoomIn, ZoomOut, ZoomSet.
	ZoomAction string
	// Factor is the zoom factor for ZoomSet.
	Factor float64
	// Viewport is the page box for resize.
	Viewport geometry.Viewport
	// Index is the image index for image.
	Index int
	// Filename is the image name for open.
	Filename string
}

// String renders the command in line format.
func (c Command) String() string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	switch c.Kind {
	case KindClick:
		return "click " + f(c.X) + " " + f(c.Y)
	case KindShift:
		if c.Held {
			return "shift down"
		}
		return "shift up"
	case KindSelect:
		return "select " + c.PathID
	case KindZoom:
		if c.ZoomAction == ZoomSet {
			return "zoom set " + f(c.Factor)
		}
		return "zoom " + c.ZoomAction
	case KindResize:
		vp := c.Viewport
		return "resize " + f(vp.Top) + " " + f(vp.Left) + " " + f(vp.Width) + " " + f(vp.Height)
	case KindScroll:
		return "scroll " + f(c.X) + " " + f(c.Y)
	case KindImage:
		return "image " + strconv.Itoa(c.Index)
	case KindOpen:
		return "open " + c.Filename
	default:
		return string(c.Kind)
	}
}
