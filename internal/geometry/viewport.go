package geometry

import (
	"math"

	"github.com/nao1215/panelkit/internal/model"
)

// Viewport is the box of the unscaled page element as currently rendered,
// in the same pixel space as pointer events.
type Viewport struct {
	Top    float64 `json:"top" yaml:"top"`
	Left   float64 `json:"left" yaml:"left"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Scrolled returns the viewport shifted by a container scroll offset.
// A page scrolled right by dx appears dx pixels further left.
func (v Viewport) Scrolled(dx, dy float64) Viewport {
	v.Left -= dx
	v.Top -= dy
	return v
}

// IsEmpty reports whether the viewport has no drawable area.
func (v Viewport) IsEmpty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// ToPercent maps a pointer position to a page coordinate.
//
// The offset from the viewport origin is clamped to [0, Width] x [0, Height]
// so clicks outside the image saturate at the edge, then converted to a
// percentage and rounded to two decimals. An empty viewport maps every
// pointer to the origin.
func ToPercent(pointerX, pointerY float64, vp Viewport) model.Point {
	if vp.IsEmpty() {
		return model.Point{}
	}

	x := clamp(pointerX-vp.Left, 0, vp.Width)
	y := clamp(pointerY-vp.Top, 0, vp.Height)

	return model.Point{
		X: Round2(x * 100 / vp.Width),
		Y: Round2(y * 100 / vp.Height),
	}
}

// FromPercent is the inverse of ToPercent for a point inside the page.
func FromPercent(p model.Point, vp Viewport) (x, y float64) {
	return vp.Left + p.X*vp.Width/100, vp.Top + p.Y*vp.Height/100
}

// PixelRect converts a percentage rectangle to pixels of a page with the
// given natural size, rounded to two decimals. Reports use it to show where
// a panel sits in the source image.
func PixelRect(r model.Rectangle, width, height float64) model.Rectangle {
	page := Viewport{Width: width, Height: height}
	x0, y0 := FromPercent(model.Point{X: r.X, Y: r.Y}, page)
	x1, y1 := FromPercent(model.Point{X: r.X + r.Width, Y: r.Y + r.Height}, page)
	return model.Rectangle{
		X:      Round2(x0),
		Y:      Round2(y0),
		Width:  Round2(x1 - x0),
		Height: Round2(y1 - y0),
	}
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
