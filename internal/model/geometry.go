package model

import (
	"strconv"
)

// Point is an (x, y) pair expressed as percentages of the page's width and
// height at zoom 1. Values are always within [0, 100].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// String returns the point as "x y", the form used in serialized paths.
func (p Point) String() string {
	return FormatCoordinate(p.X) + " " + FormatCoordinate(p.Y)
}

// Rectangle is an axis-aligned bounding box in percentage units.
// X and Y are the top-left corner.
type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FormatCoordinate formats a percentage with the shortest representation
// that round-trips, so 12.50 prints as "12.5" and 10 prints as "10".
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
