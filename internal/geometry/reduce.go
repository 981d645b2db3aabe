package geometry

import (
	"math"

	"github.com/nao1215/panelkit/internal/model"
)

// Reduce returns the axis-aligned bounding rectangle of points.
//
// X and Y are the minimum coordinates. Width and Height are the extents
// rounded to two decimals. Fewer than two points yields ErrDegeneratePath.
func Reduce(points []model.Point) (model.Rectangle, error) {
	if len(points) < 2 {
		return model.Rectangle{}, ErrDegeneratePath
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	return model.Rectangle{
		X:      minX,
		Y:      minY,
		Width:  Round2(maxX - minX),
		Height: Round2(maxY - minY),
	}, nil
}
