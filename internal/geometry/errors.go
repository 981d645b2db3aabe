package geometry

import "errors"

// ErrDegeneratePath is returned by Reduce when fewer than two points are given.
// Callers are expected to reject such paths before reducing them.
var ErrDegeneratePath = errors.New("degenerate path: at least two points are required")
