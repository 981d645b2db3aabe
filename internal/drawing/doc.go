// Package drawing implements the path state machine that turns a stream of
// percentage points into closed polygons.
//
// The machine has two states. While Idle, a point starts a new path. While
// Drawing, a point extends the path, an undo removes its last point, and a
// commit closes it. Every mutation produces a Directive describing how the
// in-progress path should be rendered; the machine never renders anything
// itself.
//
// Selection of committed regions is not handled here. The session routes a
// modifier-held selection to the registry only while the machine is Idle, so
// undo and delete stay distinct transitions.
package drawing
