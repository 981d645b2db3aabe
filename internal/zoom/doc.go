// Package zoom maintains the display scale factor of the page surface.
//
// The controller only knows the natural page size and the factor applied to
// it. It never touches page coordinates: the session re-measures the
// viewport through the change callback, and the coordinate mapper consumes
// that viewport, so drawn geometry stays zoom-independent.
package zoom
