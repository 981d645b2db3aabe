// Package geometry converts pointer positions into zoom-independent page
// coordinates and reduces drawn polygons to bounding rectangles.
//
// All functions in this package are pure. Coordinates leave this package as
// percentages of the page's rendered width and height, rounded to two
// decimal places, so a region drawn at zoom 2 exports the same numbers as
// the same region drawn at zoom 1.
package geometry
