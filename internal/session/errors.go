package session

import "errors"

var (
	// ErrInvalidIndex is returned by SetActive for an index outside the
	// loaded image list.
	ErrInvalidIndex = errors.New("session: invalid image index")

	// ErrLoadInProgress is returned when LoadImages is called while an
	// earlier batch is still decoding.
	ErrLoadInProgress = errors.New("session: image load already in progress")

	// ErrNoActiveImage is returned by events that need an active image.
	ErrNoActiveImage = errors.New("session: no active image")

	// ErrSelectWhileDrawing is returned when a region is selected while a
	// path is in progress. The modifier is reserved for undo in that state.
	ErrSelectWhileDrawing = errors.New("session: cannot select a region while drawing")

	// ErrUnknownPath is returned when a selection names no rendered region.
	ErrUnknownPath = errors.New("session: unknown path")

	// ErrImageNotFound is returned when a filename matches no loaded image.
	ErrImageNotFound = errors.New("session: image not found")
)
