package imageload

import "errors"

var (
	// ErrNotImage is returned when a payload does not sniff as image/*.
	ErrNotImage = errors.New("imageload: not an image")

	// ErrEmptyPayload is returned for a file with no bytes.
	ErrEmptyPayload = errors.New("imageload: empty payload")

	// ErrDecode is returned when the image header cannot be decoded.
	ErrDecode = errors.New("imageload: cannot decode image")
)
