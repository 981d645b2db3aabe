package registry

import "errors"

// ErrIndexOutOfRange is returned when a removal targets a missing index.
var ErrIndexOutOfRange = errors.New("registry: index out of range")
