package drawing

// State is the drawing state of a Machine.
type State int

const (
	// Idle means no path is in progress.
	Idle State = iota
	// Drawing means a path is accumulating points.
	Drawing
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	default:
		return "unknown"
	}
}
