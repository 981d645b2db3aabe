package session

import (
	"github.com/nao1215/panelkit/internal/drawing"
	"github.com/nao1215/panelkit/internal/model"
)

// Listener is the rendering collaborator of a Session. Callbacks run
// synchronously on the goroutine that dispatched the event.
type Listener interface {
	// PathRendered is called after every mutation of a path.
	PathRendered(d drawing.Directive)

	// PanelsChanged carries the full panel list of the active image after a
	// commit, a deletion, a clear or an image switch.
	PanelsChanged(index int, panels []model.Panel)

	// ActiveImageChanged is called after a switch to another image.
	ActiveImageChanged(index int, filename string)

	// MarkerRemoved is called when a committed region is deleted.
	MarkerRemoved(pathID string)
}

// NopListener ignores every notification. Embed it to implement only the
// callbacks you need.
type NopListener struct{}

// PathRendered implements Listener.
func (NopListener) PathRendered(drawing.Directive) {}

// PanelsChanged implements Listener.
func (NopListener) PanelsChanged(int, []model.Panel) {}

// ActiveImageChanged implements Listener.
func (NopListener) ActiveImageChanged(int, string) {}

// MarkerRemoved implements Listener.
func (NopListener) MarkerRemoved(string) {}
