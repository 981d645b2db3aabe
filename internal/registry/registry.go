package registry

import (
	"fmt"
	"slices"

	"github.com/nao1215/panelkit/internal/model"
)

// Marker is the rendered region of a committed panel.
type Marker struct {
	// PathID is the render handle of the closed path.
	PathID string `json:"path_id"`
	// Index is the position of the panel in the registry.
	Index int `json:"index"`
}

// Registry is the panel list of the currently active image.
type Registry struct {
	panels  []model.Panel
	markers []Marker
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Append adds a panel and its marker and returns the panel's index.
func (r *Registry) Append(pathID string, panel model.Panel) int {
	idx := len(r.panels)
	r.panels = append(r.panels, panel)
	r.markers = append(r.markers, Marker{PathID: pathID, Index: idx})
	return idx
}

// RemoveAt deletes the panel at index and its marker, then reindexes the
// remaining markers.
func (r *Registry) RemoveAt(index int) (model.Panel, Marker, error) {
	if index < 0 || index >= len(r.panels) {
		return model.Panel{}, Marker{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(r.panels))
	}

	panel := r.panels[index]
	marker := r.markers[index]
	r.panels = slices.Delete(r.panels, index, index+1)
	r.markers = slices.Delete(r.markers, index, index+1)
	r.Reindex()
	return panel, marker, nil
}

// Reindex assigns each marker its current position 0..N-1.
func (r *Registry) Reindex() {
	for i := range r.markers {
		r.markers[i].Index = i
	}
}

// Clear removes every panel and marker.
func (r *Registry) Clear() {
	r.panels = nil
	r.markers = nil
}

// Len returns the number of panels.
func (r *Registry) Len() int {
	return len(r.panels)
}

// Panels returns a copy of the ordered panel list. The result is never nil.
func (r *Registry) Panels() []model.Panel {
	out := make([]model.Panel, len(r.panels))
	copy(out, r.panels)
	return out
}

// Markers returns a copy of the ordered marker list.
func (r *Registry) Markers() []Marker {
	return slices.Clone(r.markers)
}

// MarkerByPathID returns the marker rendered for pathID.
func (r *Registry) MarkerByPathID(pathID string) (Marker, bool) {
	for _, m := range r.markers {
		if m.PathID == pathID {
			return m, true
		}
	}
	return Marker{}, false
}
