package model

import (
	"time"
)

// Export is the annotation result of a whole session, ready to be written
// as a report or archived.
type Export struct {
	// GeneratedAt is when the export was taken.
	GeneratedAt time.Time `json:"generated_at"`

	// Images holds one entry per loaded image in display order.
	Images []ImageResult `json:"images"`
}

// ImageResult is the exported panel list of one image together with the
// image facts needed to interpret it.
type ImageResult struct {
	Index    int            `json:"index"`
	Filename string         `json:"filename"`
	Format   string         `json:"format"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Digest   string         `json:"digest"`
	Metadata *ImageMetadata `json:"metadata,omitempty"`
	Panels   []Panel        `json:"panels"`
}

// NewExport pairs loaded images with their results by index. Images
// without a result get an empty panel list. Results whose index is out of
// range are dropped.
func NewExport(images []LoadedImage, results []Result, at time.Time) *Export {
	byIndex := make([][]Panel, len(images))
	for _, r := range results {
		if r.Index >= 0 && r.Index < len(images) {
			byIndex[r.Index] = r.Panels
		}
	}

	out := &Export{
		GeneratedAt: at,
		Images:      make([]ImageResult, len(images)),
	}
	for i, img := range images {
		panels := byIndex[i]
		if panels == nil {
			panels = []Panel{}
		}
		out.Images[i] = ImageResult{
			Index:    i,
			Filename: img.Filename,
			Format:   img.Format,
			Width:    img.Width,
			Height:   img.Height,
			Digest:   img.Digest,
			Metadata: img.Metadata,
			Panels:   panels,
		}
	}
	return out
}

// TotalPanels returns the number of panels across all images.
func (e *Export) TotalPanels() int {
	n := 0
	for _, img := range e.Images {
		n += len(img.Panels)
	}
	return n
}

// AnnotatedCount returns the number of images with at least one panel.
func (e *Export) AnnotatedCount() int {
	n := 0
	for _, img := range e.Images {
		if len(img.Panels) > 0 {
			n++
		}
	}
	return n
}
