package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/panelkit/internal/geometry"
	"github.com/nao1215/panelkit/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SimpleWriter outputs human-readable text.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether images without panels are listed.
	showEmpty bool

	// verbose adds image metadata, serialized paths and the pixel box of
	// each panel in the source image.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to list images without panels.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WritePanels outputs the panel list text of one image.
func (w *SimpleWriter) WritePanels(panels []model.Panel) (int, error) {
	return w.writePanelText(panels)
}

// Write outputs the export in human-readable format.
func (w *SimpleWriter) Write(export *model.Export) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, export)
	for _, img := range export.Images {
		if len(img.Panels) == 0 && !w.showEmpty {
			continue
		}
		w.writeImage(&sb, img)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, export *model.Export) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          PANEL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Generated:  %s\n", export.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Images:     %d\n", len(export.Images))
	fmt.Fprintf(sb, "Annotated:  %d\n", export.AnnotatedCount())
	fmt.Fprintf(sb, "Panels:     %d\n", export.TotalPanels())
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeImage(sb *strings.Builder, img model.ImageResult) {
	upper := cases.Upper(language.English)
	title := cases.Title(language.English)

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "[%d] %s  (%s %dx%d)\n", img.Index, img.Filename, upper.String(img.Format), img.Width, img.Height)
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	if w.verbose && !img.Metadata.IsEmpty() {
		for _, f := range metadataFields(img.Metadata) {
			fmt.Fprintf(sb, "  %s: %s\n", title.String(f.label), f.value)
		}
		sb.WriteString("\n")
	}

	if len(img.Panels) == 0 {
		sb.WriteString("  " + NoPanels + "\n\n")
		return
	}

	for i, p := range img.Panels {
		fmt.Fprintf(sb, "  #%-3d x=%-7s y=%-7s width=%-7s height=%s\n",
			i+1,
			model.FormatCoordinate(p.X),
			model.FormatCoordinate(p.Y),
			model.FormatCoordinate(p.Width),
			model.FormatCoordinate(p.Height),
		)
		if w.verbose {
			px := geometry.PixelRect(p.Rectangle(), float64(img.Width), float64(img.Height))
			fmt.Fprintf(sb, "       pixels: x=%s y=%s width=%s height=%s\n",
				model.FormatCoordinate(px.X),
				model.FormatCoordinate(px.Y),
				model.FormatCoordinate(px.Width),
				model.FormatCoordinate(px.Height),
			)
			fmt.Fprintf(sb, "       path: %s\n", p.Path)
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Coordinates are percentages of the page width and height.\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

type metadataField struct {
	label string
	value string
}

// metadataFields returns the populated metadata fields in display order.
func metadataFields(m *model.ImageMetadata) []metadataField {
	all := []metadataField{
		{"software", m.Software},
		{"make", m.Make},
		{"model", m.Model},
		{"orientation", m.Orientation},
		{"x resolution", m.XResolution},
		{"y resolution", m.YResolution},
		{"resolution unit", m.ResolutionUnit},
		{"date time", m.DateTime},
	}
	out := make([]metadataField, 0, len(all))
	for _, f := range all {
		if f.value != "" {
			out = append(out, f)
		}
	}
	return out
}
