package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/panelkit/internal/model"
)

// NoPanels is the text shown for an image without panels.
const NoPanels = "No panels plotted."

// Format names accepted by New.
const (
	FormatSimple   = "simple"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs a full session export.
	Write(export *model.Export) (int, error)

	// WritePanels outputs the panel list of a single image.
	WritePanels(panels []model.Panel) (int, error)
}

// New returns the writer for the named format. The options only affect
// the simple text format; JSON and Markdown always carry every image and
// all metadata.
func New(format string, output io.Writer, opts ...SimpleWriterOption) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatSimple, "":
		return NewSimpleWriter(output, opts...), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// FormatPanels renders a panel list as pretty-printed JSON with two-space
// indentation, or NoPanels when the list is empty.
func FormatPanels(panels []model.Panel) (string, error) {
	if len(panels) == 0 {
		return NoPanels, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(panels); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// writePanelText writes FormatPanels output followed by a newline.
func (b baseWriter) writePanelText(panels []model.Panel) (int, error) {
	text, err := FormatPanels(panels)
	if err != nil {
		return 0, err
	}
	return io.WriteString(b.output, text+"\n")
}
