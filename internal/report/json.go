package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/panelkit/internal/model"
)

// JSONWriter outputs exports in JSON format.
// The document is the model.Export itself, so field names follow its json
// tags and coordinates are percent values rounded to two decimals.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  "), the layout used
// by the panel list text.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the export as a single JSON document followed by a
// newline. Images without panels carry an empty "panels" array.
func (w *JSONWriter) Write(export *model.Export) (int, error) {
	return w.writeJSON(export)
}

// WritePanels outputs the panel list. An empty list is written as the
// NoPanels placeholder, not as "[]".
func (w *JSONWriter) WritePanels(panels []model.Panel) (int, error) {
	return w.writePanelText(panels)
}

// writeJSON marshals v with the configured indentation and terminates the
// document with a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
