package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/panelkit/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownWriter outputs exports in Markdown format.
// The document has a summary table, a mermaid pie chart when two or more
// images carry panels, and one section per image with its panel table.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WritePanels outputs the panel list as a fenced JSON block, or the
// NoPanels placeholder as plain text.
func (w *MarkdownWriter) WritePanels(panels []model.Panel) (int, error) {
	md := markdown.NewMarkdown(w.output)
	text, err := FormatPanels(panels)
	if err != nil {
		return 0, err
	}
	if len(panels) == 0 {
		md.PlainText(text)
	} else {
		md.CodeBlocks(markdown.SyntaxHighlight("json"), text)
	}
	return len(md.String()), md.Build()
}

// Write outputs the export in Markdown format.
func (w *MarkdownWriter) Write(export *model.Export) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, export)
	w.writeDistribution(md, export)
	for _, img := range export.Images {
		w.writeImage(md, img)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, export *model.Export) {
	md.H1("Panel Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", export.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Images", strconv.Itoa(len(export.Images))},
			{"Annotated Images", strconv.Itoa(export.AnnotatedCount())},
			{"Total Panels", strconv.Itoa(export.TotalPanels())},
		},
	})
	md.PlainText("")

	if export.TotalPanels() == 0 {
		md.Note("No panels were plotted on any image.")
		md.PlainText("")
	}
}

// writeDistribution writes a mermaid pie chart of panels per image.
func (w *MarkdownWriter) writeDistribution(md *markdown.Markdown, export *model.Export) {
	if export.AnnotatedCount() < 2 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Panels per Image"),
		piechart.WithShowData(true),
	)
	for _, img := range export.Images {
		if len(img.Panels) > 0 {
			chart.LabelAndIntValue(img.Filename, uint64(len(img.Panels)))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeImage writes one image section. Paths longer than 60 characters
// are truncated in the table; the JSON report keeps them whole.
func (w *MarkdownWriter) writeImage(md *markdown.Markdown, img model.ImageResult) {
	md.H2(img.Filename)
	md.PlainText("")
	md.PlainTextf("%s, %d x %d px, sha3-256 `%s`",
		cases.Upper(language.English).String(img.Format), img.Width, img.Height, shortDigest(img.Digest))
	md.PlainText("")

	if !img.Metadata.IsEmpty() {
		title := cases.Title(language.English)
		items := make([]string, 0)
		for _, f := range metadataFields(img.Metadata) {
			items = append(items, title.String(f.label)+": "+f.value)
		}
		md.Details("Scan metadata", strings.Join(items, "\n"))
		md.PlainText("")
	}

	if len(img.Panels) == 0 {
		md.PlainText(NoPanels)
		md.PlainText("")
		return
	}

	rows := make([][]string, len(img.Panels))
	for i, p := range img.Panels {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			model.FormatCoordinate(p.X),
			model.FormatCoordinate(p.Y),
			model.FormatCoordinate(p.Width),
			model.FormatCoordinate(p.Height),
			truncateString(p.Path, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "X", "Y", "Width", "Height", "Path"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the closing rule and the coordinate note.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Coordinates are percentages of the page width and height. Generated by panelkit.*")
}

// shortDigest returns the first characters of a hex digest, or "-".
func shortDigest(d string) string {
	if d == "" {
		return "-"
	}
	return truncateString(d, 16)
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
