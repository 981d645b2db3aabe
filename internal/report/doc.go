// Package report writes panel lists in several formats.
//
// Writers handle two shapes of output. WritePanels renders the panel list of
// a single image, the text a results entry shows after every commit or
// deletion. Write renders a whole session export.
//
//   - SimpleWriter: plain text for terminals
//   - JSONWriter: indented JSON for tooling
//   - MarkdownWriter: Markdown for sharing
package report
