// Package log provides the slog setup for panelkit.
//
// Loaded page images travel through the code as raw bytes and data URIs.
// A single stray attribute would dump megabytes of base64 into the log, so
// PayloadHandler replaces such values with a short size marker before they
// reach the underlying handler:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("image decoded", "file", "1.png", "data", img.Data)
//	// file=1.png data="<48213 bytes elided>"
//
// The handler works with any slog.Handler (text, JSON) and can be set as
// the default with slog.SetDefault.
package log
