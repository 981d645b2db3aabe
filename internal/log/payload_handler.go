package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// payloadKeys are attribute keys that always carry image payloads.
var payloadKeys = map[string]bool{
	"data":       true,
	"payload":    true,
	"raw":        true,
	"image_data": true,
	"data_uri":   true,
}

// dataURIPrefix marks an inline image regardless of the attribute key.
const dataURIPrefix = "data:image/"

// MaxValueLength is the longest string value logged verbatim.
const MaxValueLength = 1024

// PayloadHandler wraps an slog.Handler and elides image payloads from log
// attributes. Elided values are logged as "<N bytes elided>".
type PayloadHandler struct {
	handler slog.Handler
}

// NewPayloadHandler creates a PayloadHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewPayloadHandler(handler slog.Handler) *PayloadHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &PayloadHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *PayloadHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle elides payload attributes and passes the record on.
func (h *PayloadHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(elideAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs returns a new handler with the elided attributes added.
func (h *PayloadHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	elided := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		elided[i] = elideAttr(a)
	}
	return &PayloadHandler{handler: h.handler.WithAttrs(elided)}
}

// WithGroup returns a new handler with the given group name.
func (h *PayloadHandler) WithGroup(name string) slog.Handler {
	return &PayloadHandler{handler: h.handler.WithGroup(name)}
}

func elideAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		group := v.Group()
		elided := make([]slog.Attr, len(group))
		for i, ga := range group {
			elided[i] = elideAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(elided...)}
	}

	size, isPayload := payloadSize(v)
	if payloadKeys[strings.ToLower(a.Key)] && size >= 0 {
		return slog.String(a.Key, elidedMarker(size))
	}
	if isPayload {
		return slog.String(a.Key, elidedMarker(size))
	}
	return a
}

// payloadSize reports the byte size of v (-1 when v has no meaningful size)
// and whether v looks like a payload by content alone.
func payloadSize(v slog.Value) (int, bool) {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		return len(s), strings.HasPrefix(s, dataURIPrefix) || len(s) > MaxValueLength
	case slog.KindAny:
		if b, ok := v.Any().([]byte); ok {
			return len(b), true
		}
	}
	return -1, false
}

func elidedMarker(n int) string {
	return fmt.Sprintf("<%d bytes elided>", n)
}

// NewLogger creates a text logger writing to w with payload elision.
// verbose selects Debug level; otherwise Warn.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPayloadHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger is like NewLogger but emits JSON lines.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewPayloadHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
