package script

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/panelkit/internal/geometry"
	"github.com/nao1215/panelkit/internal/model"
	"github.com/nao1215/panelkit/internal/session"
)

// Target receives replayed events. *session.Session implements it.
type Target interface {
	Pointer(x, y float64) error
	SetModifier(held bool)
	Commit() (model.Panel, bool)
	Select(pathID string) error
	ClearAll()
	ZoomIn()
	ZoomOut()
	SetZoom(factor float64)
	Resize(vp geometry.Viewport)
	Scroll(dx, dy float64)
	SetActive(index int) error
	SelectByFilename(name string) error
}

var _ Target = (*session.Session)(nil)

// Stats summarizes a replay.
type Stats struct {
	// Applied is the number of commands dispatched.
	Applied int
	// Ignored is the number of commands the session rejected as invalid.
	Ignored int
	// Committed is the number of panels created.
	Committed int
}

// Replay dispatches cmds to t in order.
//
// Invalid operations are local and non-fatal: they are logged at warn level,
// counted in Stats.Ignored, and replay continues. Only context cancellation
// or an unexpected error stops the replay.
func Replay(ctx context.Context, t Target, cmds []Command, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var stats Stats
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		committed, err := apply(t, cmd)
		stats.Applied++
		if committed {
			stats.Committed++
		}
		if err == nil {
			continue
		}
		if !session.IsIgnorable(err) {
			return stats, fmt.Errorf("line %d (%s): %w", cmd.Line, cmd, err)
		}
		stats.Ignored++
		logger.Warn("ignoring event", "line", cmd.Line, "command", cmd.String(), "error", err)
	}
	return stats, nil
}

func apply(t Target, cmd Command) (bool, error) {
	switch cmd.Kind {
	case KindClick:
		return false, t.Pointer(cmd.X, cmd.Y)
	case KindShift:
		t.SetModifier(cmd.Held)
	case KindCommit:
		_, ok := t.Commit()
		return ok, nil
	case KindSelect:
		return false, t.Select(cmd.PathID)
	case KindClear:
		t.ClearAll()
	case KindZoom:
		switch cmd.ZoomAction {
		case ZoomIn:
			t.ZoomIn()
		case ZoomOut:
			t.ZoomOut()
		case ZoomSet:
			t.SetZoom(cmd.Factor)
		}
	case KindResize:
		t.Resize(cmd.Viewport)
	case KindScroll:
		t.Scroll(cmd.X, cmd.Y)
	case KindImage:
		return false, t.SetActive(cmd.Index)
	case KindOpen:
		return false, t.SelectByFilename(cmd.Filename)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
	return false, nil
}
