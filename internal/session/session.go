package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/nao1215/panelkit/internal/drawing"
	"github.com/nao1215/panelkit/internal/geometry"
	"github.com/nao1215/panelkit/internal/imageload"
	"github.com/nao1215/panelkit/internal/model"
	"github.com/nao1215/panelkit/internal/registry"
	"github.com/nao1215/panelkit/internal/zoom"
)

// NoActive is the active index before any image is loaded.
const NoActive = -1

// Session is a single annotation session.
type Session struct {
	loader   *imageload.Loader
	listener Listener
	logger   *slog.Logger

	zoomStep    float64
	zoomMinimum float64

	images []model.LoadedImage
	active int

	zoom     *zoom.Controller
	machine  *drawing.Machine
	registry *registry.Registry

	modifier bool

	// origin is the page position supplied by the last resize; only Top and
	// Left are used. scrollX and scrollY are the container scroll offsets.
	origin           geometry.Viewport
	scrollX, scrollY float64
	viewport         geometry.Viewport

	// results holds the last published panel list per image index. It
	// outlives image switches, unlike the registry. Filenames are not
	// unique across directories, so they are never used as the key.
	results [][]model.Panel

	loading atomic.Bool
}

// Option configures a Session.
type Option func(*Session)

// WithLoader sets the image loader.
func WithLoader(l *imageload.Loader) Option {
	return func(s *Session) {
		s.loader = l
	}
}

// WithListener sets the rendering collaborator.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithZoom sets the zoom step and floor.
func WithZoom(step, minimum float64) Option {
	return func(s *Session) {
		s.zoomStep = step
		s.zoomMinimum = minimum
	}
}

// New creates an empty Session with no active image.
func New(opts ...Option) *Session {
	s := &Session{
		active:      NoActive,
		zoomStep:    zoom.DefaultStep,
		zoomMinimum: zoom.DefaultMinimum,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.listener == nil {
		s.listener = NopListener{}
	}
	if s.loader == nil {
		s.loader = imageload.NewLoader(imageload.WithLoaderLogger(s.logger))
	}

	s.zoom = zoom.New(
		zoom.WithStep(s.zoomStep),
		zoom.WithMinimum(s.zoomMinimum),
		zoom.WithOnChange(func(float64) { s.measure() }),
	)
	s.machine = drawing.NewMachine(func(d drawing.Directive) {
		s.listener.PathRendered(d)
	})
	s.registry = registry.New()
	return s
}

// LoadImages decodes files, replaces the image list with the sorted
// result and activates the first image.
//
// Non-image files are skipped. If any image fails to decode the session is
// left untouched. A call made while another batch is decoding is rejected
// with ErrLoadInProgress.
func (s *Session) LoadImages(ctx context.Context, files []imageload.File) ([]model.LoadedImage, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return nil, ErrLoadInProgress
	}
	defer s.loading.Store(false)

	images, err := s.loader.Load(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	s.images = images
	s.results = make([][]model.Panel, len(images))
	for i := range s.results {
		s.results[i] = []model.Panel{}
	}

	if len(images) == 0 {
		s.active = NoActive
		s.machine.Reset()
		s.registry.Clear()
		s.logger.Info("no images in batch")
		return images, nil
	}

	s.logger.Info("images loaded", "count", len(images))
	if err := s.SetActive(0); err != nil {
		return nil, err
	}
	return images, nil
}

// Images returns a copy of the loaded image list in display order.
func (s *Session) Images() []model.LoadedImage {
	out := make([]model.LoadedImage, len(s.images))
	copy(out, s.images)
	return out
}

// Active returns the active index, or NoActive.
func (s *Session) Active() int {
	return s.active
}

// ActiveImage returns the active image.
func (s *Session) ActiveImage() (model.LoadedImage, bool) {
	if s.active == NoActive {
		return model.LoadedImage{}, false
	}
	return s.images[s.active], true
}

// SetActive switches to the image at index. The registry is cleared, any
// in-progress path is abandoned, and zoom returns to natural size.
func (s *Session) SetActive(index int) error {
	if index < 0 || index >= len(s.images) {
		return fmt.Errorf("%w: %d (have %d images)", ErrInvalidIndex, index, len(s.images))
	}

	s.machine.Reset()
	s.registry.Clear()

	img := s.images[index]
	s.active = index
	s.zoom.SetNatural(float64(img.Width), float64(img.Height))
	s.zoom.SetZoom(zoom.Natural)

	s.logger.Debug("active image changed",
		"index", index,
		"file", img.Filename,
		"width", img.Width,
		"height", img.Height,
	)
	s.listener.ActiveImageChanged(index, img.Filename)
	s.publishPanels()
	return nil
}

// FindByFilename returns the image with exactly the given filename.
func (s *Session) FindByFilename(name string) (model.LoadedImage, bool) {
	if i := s.IndexOf(name); i >= 0 {
		return s.images[i], true
	}
	return model.LoadedImage{}, false
}

// IndexOf returns the index of the image with the given filename, or -1.
// With duplicate names the first in display order wins.
func (s *Session) IndexOf(name string) int {
	for i, img := range s.images {
		if img.Filename == name {
			return i
		}
	}
	return -1
}

// SelectByFilename activates the image with the given filename.
func (s *Session) SelectByFilename(name string) error {
	i := s.IndexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrImageNotFound, name)
	}
	return s.SetActive(i)
}

// Viewport returns the current page box used for coordinate mapping.
func (s *Session) Viewport() geometry.Viewport {
	return s.viewport
}

// ZoomFactor returns the current zoom factor.
func (s *Session) ZoomFactor() float64 {
	return s.zoom.Factor()
}

// DrawingState returns the state of the path machine.
func (s *Session) DrawingState() drawing.State {
	return s.machine.State()
}

// CurrentPath returns the in-progress path, if any.
func (s *Session) CurrentPath() (drawing.Path, bool) {
	return s.machine.Current()
}

// Modifier reports whether the modifier key is held.
func (s *Session) Modifier() bool {
	return s.modifier
}

// Panels returns the panels of the active image.
func (s *Session) Panels() []model.Panel {
	return s.registry.Panels()
}

// Markers returns the rendered region markers of the active image.
func (s *Session) Markers() []registry.Marker {
	return s.registry.Markers()
}

// Results returns the last published panel list of every loaded image, in
// display order.
func (s *Session) Results() []model.Result {
	out := make([]model.Result, len(s.images))
	for i, img := range s.images {
		panels := s.results[i]
		if panels == nil {
			panels = []model.Panel{}
		}
		out[i] = model.Result{Index: i, Filename: img.Filename, Panels: panels}
	}
	return out
}

// measure recomputes the page box from the zoom controller and the last
// known position and scroll offsets.
func (s *Session) measure() {
	w, h := s.zoom.RenderedSize()
	s.viewport = geometry.Viewport{
		Top:    s.origin.Top,
		Left:   s.origin.Left,
		Width:  w,
		Height: h,
	}.Scrolled(s.scrollX, s.scrollY)
}

func (s *Session) publishPanels() {
	if s.active == NoActive {
		return
	}
	panels := s.registry.Panels()
	s.results[s.active] = panels
	s.listener.PanelsChanged(s.active, panels)
}

// IsIgnorable reports whether err is one of the local, non-fatal
// conditions that an event loop should log and skip.
func IsIgnorable(err error) bool {
	return errors.Is(err, ErrInvalidIndex) ||
		errors.Is(err, ErrNoActiveImage) ||
		errors.Is(err, ErrSelectWhileDrawing) ||
		errors.Is(err, ErrUnknownPath) ||
		errors.Is(err, ErrImageNotFound)
}
