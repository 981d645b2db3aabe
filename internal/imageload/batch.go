package imageload

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/panelkit/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of images decoded at once.
const DefaultConcurrency = 4

// Loader decodes a batch of files into an ordered working set.
type Loader struct {
	// pipelineFactory creates the pipeline run for each image.
	pipelineFactory func() *Pipeline

	concurrency int
	extensions  []string
	sorter      *Sorter
	logger      *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConcurrency sets the number of concurrent decodes. Non-positive
// values keep the default.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithExtensions sets the accepted image extensions.
func WithExtensions(extensions []string) LoaderOption {
	return func(l *Loader) {
		if len(extensions) > 0 {
			l.extensions = extensions
		}
	}
}

// WithLoaderLogger sets the loader logger.
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithPipelineFactory replaces the per-image pipeline.
func WithPipelineFactory(factory func() *Pipeline) LoaderOption {
	return func(l *Loader) {
		l.pipelineFactory = factory
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		concurrency: DefaultConcurrency,
		extensions:  DefaultExtensions,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.pipelineFactory == nil {
		l.pipelineFactory = func() *Pipeline {
			return NewDefault(l.logger, l.extensions)
		}
	}
	l.sorter = NewSorter(l.extensions)
	return l
}

// Load decodes every image in files and returns them sorted.
//
// Non-image files are skipped. Decoding runs concurrently, and the result
// is only assembled after all decodes finish. If any decode fails, Load
// returns that error and no images.
func (l *Loader) Load(ctx context.Context, files []File) ([]model.LoadedImage, error) {
	accepted := make([]File, 0, len(files))
	for _, f := range files {
		if !IsImage(f, l.extensions) {
			l.logger.Debug("skipping non-image file", "file", f.Name)
			continue
		}
		accepted = append(accepted, f)
	}

	l.logger.Debug("decoding batch",
		"total", len(files),
		"accepted", len(accepted),
		"concurrency", l.concurrency,
	)
	start := time.Now()

	// Each goroutine writes only its own slot.
	images := make([]model.LoadedImage, len(accepted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, f := range accepted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img := model.LoadedImage{Filename: f.Name, Data: f.Data}
			if err := l.pipelineFactory().Execute(gctx, &img); err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.logger.Warn("batch decode failed", "error", err)
		return nil, err
	}

	l.sorter.Sort(images)

	l.logger.Debug("batch decoded",
		"images", len(images),
		"elapsed", time.Since(start),
	)
	return images, nil
}
