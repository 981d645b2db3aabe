package imageload

import (
	"context"
	"log/slog"

	"github.com/nao1215/panelkit/internal/model"
)

// Step is one stage of image decoding. Steps run in order, each one
// filling in more of the LoadedImage.
type Step interface {
	// Do runs the step. Returning an error aborts the pipeline; optional
	// data that cannot be read should be logged and skipped instead.
	Do(ctx context.Context, img *model.LoadedImage) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline runs steps over a single image.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// NewDefault creates the standard decoding pipeline:
// sniff, decode, metadata, digest.
func NewDefault(logger *slog.Logger, extensions []string) *Pipeline {
	p := New(WithLogger(logger))
	p.AddSteps(
		NewSniffStep(extensions),
		NewDecodeStep(),
		NewMetadataStep(p.logger),
		NewDigestStep(),
	)
	return p
}

// AddSteps appends steps in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step over img and stops at the first failure.
func (p *Pipeline) Execute(ctx context.Context, img *model.LoadedImage) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Do(ctx, img); err != nil {
			p.logger.Debug("decode step failed",
				"step", step.Name(),
				"file", img.Filename,
				"error", err,
			)
			return err
		}
	}
	return nil
}
