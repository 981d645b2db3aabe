package zoom

import (
	"math"
)

// maxPrecision bounds the number of decimals a step may carry. Steps with
// more decimals than this are rounded at this precision.
const maxPrecision = 10

const (
	// DefaultStep is the amount added or removed by one ZoomIn or ZoomOut.
	DefaultStep = 0.1

	// DefaultMinimum is the floor of the scale factor. There is no ceiling.
	DefaultMinimum = 0.5

	// Natural is the factor at which the page is shown at its natural width.
	Natural = 1.0
)

// Controller holds the current scale factor.
type Controller struct {
	factor  float64
	step    float64
	minimum float64

	// scale is 10^n where n is the number of decimals of the step, at
	// least 2. Every factor is rounded to this precision.
	scale float64

	naturalWidth  float64
	naturalHeight float64

	// onChange is invoked after every factor or natural size change.
	onChange func(factor float64)
}

// Option configures a Controller.
type Option func(*Controller)

// WithStep sets the increment used by ZoomIn and ZoomOut.
// Non-positive values are ignored.
func WithStep(step float64) Option {
	return func(c *Controller) {
		if step > 0 {
			c.step = step
		}
	}
}

// WithMinimum sets the zoom floor. Non-positive values are ignored.
func WithMinimum(minimum float64) Option {
	return func(c *Controller) {
		if minimum > 0 {
			c.minimum = minimum
		}
	}
}

// WithOnChange registers the callback run after each change.
func WithOnChange(fn func(factor float64)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// New creates a Controller at the natural factor.
func New(opts ...Option) *Controller {
	c := &Controller{
		factor:  Natural,
		step:    DefaultStep,
		minimum: DefaultMinimum,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.scale = precisionScale(c.step)
	return c
}

// precisionScale returns 10^n for the smallest n >= 2 at which step is a
// whole number of units. A step of 0.1 gives 100, 0.025 gives 1000.
func precisionScale(step float64) float64 {
	scale := 100.0
	for n := 2; n < maxPrecision; n++ {
		scaled := step * scale
		if math.Abs(scaled-math.Round(scaled)) < 1e-9*scale {
			return scale
		}
		scale *= 10
	}
	return scale
}

// Factor returns the current scale factor.
func (c *Controller) Factor() float64 {
	return c.factor
}

// ZoomIn increases the factor by one step.
func (c *Controller) ZoomIn() {
	c.apply(c.factor + c.step)
}

// ZoomOut decreases the factor by one step, never below the floor.
func (c *Controller) ZoomOut() {
	c.apply(c.factor - c.step)
}

// SetZoom sets the factor directly. Values below the floor are clamped.
func (c *Controller) SetZoom(factor float64) {
	c.apply(factor)
}

// SetNatural records the natural page size, typically on image load.
func (c *Controller) SetNatural(width, height float64) {
	c.naturalWidth = width
	c.naturalHeight = height
	c.notify()
}

// RenderedSize returns the page size at the current factor.
func (c *Controller) RenderedSize() (width, height float64) {
	return c.naturalWidth * c.factor, c.naturalHeight * c.factor
}

func (c *Controller) apply(factor float64) {
	// Repeated float steps drift (1.1+0.1 = 1.2000000000000002). Rounding
	// at the step's precision keeps ten steps of 0.1 equal to exactly 1.
	factor = math.Round(factor*c.scale) / c.scale
	if factor < c.minimum {
		factor = c.minimum
	}
	c.factor = factor
	c.notify()
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange(c.factor)
	}
}
