package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoImages is returned when no image file is given.
	ErrNoImages = errors.New("no images specified: provide at least one image file")

	// ErrInvalidZoomStep is returned when the zoom step is not positive.
	ErrInvalidZoomStep = errors.New("invalid zoom step: must be positive")

	// ErrInvalidZoomMinimum is returned when the zoom floor is not positive.
	ErrInvalidZoomMinimum = errors.New("invalid zoom minimum: must be positive")

	// ErrInvalidConcurrency is returned when decode concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid decode concurrency: must be positive")

	// ErrNoExtensions is returned when the accepted extension list is empty.
	ErrNoExtensions = errors.New("no image extensions configured")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownReportFormat is returned for a report format other than
	// simple, json or markdown.
	ErrUnknownReportFormat = errors.New("unknown report format: use simple, json or markdown")
)
