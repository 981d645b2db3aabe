package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "panelkit"

	// DefaultZoomStep is added or removed by one zoom in or out.
	DefaultZoomStep = 0.1

	// DefaultZoomMinimum is the zoom floor.
	DefaultZoomMinimum = 0.5

	// DefaultConcurrency is the number of images decoded at once.
	DefaultConcurrency = 4

	// DefaultReportFormat is the report written when no format flag is set.
	DefaultReportFormat = "simple"
)

// DefaultExtensions are the image extensions accepted and stripped before
// numeric filename sorting.
var DefaultExtensions = []string{"gif", "jpg", "jpeg", "tiff", "png", "bmp", "webp"}

var reportFormats = []string{"simple", "json", "markdown"}

// Config holds all configuration options for panelkit. It is built once
// from defaults, the config file and CLI flags, then passed down explicitly.
type Config struct {
	// Images are the page image paths to load.
	Images []string

	// ScriptPath is the event script to replay. "-" reads stdin; empty
	// replays nothing.
	ScriptPath string

	// ZoomStep is the zoom increment.
	ZoomStep float64

	// ZoomMinimum is the zoom floor.
	ZoomMinimum float64

	// Concurrency is the number of images decoded at once.
	Concurrency int

	// Extensions are the accepted image extensions, without dots.
	Extensions []string

	// ReportFormat is one of simple, json, markdown.
	ReportFormat string

	// JSONReport and MarkdownReport are the CLI shorthands for ReportFormat.
	// They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile is the report output path. Empty means stdout.
	ReportFile string

	// ShowEmpty lists images without panels in the simple report.
	ShowEmpty bool

	// Live writes the panel list of the active image to stderr after
	// every change.
	Live bool

	// Verbose enables debug logging and the detailed simple report.
	Verbose bool

	// LogJSON switches the log output from text to JSON lines.
	LogJSON bool

	// ConfigFilePath is an explicit config file path. When empty, the
	// current directory, the XDG config directory and the home directory
	// are searched.
	ConfigFilePath string

	// DBDir is the export archive directory.
	DBDir string

	// SaveToDB archives every export.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		ZoomStep:     DefaultZoomStep,
		ZoomMinimum:  DefaultZoomMinimum,
		Concurrency:  DefaultConcurrency,
		Extensions:   slices.Clone(DefaultExtensions),
		ReportFormat: DefaultReportFormat,
		ShowEmpty:    true,
		DBDir:        XDGDataDir(),
		SaveToDB:     true,
	}
}

// XDGDataDir returns the XDG data directory for panelkit
// (~/.local/share/panelkit on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for panelkit
// (~/.config/panelkit on Linux).
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies every value set in the config file onto c. Zero values
// in the file leave the current setting alone.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Zoom.Step > 0 {
		c.ZoomStep = f.Zoom.Step
	}
	if f.Zoom.Min > 0 {
		c.ZoomMinimum = f.Zoom.Min
	}
	if f.Decode.Concurrency > 0 {
		c.Concurrency = f.Decode.Concurrency
	}
	if len(f.Decode.Extensions) > 0 {
		c.Extensions = normalizeExtensions(f.Decode.Extensions)
	}
	if f.Report.Format != "" {
		c.ReportFormat = strings.ToLower(f.Report.Format)
	}
	if f.Report.Output != "" {
		c.ReportFile = f.Report.Output
	}
	if f.Report.ShowEmpty != nil {
		c.ShowEmpty = *f.Report.ShowEmpty
	}
	if f.Database.Dir != "" {
		c.DBDir = f.Database.Dir
	}
	if f.Database.Enabled != nil {
		c.SaveToDB = *f.Database.Enabled
	}
}

// EffectiveReportFormat resolves the report format, letting the --json and
// --markdown shorthands win over ReportFormat.
func (c *Config) EffectiveReportFormat() string {
	switch {
	case c.JSONReport:
		return "json"
	case c.MarkdownReport:
		return "markdown"
	default:
		return c.ReportFormat
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Images) == 0 {
		return ErrNoImages
	}
	if c.ZoomStep <= 0 {
		return ErrInvalidZoomStep
	}
	if c.ZoomMinimum <= 0 {
		return ErrInvalidZoomMinimum
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if len(c.Extensions) == 0 {
		return ErrNoExtensions
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if !slices.Contains(reportFormats, c.EffectiveReportFormat()) {
		return ErrUnknownReportFormat
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" && !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
