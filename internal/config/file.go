package config

// File represents the structure of the .panelkit configuration file.
type File struct {
	Zoom     ZoomSection     `yaml:"zoom,omitempty"`
	Decode   DecodeSection   `yaml:"decode,omitempty"`
	Report   ReportSection   `yaml:"report,omitempty"`
	Database DatabaseSection `yaml:"database,omitempty"`
}

// ZoomSection configures the zoom controller.
type ZoomSection struct {
	// Step is the zoom increment, 0.1 by default.
	Step float64 `yaml:"step,omitempty"`
	// Min is the zoom floor, 0.5 by default.
	Min float64 `yaml:"min,omitempty"`
}

// DecodeSection configures image loading.
type DecodeSection struct {
	Concurrency int      `yaml:"concurrency,omitempty"`
	Extensions  []string `yaml:"extensions,omitempty"`
}

// ReportSection configures report output.
type ReportSection struct {
	// Format is simple, json or markdown.
	Format string `yaml:"format,omitempty"`
	// Output is a file path; empty writes to stdout.
	Output string `yaml:"output,omitempty"`
	// ShowEmpty lists images without panels in the simple report.
	ShowEmpty *bool `yaml:"show_empty,omitempty"`
}

// DatabaseSection configures the export archive.
type DatabaseSection struct {
	Dir string `yaml:"dir,omitempty"`
	// Enabled is a pointer so that an explicit false can be told apart
	// from an omitted key.
	Enabled *bool `yaml:"enabled,omitempty"`
}
