package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/google/go-cmp/cmp"
)

// TestNewConfig verifies the documented defaults. Changing a default should
// fail here first.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default ZoomStep is 0.1", func(t *testing.T) {
		t.Parallel()
		if cfg.ZoomStep != 0.1 {
			t.Errorf("expected ZoomStep to be 0.1, got %v", cfg.ZoomStep)
		}
	})

	t.Run("default ZoomMinimum is 0.5", func(t *testing.T) {
		t.Parallel()
		if cfg.ZoomMinimum != 0.5 {
			t.Errorf("expected ZoomMinimum to be 0.5, got %v", cfg.ZoomMinimum)
		}
	})

	t.Run("default Concurrency is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 4 {
			t.Errorf("expected Concurrency to be 4, got %d", cfg.Concurrency)
		}
	})

	t.Run("default Extensions", func(t *testing.T) {
		t.Parallel()
		want := []string{"gif", "jpg", "jpeg", "tiff", "png", "bmp", "webp"}
		if diff := cmp.Diff(want, cfg.Extensions); diff != "" {
			t.Errorf("Extensions mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("default ReportFormat is simple", func(t *testing.T) {
		t.Parallel()
		if cfg.ReportFormat != "simple" {
			t.Errorf("expected ReportFormat to be simple, got %q", cfg.ReportFormat)
		}
	})

	t.Run("default SaveToDB is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
	})

	t.Run("default ShowEmpty is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.ShowEmpty {
			t.Error("expected ShowEmpty to be true")
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("Extensions are not shared with DefaultExtensions", func(t *testing.T) {
		t.Parallel()
		other := NewConfig()
		other.Extensions[0] = "changed"
		if DefaultExtensions[0] != "gif" {
			t.Error("NewConfig must copy DefaultExtensions")
		}
	})
}

// TestConfigValidate tests the Validate method.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Images = []string{"1.png"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "no images", mutate: func(c *Config) { c.Images = nil }, wantErr: ErrNoImages},
		{name: "zero zoom step", mutate: func(c *Config) { c.ZoomStep = 0 }, wantErr: ErrInvalidZoomStep},
		{name: "negative zoom minimum", mutate: func(c *Config) { c.ZoomMinimum = -1 }, wantErr: ErrInvalidZoomMinimum},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "empty extensions", mutate: func(c *Config) { c.Extensions = nil }, wantErr: ErrNoExtensions},
		{
			name: "json and markdown together",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{name: "unknown format", mutate: func(c *Config) { c.ReportFormat = "html" }, wantErr: ErrUnknownReportFormat},
		{
			name: "shorthand overrides unknown format",
			mutate: func(c *Config) {
				c.ReportFormat = "html"
				c.JSONReport = true
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEffectiveReportFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "format field", cfg: Config{ReportFormat: "markdown"}, want: "markdown"},
		{name: "json flag", cfg: Config{ReportFormat: "simple", JSONReport: true}, want: "json"},
		{name: "markdown flag", cfg: Config{ReportFormat: "simple", MarkdownReport: true}, want: "markdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.cfg.EffectiveReportFormat(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestApplyFile tests merging the config file over defaults.
func TestApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("nil file leaves defaults", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ApplyFile(nil)
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()
		disabled := false
		cfg := NewConfig()
		cfg.ApplyFile(&File{
			Zoom:     ZoomSection{Step: 0.25, Min: 0.2},
			Decode:   DecodeSection{Concurrency: 8, Extensions: []string{".PNG", "jpg", "png", " "}},
			Report:   ReportSection{Format: "Markdown", Output: "out.md", ShowEmpty: &disabled},
			Database: DatabaseSection{Dir: "/tmp/panelkit", Enabled: &disabled},
		})

		want := NewConfig()
		want.ZoomStep = 0.25
		want.ZoomMinimum = 0.2
		want.Concurrency = 8
		want.Extensions = []string{"png", "jpg"}
		want.ReportFormat = "markdown"
		want.ReportFile = "out.md"
		want.ShowEmpty = false
		want.DBDir = "/tmp/panelkit"
		want.SaveToDB = false
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("zero values keep current settings", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ApplyFile(&File{Zoom: ZoomSection{Step: -1}})
		if cfg.ZoomStep != DefaultZoomStep {
			t.Errorf("expected ZoomStep %v, got %v", DefaultZoomStep, cfg.ZoomStep)
		}
		if !cfg.SaveToDB {
			t.Error("omitted database.enabled must not disable the archive")
		}
		if !cfg.ShowEmpty {
			t.Error("omitted report.show_empty must not hide empty images")
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.panelkit")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), ".panelkit")

		content := `zoom:
  step: 0.2
  min: 0.4
decode:
  concurrency: 2
  extensions:
    - png
    - jpg
report:
  format: json
  show_empty: false
database:
  dir: /var/lib/panelkit
  enabled: false
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		disabled := false
		want := &File{
			Zoom:     ZoomSection{Step: 0.2, Min: 0.4},
			Decode:   DecodeSection{Concurrency: 2, Extensions: []string{"png", "jpg"}},
			Report:   ReportSection{Format: "json", ShowEmpty: &disabled},
			Database: DatabaseSection{Dir: "/var/lib/panelkit", Enabled: &disabled},
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("file mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), ".panelkit")

		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "custom.yaml")

		if err := os.WriteFile(configPath, []byte("zoom: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("implicit search returns a known config path or nothing", func(t *testing.T) {
		t.Parallel()
		got := FindConfigFile("")
		if got != "" && !strings.HasSuffix(got, DefaultConfigFile) && !strings.HasSuffix(got, XDGConfigFile) {
			t.Errorf("unexpected config path %q", got)
		}
	})
}

// TestFindConfigFileXDG tests the lookup in the XDG config directory. It
// changes process environment and cannot run in parallel.
func TestFindConfigFileXDG(t *testing.T) {
	home := t.TempDir()
	configHome := t.TempDir()

	t.Cleanup(xdg.Reload)
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	xdg.Reload()

	want := filepath.Join(configHome, AppName, XDGConfigFile)
	if got := FindConfigFile(""); got == want {
		t.Fatalf("expected no config before it is written, got %q", got)
	}

	if err := os.MkdirAll(filepath.Dir(want), 0750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(want, []byte("zoom:\n  step: 0.3\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if got := FindConfigFile(""); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	homeConfig := filepath.Join(home, DefaultConfigFile)
	if err := os.WriteFile(homeConfig, []byte("zoom: {}"), 0600); err != nil {
		t.Fatalf("failed to write home config: %v", err)
	}
	if got := FindConfigFile(""); got != want {
		t.Errorf("expected the XDG config to win over the home directory, got %q", got)
	}
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected data dir ending in %q, got %q", AppName, dir)
	}
	if dir := XDGConfigDir(); !strings.HasSuffix(dir, AppName) {
		t.Errorf("expected config dir ending in %q, got %q", AppName, dir)
	}
}
