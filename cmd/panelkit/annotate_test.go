package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/nao1215/panelkit/internal/config"
	"github.com/nao1215/panelkit/internal/database"
	"github.com/nao1215/panelkit/internal/model"
)

// writePNG writes a w×h PNG named name into dir and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatalf("failed to write png: %v", err)
	}
	return path
}

// emptyConfig returns the path of an empty config file so tests never pick
// up a .panelkit from the machine running them.
func emptyConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnnotateJSON(t *testing.T) {
	dir := t.TempDir()
	first := writePNG(t, dir, "10.png", 100, 50)
	second := writePNG(t, dir, "2.png", 200, 100)
	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("not an image"), 0600); err != nil {
		t.Fatal(err)
	}

	// 2.png sorts first. Zooming to 2 and back must not change the result.
	events := strings.Join([]string{
		"# first page",
		"zoom in",
		"zoom set 1",
		"click 20 10",
		"click 100 10",
		"click 100 50",
		"commit",
		"open 10.png",
		"click 10 5",
		"commit",
		"select path-99",
	}, "\n")

	stdout, stderr, err := runRoot(t, events,
		"annotate", first, second, notes,
		"-s", "-", "--json", "--no-db", "-c", emptyConfig(t, dir))
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
	}

	var export model.Export
	if err := json.Unmarshal([]byte(stdout), &export); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, stdout)
	}

	gotNames := []string{}
	for _, img := range export.Images {
		gotNames = append(gotNames, img.Filename)
	}
	if diff := cmp.Diff([]string{"2.png", "10.png"}, gotNames); diff != "" {
		t.Errorf("image order mismatch (-want +got):\n%s", diff)
	}

	wantPanels := []model.Panel{{X: 10, Y: 10, Width: 40, Height: 40, Path: "10 10, 50 10, 50 50"}}
	if diff := cmp.Diff(wantPanels, export.Images[0].Panels); diff != "" {
		t.Errorf("panels mismatch (-want +got):\n%s", diff)
	}
	if len(export.Images[1].Panels) != 0 {
		t.Errorf("single-point path must not produce a panel, got %v", export.Images[1].Panels)
	}

	if !strings.Contains(stderr, "1 panels on 1 of 2 images") {
		t.Errorf("expected summary on stderr, got: %s", stderr)
	}
	if !strings.Contains(stderr, "(1 ignored)") {
		t.Errorf("expected the unknown selection to be ignored, got: %s", stderr)
	}
}

func TestAnnotateWritesReportAndArchive(t *testing.T) {
	dir := t.TempDir()
	page := writePNG(t, dir, "1.png", 100, 100)
	scriptPath := filepath.Join(dir, "events.yaml")
	content := `events:
  - type: click
    x: 0
    y: 0
  - type: click
    x: 25
    y: 50
  - type: commit
`
	if err := os.WriteFile(scriptPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	reportPath := filepath.Join(dir, "out", "panels.md")
	dbDir := filepath.Join(dir, "db")

	_, stderr, err := runRoot(t, "",
		"annotate", page, "-s", scriptPath, "--markdown", "-o", reportPath,
		"--db-dir", dbDir, "-c", emptyConfig(t, dir))
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
	}

	md, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(md), "# Panel Report") {
		t.Errorf("expected markdown report, got:\n%s", md)
	}

	db, err := database.Open(dbDir, database.Options{})
	if err != nil {
		t.Fatalf("archive not created: %v", err)
	}
	defer db.Close()

	exports, err := db.ListExports(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 1 || exports[0].PanelCount != 1 {
		t.Errorf("expected one archived export with one panel, got %+v", exports)
	}
}

func TestAnnotateErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := emptyConfig(t, dir)

	t.Run("no images", func(t *testing.T) {
		_, _, err := runRoot(t, "", "annotate", "-c", cfgPath, "--no-db")
		if !errors.Is(err, config.ErrNoImages) {
			t.Errorf("expected ErrNoImages, got %v", err)
		}
	})

	t.Run("only non-image files", func(t *testing.T) {
		notes := filepath.Join(dir, "notes.txt")
		if err := os.WriteFile(notes, []byte("plain text"), 0600); err != nil {
			t.Fatal(err)
		}
		_, _, err := runRoot(t, "", "annotate", notes, "-c", cfgPath, "--no-db")
		if !errors.Is(err, errNoDecodableImages) {
			t.Errorf("expected errNoDecodableImages, got %v", err)
		}
	})

	t.Run("conflicting formats", func(t *testing.T) {
		page := writePNG(t, dir, "1.png", 10, 10)
		_, _, err := runRoot(t, "", "annotate", page, "--json", "--markdown", "-c", cfgPath, "--no-db")
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("missing explicit config", func(t *testing.T) {
		page := writePNG(t, dir, "1.png", 10, 10)
		_, _, err := runRoot(t, "", "annotate", page, "-c", filepath.Join(dir, "missing.yaml"))
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("bad script", func(t *testing.T) {
		page := writePNG(t, dir, "1.png", 10, 10)
		_, _, err := runRoot(t, "jump 1 2\n", "annotate", page, "-s", "-", "-c", cfgPath, "--no-db")
		if err == nil || !strings.Contains(err.Error(), "stdin") {
			t.Errorf("expected script parse error, got %v", err)
		}
	})
}

func TestBuildConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := `zoom:
  step: 0.25
decode:
  concurrency: 2
report:
  format: markdown
database:
  enabled: false
`
	if err := os.WriteFile(cfgPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := NewAnnotateCmd()
	if err := cmd.ParseFlags([]string{"-c", cfgPath, "-n", "8", "-s", "events.txt"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := buildConfig(cmd, []string{"1.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ZoomStep != 0.25 {
		t.Errorf("expected zoom step from file, got %v", cfg.ZoomStep)
	}
	if cfg.ZoomMinimum != config.DefaultZoomMinimum {
		t.Errorf("expected default zoom minimum, got %v", cfg.ZoomMinimum)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("expected flag to override file concurrency, got %d", cfg.Concurrency)
	}
	if cfg.EffectiveReportFormat() != "markdown" {
		t.Errorf("expected markdown from file, got %q", cfg.EffectiveReportFormat())
	}
	if cfg.SaveToDB {
		t.Error("expected archive disabled by file")
	}
	if cfg.ScriptPath != "events.txt" {
		t.Errorf("expected script path, got %q", cfg.ScriptPath)
	}
	if diff := cmp.Diff([]string{"1.png"}, cfg.Images); diff != "" {
		t.Errorf("images mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotateLivePanels(t *testing.T) {
	dir := t.TempDir()
	page := writePNG(t, dir, "1.png", 100, 100)
	events := "click 0 0\nclick 50 50\ncommit\nclear\n"

	_, stderr, err := runRoot(t, events,
		"annotate", page, "-s", "-", "--live", "--no-db", "-c", emptyConfig(t, dir))
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
	}

	want := strings.Join([]string{
		"--- 1.png (0 panels)",
		"No panels plotted.",
		"--- 1.png (1 panels)",
		"[",
		"  {",
		`    "x": 0,`,
		`    "y": 0,`,
		`    "width": 50,`,
		`    "height": 50,`,
		`    "path": "0 0, 50 50"`,
		"  }",
		"]",
		"--- 1.png (0 panels)",
		"No panels plotted.",
	}, "\n")
	if !strings.Contains(stderr, want) {
		t.Errorf("live panel list mismatch\nwant:\n%s\ngot:\n%s", want, stderr)
	}
}

func TestAnnotateSimpleReportOptions(t *testing.T) {
	dir := t.TempDir()
	first := writePNG(t, dir, "1.png", 200, 100)
	second := writePNG(t, dir, "2.png", 200, 100)
	cfgPath := emptyConfig(t, dir)
	events := "click 20 10\nclick 100 50\ncommit\n"

	t.Run("empty images are listed by default", func(t *testing.T) {
		stdout, stderr, err := runRoot(t, events, "annotate", first, second, "-s", "-", "--no-db", "-c", cfgPath)
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
		}
		if !strings.Contains(stdout, "2.png") || !strings.Contains(stdout, "No panels plotted.") {
			t.Errorf("expected the empty image in the report, got:\n%s", stdout)
		}
		if strings.Contains(stdout, "pixels:") {
			t.Errorf("pixel boxes are verbose only, got:\n%s", stdout)
		}
	})

	t.Run("hide-empty drops images without panels", func(t *testing.T) {
		stdout, stderr, err := runRoot(t, events, "annotate", first, second, "-s", "-", "--hide-empty", "--no-db", "-c", cfgPath)
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
		}
		if strings.Contains(stdout, "2.png") {
			t.Errorf("expected 2.png to be hidden, got:\n%s", stdout)
		}
		if !strings.Contains(stdout, "1.png") {
			t.Errorf("expected 1.png in the report, got:\n%s", stdout)
		}
	})

	t.Run("verbose adds pixel boxes", func(t *testing.T) {
		stdout, stderr, err := runRoot(t, events, "annotate", first, second, "-s", "-", "-v", "--no-db", "-c", cfgPath)
		if err != nil {
			t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
		}
		if !strings.Contains(stdout, "pixels: x=20 y=10 width=80 height=40") {
			t.Errorf("expected the pixel box of the panel, got:\n%s", stdout)
		}
	})
}

func TestAnnotateJSONLogs(t *testing.T) {
	dir := t.TempDir()
	page := writePNG(t, dir, "1.png", 100, 100)

	_, stderr, err := runRoot(t, "click 0 0\nclick 50 50\ncommit\n",
		"annotate", page, "-s", "-", "--log-json", "-v", "--no-db", "-c", emptyConfig(t, dir))
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr: %s)", err, stderr)
	}

	var finished, emptyList bool
	for _, line := range strings.Split(stderr, "\n") {
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line is not JSON: %v\n%s", err, line)
		}
		switch rec["msg"] {
		case "replay finished":
			finished = true
			if rec["active"] != "1.png" {
				t.Errorf("expected active image 1.png, got %v", rec["active"])
			}
			if rec["panels"] != float64(1) {
				t.Errorf("expected 1 panel, got %v", rec["panels"])
			}
		case "panels changed":
			if rec["panels"] == "No panels plotted." {
				emptyList = true
			}
		}
	}
	if !finished {
		t.Errorf("expected a replay finished record, got:\n%s", stderr)
	}
	if !emptyList {
		t.Errorf("expected the empty panel list text in the log, got:\n%s", stderr)
	}
}

func TestBuildConfigOutputFlags(t *testing.T) {
	dir := t.TempDir()
	root := NewRootCmd()
	root.SetArgs([]string{"annotate", "1.png", "--hide-empty", "--live", "--log-json", "-c", emptyConfig(t, dir)})

	var cfg *config.Config
	annotate, _, err := root.Find([]string{"annotate"})
	if err != nil {
		t.Fatal(err)
	}
	annotate.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = buildConfig(cmd, args)
		return err
	}
	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ShowEmpty {
		t.Error("expected --hide-empty to clear ShowEmpty")
	}
	if !cfg.Live {
		t.Error("expected --live to set Live")
	}
	if !cfg.LogJSON {
		t.Error("expected --log-json to set LogJSON")
	}
}
