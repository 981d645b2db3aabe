package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/panelkit/internal/config"
	"github.com/nao1215/panelkit/internal/database"
	"github.com/nao1215/panelkit/internal/drawing"
	"github.com/nao1215/panelkit/internal/imageload"
	"github.com/nao1215/panelkit/internal/model"
	"github.com/nao1215/panelkit/internal/report"
	"github.com/nao1215/panelkit/internal/script"
	"github.com/nao1215/panelkit/internal/session"
)

// stdinScript is the --script value that reads events from stdin.
const stdinScript = "-"

// errNoDecodableImages is returned when none of the arguments is an image.
var errNoDecodableImages = errors.New("none of the given files is a supported image")

// NewAnnotateCmd creates the annotate command.
func NewAnnotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate [images...]",
		Short: "Replay drawing events over page images and export the panels",
		Long: `Annotate loads the given page images, sorts them by the number at the
start of their filename, activates the first one and replays an event script
against it. Every committed region is exported as the rectangle that bounds
it, in percent of the page.

Script commands (one per line, # starts a comment):
  click X Y                     pointer press at page-space pixels
  shift down | shift up         hold or release the modifier
  commit                        close the path being drawn
  select PATH_ID                delete a committed panel
  clear                         delete every panel of the image
  zoom in | zoom out | zoom set F
  resize TOP LEFT WIDTH HEIGHT  move or resize the rendered page
  scroll DX DY                  container scroll offsets
  image INDEX | open FILENAME   switch the active image

A script whose name ends in .yaml or .yml is read as a list of events.

Examples:
  # Draw one panel on the first page
  printf 'click 10 10\nclick 90 10\nclick 90 40\ncommit\n' | panelkit annotate 1.png 2.png -s -

  # Markdown report written to a file, not archived
  panelkit annotate pages/*.png -s events.yaml --markdown -o panels.md --no-db

  # Print the panel list of the active image after every change
  panelkit annotate pages/*.png -s events.txt --live`,
		Args: cobra.ArbitraryArgs,
		RunE: runAnnotateCmd,
	}

	cmd.Flags().StringP("script", "s", "",
		`Event script to replay ("-" reads stdin)`)
	cmd.Flags().Float64("zoom-step", config.DefaultZoomStep,
		"Zoom increment")
	cmd.Flags().Float64("zoom-min", config.DefaultZoomMinimum,
		"Minimum zoom factor")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of images decoded at once")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .panelkit in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("hide-empty", false,
		"Leave images without panels out of the simple report")
	cmd.Flags().Bool("live", false,
		"Write the active image's panel list to stderr after every change")
	cmd.Flags().Bool("no-db", false,
		"Do not archive the export")
	cmd.Flags().String("db-dir", "",
		"Archive directory (default: $XDG_DATA_HOME/panelkit)")

	return cmd
}

func runAnnotateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runAnnotate(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// buildConfig layers defaults, the config file and explicitly set flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing implicit
	// .panelkit is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("zoom-step") {
		if cfg.ZoomStep, err = flags.GetFloat64("zoom-step"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("zoom-min") {
		if cfg.ZoomMinimum, err = flags.GetFloat64("zoom-min"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	if cfg.ScriptPath, err = flags.GetString("script"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.Live, err = flags.GetBool("live"); err != nil {
		return nil, err
	}
	hideEmpty, err := flags.GetBool("hide-empty")
	if err != nil {
		return nil, err
	}
	if hideEmpty {
		cfg.ShowEmpty = false
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return nil, err
	}
	if noDB {
		cfg.SaveToDB = false
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getPersistentBool(cmd, "log-json")
	cfg.Images = args
	return cfg, nil
}

// runAnnotate loads the images, replays the script, and writes and
// archives the export.
func runAnnotate(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer, logger *slog.Logger) error {
	cmds, err := loadScript(cfg.ScriptPath, stdin)
	if err != nil {
		return err
	}

	files, err := imageload.ReadFiles(cfg.Images)
	if err != nil {
		return err
	}

	loader := imageload.NewLoader(
		imageload.WithConcurrency(cfg.Concurrency),
		imageload.WithExtensions(cfg.Extensions),
		imageload.WithLoaderLogger(logger),
	)
	listener := newLogListener(logger)
	if cfg.Live {
		listener.live = report.NewSimpleWriter(stderr)
		listener.liveOut = stderr
	}
	sess := session.New(
		session.WithLoader(loader),
		session.WithListener(listener),
		session.WithLogger(logger),
		session.WithZoom(cfg.ZoomStep, cfg.ZoomMinimum),
	)

	start := time.Now()
	images, err := sess.LoadImages(ctx, files)
	if err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}
	if len(images) == 0 {
		return errNoDecodableImages
	}
	logger.Info("images loaded", "count", len(images), "elapsed", time.Since(start).Round(time.Millisecond))

	stats, err := script.Replay(ctx, sess, cmds, logger)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	if active, ok := sess.ActiveImage(); ok {
		logger.Info("replay finished",
			"applied", stats.Applied,
			"ignored", stats.Ignored,
			"active", active.Filename,
			"panels", len(sess.Panels()),
		)
	}

	export := model.NewExport(sess.Images(), sess.Results(), time.Now().UTC())
	if err := outputReport(cfg, export, stdout); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "Replayed %d events (%d ignored), %d panels on %d of %d images\n",
		stats.Applied, stats.Ignored, export.TotalPanels(), export.AnnotatedCount(), len(export.Images))

	if !cfg.SaveToDB {
		return nil
	}
	id, err := archiveExport(ctx, cfg.DBDir, export)
	if err != nil {
		logger.Error("failed to archive export", "dir", cfg.DBDir, "error", err)
		return nil
	}
	logger.Info("export archived", "id", id, "dir", cfg.DBDir)
	return nil
}

// loadScript reads the event script. An empty path yields no events.
func loadScript(path string, stdin io.Reader) ([]script.Command, error) {
	switch path {
	case "":
		return nil, nil
	case stdinScript:
		cmds, err := script.ParseLines(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to parse script from stdin: %w", err)
		}
		return cmds, nil
	default:
		cmds, err := script.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
		}
		return cmds, nil
	}
}

// outputReport writes the export in the configured format to the report
// file, or to stdout when none is set.
func outputReport(cfg *config.Config, export *model.Export, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	writer, err := report.New(cfg.EffectiveReportFormat(), output,
		report.WithVerbose(cfg.Verbose),
		report.WithShowEmpty(cfg.ShowEmpty),
	)
	if err != nil {
		return err
	}
	if _, err := writer.Write(export); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func archiveExport(ctx context.Context, dir string, export *model.Export) (int64, error) {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return db.SaveExport(ctx, export)
}

// logListener reports session notifications to the debug log. When live
// is set, every panel change is also written there as the panel list text.
type logListener struct {
	logger  *slog.Logger
	live    report.Writer
	liveOut io.Writer
	active  string
}

var _ session.Listener = (*logListener)(nil)

func newLogListener(logger *slog.Logger) *logListener {
	return &logListener{logger: logger}
}

func (l *logListener) PathRendered(d drawing.Directive) {
	l.logger.Debug("path rendered", "path", d.PathID, "state", string(d.State), "d", d.D)
}

func (l *logListener) PanelsChanged(index int, panels []model.Panel) {
	if l.logger.Enabled(context.Background(), slog.LevelDebug) {
		text, err := report.FormatPanels(panels)
		if err != nil {
			l.logger.Warn("failed to format panels", "image", index, "error", err)
		} else {
			l.logger.Debug("panels changed", "image", index, "count", len(panels), "panels", text)
		}
	}

	if l.live == nil {
		return
	}
	fmt.Fprintf(l.liveOut, "--- %s (%d panels)\n", l.active, len(panels))
	if _, err := l.live.WritePanels(panels); err != nil {
		l.logger.Warn("failed to write live panel list", "error", err)
	}
}

func (l *logListener) ActiveImageChanged(index int, filename string) {
	l.active = filename
	l.logger.Debug("active image changed", "image", index, "file", filename)
}

func (l *logListener) MarkerRemoved(pathID string) {
	l.logger.Debug("marker removed", "path", pathID)
}
