package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/panelkit/internal/config"
	"github.com/nao1215/panelkit/internal/database"
	"github.com/nao1215/panelkit/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [filename]",
		Short: "List archived exports",
		Long: `History lists the exports archived by annotate, newest first.

With a filename, it lists every archived panel list of that image instead.

Examples:
  panelkit history
  panelkit history 3.png
  panelkit history --id 12`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Archive directory (default: $XDG_DATA_HOME/panelkit)")
	cmd.Flags().Int64("id", 0,
		"Print the full report of one archived export")

	return cmd
}

// runHistoryCmd opens the archive read-only. A missing archive is reported
// as an error rather than created empty.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = config.XDGDataDir()
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	db, err := database.Open(dir, database.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("no archive found (run annotate first): %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case id != 0:
		return printExport(ctx, out, db, id)
	case len(args) == 1:
		return printImageHistory(ctx, out, db, args[0])
	default:
		return printExports(ctx, out, db)
	}
}

// printExports writes one table row per archived export.
func printExports(ctx context.Context, out io.Writer, db *database.ArchiveDB) error {
	exports, err := db.ListExports(ctx)
	if err != nil {
		return err
	}
	if len(exports) == 0 {
		fmt.Fprintln(out, "No exports archived.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tIMAGES\tPANELS")
	for _, e := range exports {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", e.ID, e.Timestamp.Format(time.DateTime), e.ImageCount, e.PanelCount)
	}
	return tw.Flush()
}

// printImageHistory writes the panel list text of every archived result
// for filename, newest export first.
func printImageHistory(ctx context.Context, out io.Writer, db *database.ArchiveDB, filename string) error {
	records, err := db.ImageHistory(ctx, filename)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "No archived results for %s.\n", filename)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "Export %d (%s) %dx%d\n", rec.ExportID, rec.Timestamp.Format(time.DateTime), rec.Width, rec.Height)
		text, err := report.FormatPanels(rec.Panels)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		fmt.Fprintln(out)
	}
	return nil
}

// printExport writes one archived export as a simple report.
func printExport(ctx context.Context, out io.Writer, db *database.ArchiveDB, id int64) error {
	export, err := db.GetExportByID(ctx, id)
	if err != nil {
		return err
	}
	_, err = report.NewSimpleWriter(out).Write(export)
	return err
}
