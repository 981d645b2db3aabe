package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	panelog "github.com/nao1215/panelkit/internal/log"
)

// NewRootCmd creates the root command for panelkit.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panelkit",
		Short: "Annotate page images with zoom-independent panels",
		Long: `panelkit loads page images, replays pointer, keyboard and zoom events
against them, and exports each closed region as a bounding rectangle in
percent of the page. Results do not depend on the zoom level used while
drawing.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")

	cmd.AddCommand(NewAnnotateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getPersistentBool(cmd, "verbose")
}

// getPersistentBool retrieves a root persistent bool flag from the command
// or its parent. Unknown flags read as false.
func getPersistentBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the structured logger for a command run. Both
// formats elide image payloads.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return panelog.NewJSONLogger(w, verbose)
	}
	return panelog.NewLogger(w, verbose)
}
