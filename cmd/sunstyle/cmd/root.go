// Package cmd implements the sunstyle CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sunstyle/sunstyle/cmd/sunstyle/app"
)

var (
	cfg    *app.Config
	logger *zerolog.Logger

	flagVerbose bool
	flagQuiet   bool
)

// newRootCommand creates the root command.
func newRootCommand(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sunstyle",
		Short: "Realtime clothing catalog server",
		Long: `SunStyle is a realtime clothing catalog: connected clients publish
prendas and every client, including late joiners, observes the same
most-recent-first catalog.

The serve command runs the WebSocket/SSE server; catalog commands inspect
the persisted db.json offline.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			cfg, err = app.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			logger = app.ConfigureLogger(cfg, flagVerbose, flagQuiet)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log warnings and errors")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newCatalogCommand())

	return cmd
}

// Execute runs the CLI.
func Execute(version, commit string) error {
	root := newRootCommand(version, commit)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
