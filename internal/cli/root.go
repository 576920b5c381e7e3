// Package cli is the hitreport command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/config"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
	"github.com/kailas-cloud/hitreport/internal/version"
)

// NewRootCommand builds the hitreport command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "hitreport",
		Short: "Render BLAST hits and export their sequences and alignments",
		Long: `hitreport serves the per-hit view of BLAST search reports: the hit
header, the link bar of actions, and FASTA and alignment downloads.

Configuration is read from config/$ENV.yaml (ENV defaults to "local").`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "Override the log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(),
		newRenderCommand(),
		newExportCommand(),
		newImportCommand(),
	)
	return root
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cliLogger builds the quiet logger used by one-shot commands.
func cliLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return logpkg.NewLogger("cli", level)
}

// loadApp loads config/$ENV.yaml and wires the store-backed services.
func loadApp(cmd *cobra.Command, logger *zap.Logger) (*app, error) {
	cfg, err := config.Load(config.GetEnv())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(cmd.Context(), cfg, logger)
}
