package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/domain/download"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
	exportuc "github.com/kailas-cloud/hitreport/internal/usecase/export"
)

func newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write FASTA or alignment downloads to a directory",
	}
	cmd.PersistentFlags().StringP("out", "o", ".", "Directory the download is written to")
	cmd.AddCommand(newExportFASTACommand(), newExportAlignmentCommand())
	return cmd
}

func newExportFASTACommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fasta",
		Short:   "Export hit sequences from the configured sequence backend",
		Example: `  hitreport export fasta --ids SI2.2.0_06267,SI2.2.0_13722 --databases 3c0a5bc06f2596698f62c7ce87aeb62a -o out/`,
		Args:    cobra.NoArgs,
		RunE:    runExportFASTA,
	}
	cmd.Flags().StringSlice("ids", nil, "Comma-separated sequence accessions")
	cmd.Flags().StringSlice("databases", nil, "Comma-separated database ids, searched in order")
	_ = cmd.MarkFlagRequired("ids")
	_ = cmd.MarkFlagRequired("databases")
	return cmd
}

func runExportFASTA(cmd *cobra.Command, _ []string) error {
	logger, err := cliLogger(cmd)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ids, _ := cmd.Flags().GetStringSlice("ids")
	dbs, _ := cmd.Flags().GetStringSlice("databases")
	ctx := logpkg.ContextWithLogger(cmd.Context(), logger)

	dl, err := a.exports.FASTA(ctx, ids, dbs)
	if err != nil {
		return err
	}
	return saveDownload(cmd, dl, logger)
}

func newExportAlignmentCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "alignment REPORT HIT_ID",
		Short:   "Export the pairwise alignments of one hit from a report file",
		Example: `  hitreport export alignment report.json Query_1_hit_3 -o out/`,
		Args:    cobra.ExactArgs(2),
		RunE:    runExportAlignment,
	}
}

func runExportAlignment(cmd *cobra.Command, args []string) error {
	logger, err := cliLogger(cmd)
	if err != nil {
		return err
	}
	rep, err := readReport(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	q, h, err := findHit(rep, args[1])
	if err != nil {
		return err
	}

	// Alignments come from the report alone; no sequence backend is needed.
	dl, err := exportuc.New(nil, 0).Alignment(q, h)
	if err != nil {
		return err
	}
	return saveDownload(cmd, dl, logger)
}

// saveDownload writes dl into the --out directory and prints its path.
func saveDownload(cmd *cobra.Command, dl download.Download, logger *zap.Logger) error {
	dir, _ := cmd.Flags().GetString("out")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, dl.Name)
	if err := os.WriteFile(path, dl.Body, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Debug("Download written", zap.String("path", path), zap.Int("bytes", dl.Size()))
	_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}
