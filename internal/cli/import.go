package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
	"github.com/kailas-cloud/hitreport/internal/format/fasta"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
)

// uploadsPrefix is the blob key prefix of report files uploaded from disk.
const uploadsPrefix = "uploads/"

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load BLAST XML reports or database sequences into the stores",
	}
	cmd.AddCommand(newImportReportCommand(), newImportSequencesCommand())
	return cmd
}

func newImportReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [BLOB_KEY]",
		Short: "Import a BLAST XML (-outfmt 5) report",
		Long: `Parses BLAST XML held in blob storage under BLOB_KEY and saves it as an
imported report. With --file the XML is uploaded to blob storage first.`,
		Example: `  hitreport import report uploads/run1.xml --id run1
  hitreport import report --file run1.xml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImportReport,
	}
	cmd.Flags().String("id", "", "Report id (default: the file name without extension)")
	cmd.Flags().StringP("file", "f", "", "Local BLAST XML file to upload and import")
	return cmd
}

func runImportReport(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if (len(args) == 1) == (file != "") {
		return errors.New("give either a blob key or --file")
	}

	logger, err := cliLogger(cmd)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := logpkg.ContextWithLogger(cmd.Context(), logger)

	var key string
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		key = uploadsPrefix + filepath.Base(file)
		if err := a.blobs.Put(ctx, key, data, "application/xml"); err != nil {
			return fmt.Errorf("upload %s: %w", file, err)
		}
	} else {
		key = args[0]
	}

	id, _ := cmd.Flags().GetString("id")
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(key), filepath.Ext(key))
	}

	rep, err := a.reports.Import(ctx, key, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d queries\t%d hits\n",
		rep.ID(), len(rep.Queries()), rep.HitCount())
	return err
}

func newImportSequencesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequences FASTA",
		Short: "Load database sequences from a FASTA file into the sequence backend",
		Long: `Stores every record of FASTA under --database so that hits from that
database can be exported. The blastdbcmd backend is read-only.`,
		Example: `  hitreport import sequences Sinvicta2-2-3.prot.subset.fasta --database 3c0a5bc06f2596698f62c7ce87aeb62a`,
		Args:    cobra.ExactArgs(1),
		RunE:    runImportSequences,
	}
	cmd.Flags().String("database", "", "Database id the sequences belong to")
	_ = cmd.MarkFlagRequired("database")
	return cmd
}

func runImportSequences(cmd *cobra.Command, args []string) error {
	databaseID, _ := cmd.Flags().GetString("database")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()
	seqs, err := readSequences(f, databaseID)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	logger, err := cliLogger(cmd)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.sequences.writer == nil {
		return fmt.Errorf("sequences driver %q is read-only", a.cfg.Sequences.Driver)
	}
	if err := a.sequences.writer.Put(cmd.Context(), seqs); err != nil {
		return fmt.Errorf("store sequences: %w", err)
	}
	logger.Info("Sequences imported", zap.String("database_id", databaseID), zap.Int("count", len(seqs)))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d sequences\n", len(seqs))
	return err
}

// readSequences parses FASTA records into sequences of databaseID.
func readSequences(r io.Reader, databaseID string) ([]domseq.Sequence, error) {
	records, err := fasta.Read(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no fasta records")
	}
	seqs := make([]domseq.Sequence, 0, len(records))
	for _, rec := range records {
		s, err := domseq.New(rec.ID, rec.Title, rec.Residues, databaseID)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", rec.ID, err)
		}
		seqs = append(seqs, s)
	}
	return seqs, nil
}
