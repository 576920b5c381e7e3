// Package blastdb resolves sequences straight from BLAST databases with blastdbcmd.
package blastdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/domain/sequence"
	"github.com/kailas-cloud/hitreport/internal/format/fasta"
	"github.com/kailas-cloud/hitreport/internal/metrics"
)

// Runner executes a command with stdin and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner. The error carries stderr.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Config holds the blastdbcmd settings.
type Config struct {
	// Binary is the blastdbcmd executable (default "blastdbcmd").
	Binary string
	// Databases maps a database id to the BLAST database path passed to -db.
	Databases map[string]string
	Runner    Runner
	Logger    *zap.Logger
}

// Resolver implements the sequence resolver over BLAST databases.
type Resolver struct {
	binary    string
	databases map[string]string
	runner    Runner
	logger    *zap.Logger
}

// ErrUnknownDatabase signals a database id with no configured path.
var ErrUnknownDatabase = errors.New("unknown blast database")

const entryNotFound = "Entry not found"

// NewResolver creates a blastdbcmd-backed resolver.
func NewResolver(cfg *Config) *Resolver {
	r := &Resolver{
		binary:    cfg.Binary,
		databases: cfg.Databases,
		runner:    cfg.Runner,
		logger:    cfg.Logger,
	}
	if r.binary == "" {
		r.binary = "blastdbcmd"
	}
	if r.runner == nil {
		r.runner = ExecRunner{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Resolve queries each database in order for the accessions still missing.
// The first database holding an accession wins.
func (r *Resolver) Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]sequence.Sequence, error) {
	out := make(map[string]sequence.Sequence, len(accessions))
	for _, dbID := range databaseIDs {
		missing := make([]string, 0, len(accessions))
		for _, acc := range accessions {
			if _, ok := out[acc]; !ok {
				missing = append(missing, acc)
			}
		}
		if len(missing) == 0 {
			break
		}

		path, ok := r.databases[dbID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, dbID)
		}
		records, err := r.fetch(ctx, path, missing)
		if err != nil {
			return nil, fmt.Errorf("blastdbcmd %s: %w", dbID, err)
		}
		for _, acc := range missing {
			if rec, ok := match(records, acc); ok {
				out[acc] = sequence.Reconstruct(acc, rec.Title, rec.Residues, dbID)
			}
		}
	}
	return out, nil
}

func (r *Resolver) fetch(ctx context.Context, dbPath string, accessions []string) ([]fasta.Record, error) {
	args := []string{"-db", dbPath, "-entry_batch", "-", "-outfmt", "%f"}
	stdin := []byte(strings.Join(accessions, "\n") + "\n")

	start := time.Now()
	stdout, err := r.runner.Run(ctx, r.binary, args, stdin)
	duration := time.Since(start)

	// blastdbcmd exits non-zero when any entry is missing but still prints
	// the ones it found.
	if err != nil && !strings.Contains(err.Error(), entryNotFound) {
		metrics.BlastdbcmdRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.BlastdbcmdRequestsTotal.WithLabelValues("ok").Inc()
	metrics.BlastdbcmdDuration.Observe(duration.Seconds())

	records, perr := fasta.Read(bytes.NewReader(stdout))
	if perr != nil {
		return nil, fmt.Errorf("parse blastdbcmd output: %w", perr)
	}
	r.logger.Debug("blastdbcmd done",
		zap.String("db", dbPath),
		zap.Int("requested", len(accessions)),
		zap.Int("found", len(records)),
		zap.Duration("took", duration),
	)
	return records, nil
}

// HealthCheck verifies the binary is runnable.
func (r *Resolver) HealthCheck(ctx context.Context) error {
	if _, err := r.runner.Run(ctx, r.binary, []string{"-version"}, nil); err != nil {
		return fmt.Errorf("blastdbcmd -version: %w", err)
	}
	return nil
}

// match finds the record of accession. blastdbcmd prints ids as stored,
// so "lcl|X" and "gnl|db|X" both match X.
func match(records []fasta.Record, accession string) (fasta.Record, bool) {
	for _, rec := range records {
		if rec.ID == accession || strings.HasSuffix(rec.ID, "|"+accession) {
			return rec, true
		}
	}
	return fasta.Record{}, false
}
