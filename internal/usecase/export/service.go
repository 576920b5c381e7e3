package export

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitreport/internal/domain"
	"github.com/kailas-cloud/hitreport/internal/domain/download"
	"github.com/kailas-cloud/hitreport/internal/domain/report"
	"github.com/kailas-cloud/hitreport/internal/domain/sequence"
	"github.com/kailas-cloud/hitreport/internal/format/alignment"
	"github.com/kailas-cloud/hitreport/internal/format/fasta"
	logpkg "github.com/kailas-cloud/hitreport/internal/logger"
)

// Service produces FASTA and alignment downloads and serves sequences to the viewer.
type Service struct {
	resolver SequenceResolver
	fasta    fasta.Writer
	exports  *prometheus.CounterVec
}

// New creates an export service. lineWidth wraps FASTA residues (0 disables wrapping).
func New(resolver SequenceResolver, lineWidth int) *Service {
	return &Service{resolver: resolver, fasta: fasta.Writer{LineWidth: lineWidth}}
}

// WithMetrics sets a counter vec with labels "format" and "status".
func (s *Service) WithMetrics(exports *prometheus.CounterVec) *Service {
	s.exports = exports
	return s
}

// FASTA exports the sequences of accessions found in databaseIDs.
// The export is all or nothing: one unresolved accession fails it.
func (s *Service) FASTA(ctx context.Context, accessions, databaseIDs []string) (download.Download, error) {
	seqs, err := s.Sequences(ctx, accessions, databaseIDs)
	if err != nil {
		s.count("fasta", err)
		return download.Download{}, err
	}

	var buf bytes.Buffer
	if err := s.fasta.Write(&buf, seqs); err != nil {
		s.count("fasta", err)
		return download.Download{}, fmt.Errorf("write fasta: %w", err)
	}
	s.count("fasta", nil)

	logpkg.FromContext(ctx).Debug("FASTA export ready",
		zap.Strings("accessions", accessions),
		zap.Strings("database_ids", databaseIDs),
		zap.Int("bytes", buf.Len()),
	)
	return download.Download{
		Name:        fasta.FileName(dedupe(accessions)),
		ContentType: download.ContentTypeFASTA,
		Body:        buf.Bytes(),
	}, nil
}

// Alignment exports every HSP of h as a pairwise text alignment, in aligner order.
// The HSPs are enriched on copies; the report itself is not modified.
func (s *Service) Alignment(q *report.Query, h *report.Hit) (download.Download, error) {
	src := h.HSPs()
	if len(src) == 0 {
		s.count("alignment", domain.ErrEmptyExport)
		return download.Download{}, fmt.Errorf("%w: hit %s has no hsps", domain.ErrEmptyExport, h.ID())
	}
	hsps := make([]report.HSP, len(src))
	for i, hsp := range src {
		hsps[i] = hsp.WithOwners(q.ID(), h.ID())
	}

	var buf bytes.Buffer
	if err := alignment.Write(&buf, hsps); err != nil {
		s.count("alignment", err)
		return download.Download{}, fmt.Errorf("write alignment: %w", err)
	}
	s.count("alignment", nil)

	return download.Download{
		Name:        alignment.FileName(alignment.BaseName(q.ID(), h.ID())),
		ContentType: download.ContentTypeText,
		Body:        buf.Bytes(),
	}, nil
}

// Sequences resolves accessions in request order.
func (s *Service) Sequences(ctx context.Context, accessions, databaseIDs []string) ([]sequence.Sequence, error) {
	accessions = dedupe(accessions)
	if len(accessions) == 0 {
		return nil, fmt.Errorf("%w: no sequence ids", domain.ErrEmptyExport)
	}
	if len(databaseIDs) == 0 {
		return nil, fmt.Errorf("%w: no database ids", domain.ErrEmptyExport)
	}

	found, err := s.resolver.Resolve(ctx, accessions, databaseIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve sequences: %w", err)
	}

	out := make([]sequence.Sequence, 0, len(accessions))
	for _, acc := range accessions {
		seq, ok := found[acc]
		if !ok {
			return nil, domain.NewSequenceNotFound(acc, databaseIDs)
		}
		out = append(out, seq)
	}
	return out, nil
}

// ViewerSequences resolves sequences for the sequence viewer, refusing any
// sequence longer than the viewer accepts.
func (s *Service) ViewerSequences(ctx context.Context, accessions, databaseIDs []string) ([]sequence.Sequence, error) {
	seqs, err := s.Sequences(ctx, accessions, databaseIDs)
	if err != nil {
		return nil, err
	}
	for _, seq := range seqs {
		if seq.Length() > domain.MaxViewableLength {
			return nil, fmt.Errorf("%w: %s has %d residues (max %d)",
				domain.ErrSequenceTooLarge, seq.ID(), seq.Length(), domain.MaxViewableLength)
		}
	}
	return seqs, nil
}

// Open prepares a get_sequence target for the sequence viewer by resolving
// its sequences, which warms any cache in front of the resolver.
func (s *Service) Open(ctx context.Context, target string) error {
	accessions, databaseIDs, err := ParseViewerTarget(target)
	if err != nil {
		return err
	}
	seqs, err := s.ViewerSequences(ctx, accessions, databaseIDs)
	if err != nil {
		return err
	}
	logpkg.FromContext(ctx).Debug("viewer sequences ready", zap.Int("count", len(seqs)))
	return nil
}

// ParseViewerTarget extracts the comma-separated sequence_ids and
// database_ids of a get_sequence URL.
func ParseViewerTarget(target string) (accessions, databaseIDs []string, err error) {
	_, rawQuery, ok := strings.Cut(target, "?")
	if !ok {
		return nil, nil, fmt.Errorf("viewer target %q: missing query", target)
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("viewer target %q: %w", target, err)
	}
	return SplitIDs(values.Get("sequence_ids")), SplitIDs(values.Get("database_ids")), nil
}

// SplitIDs splits a comma-separated id list, dropping blanks.
func SplitIDs(s string) []string {
	var out []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func (s *Service) count(format string, err error) {
	if s.exports == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.exports.WithLabelValues(format, status).Inc()
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
