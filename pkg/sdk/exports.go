package hitreport

import (
	"context"
	"fmt"
	"time"
)

// ExportService exports database sequences by accession.
type ExportService struct {
	svc exportUseCase
	obs *observer
}

// FASTA exports accessions found in databaseIDs. One unresolved accession
// fails the whole export with ErrSequenceNotFound.
func (s *ExportService) FASTA(ctx context.Context, accessions, databaseIDs []string) (_ Download, err error) {
	start := time.Now()
	defer func() { s.obs.observe("export.fasta", start, err) }()

	dl, err := s.svc.FASTA(ctx, accessions, databaseIDs)
	if err != nil {
		return Download{}, fmt.Errorf("export fasta: %w", err)
	}
	return fromInternalDownload(dl), nil
}

// Sequences resolves accessions for the sequence viewer, in request order.
// Sequences longer than the viewer accepts fail with ErrSequenceTooLarge.
func (s *ExportService) Sequences(ctx context.Context, accessions, databaseIDs []string) (_ []Sequence, err error) {
	start := time.Now()
	defer func() { s.obs.observe("export.sequences", start, err) }()

	seqs, err := s.svc.ViewerSequences(ctx, accessions, databaseIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve sequences: %w", err)
	}
	out := make([]Sequence, len(seqs))
	for i, seq := range seqs {
		out[i] = fromInternalSequence(seq)
	}
	return out, nil
}
