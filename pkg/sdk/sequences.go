package hitreport

import (
	"context"
	"fmt"

	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
)

// SequenceResolver looks up accessions in the given databases, searched in
// order. Accessions not found are left out of the result.
type SequenceResolver interface {
	Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]Sequence, error)
}

// resolverAdapter wraps a public SequenceResolver for the export service.
type resolverAdapter struct {
	inner SequenceResolver
}

func (a *resolverAdapter) Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]domseq.Sequence, error) {
	found, err := a.inner.Resolve(ctx, accessions, databaseIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	out := make(map[string]domseq.Sequence, len(found))
	for acc, s := range found {
		seq, err := domseq.New(s.ID, s.Title, s.Residues, s.DatabaseID)
		if err != nil {
			return nil, fmt.Errorf("sequence %s: %w", acc, err)
		}
		out[acc] = seq
	}
	return out, nil
}
