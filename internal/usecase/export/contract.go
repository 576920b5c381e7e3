package export

import (
	"context"

	"github.com/kailas-cloud/hitreport/internal/domain/sequence"
)

// SequenceResolver looks accessions up in an ordered list of databases.
// Accessions that no database holds are absent from the result; the first
// database (in the given order) holding an accession wins.
type SequenceResolver interface {
	Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]sequence.Sequence, error)
}
